package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

// stubAuth resolves a single known token and fails with a configurable error
// for everything else.
type stubAuth struct {
	token     string
	userID    int64
	verifyErr error
}

func (s *stubAuth) HashPassword(plain string) (string, error)      { return plain, nil }
func (s *stubAuth) CheckPassword(hash, plain string) error         { return nil }
func (s *stubAuth) IssueToken(ctx context.Context, userID int64) (string, error) {
	return s.token, nil
}

func (s *stubAuth) VerifyToken(ctx context.Context, token string) (int64, error) {
	if s.verifyErr != nil {
		return 0, s.verifyErr
	}
	if token != s.token {
		return 0, domain.ErrInvalidToken
	}
	return s.userID, nil
}

func callWithToken(t *testing.T, auth *stubAuth, header string) (*httptest.ResponseRecorder, int64, bool) {
	t.Helper()
	var gotID int64
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	RequireAuth(auth)(next).ServeHTTP(w, req)
	return w, gotID, gotOK
}

func TestRequireAuthValidToken(t *testing.T) {
	auth := &stubAuth{token: "good-token", userID: 42}

	w, userID, ok := callWithToken(t, auth, "Bearer good-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, ok)
	assert.Equal(t, int64(42), userID)
}

func TestRequireAuthRejectsBadTokens(t *testing.T) {
	auth := &stubAuth{token: "good-token", userID: 42}

	for _, header := range []string{"", "Bearer ", "Bearer wrong", "Basic abc"} {
		w, _, ok := callWithToken(t, auth, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		assert.False(t, ok)
	}
}

func TestRequireAuthBackendFailureIs500(t *testing.T) {
	// A token-store outage must not masquerade as a bad token: clients would
	// throw away credentials that are still valid.
	auth := &stubAuth{verifyErr: errors.New("dial tcp: connection refused")}

	w, _, ok := callWithToken(t, auth, "Bearer good-token")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, ok)
	assert.Contains(t, w.Body.String(), "internal server error")
}
