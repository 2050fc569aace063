// Package middlewares carries the HTTP middleware of the storefront surface.
package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
	"github.com/jcmexdev/storefront/internal/storefront/ports"
)

type contextKey string

// userIDKey is the context key under which RequireAuth stores the
// authenticated user's ID.
const userIDKey contextKey = "user_id"

// RequireAuth verifies the Bearer token on every request and stores the
// authenticated user ID in the request context. Requests without a valid
// token are rejected with 401 before reaching the handler.
func RequireAuth(auth ports.AuthProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "not authenticated")
				return
			}

			userID, err := auth.VerifyToken(r.Context(), token)
			if err != nil {
				// A token-store outage is not the client's fault: a valid
				// token must not come back 401, or clients would discard it.
				if !errors.Is(err, domain.ErrInvalidToken) {
					slog.ErrorContext(r.Context(), "token verification failed", "error", err)
					writeDetail(w, http.StatusInternalServerError, "internal server error")
					return
				}
				unauthorized(w, "could not validate credentials")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user ID stored by RequireAuth.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, detail string) {
	writeDetail(w, http.StatusUnauthorized, detail)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
