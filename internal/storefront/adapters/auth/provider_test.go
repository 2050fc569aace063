package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/pkg/cache"
	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

func TestHashAndCheckPassword(t *testing.T) {
	p := NewProvider(cache.NewMemoryCache("test"))

	hash, err := p.HashPassword("hunter42")
	require.NoError(t, err)
	assert.NotContains(t, hash, "hunter42")

	require.NoError(t, p.CheckPassword(hash, "hunter42"))
	assert.ErrorIs(t, p.CheckPassword(hash, "wrong"), domain.ErrInvalidLogin)
	assert.ErrorIs(t, p.CheckPassword("garbage", "hunter42"), domain.ErrInvalidLogin)

	// Fresh salt per hash: equal passwords produce different handles.
	other, err := p.HashPassword("hunter42")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
}

func TestIssueAndVerifyToken(t *testing.T) {
	p := NewProvider(cache.NewMemoryCache("test"))
	ctx := context.Background()

	token, err := p.IssueToken(ctx, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := p.VerifyToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)

	_, err = p.VerifyToken(ctx, "never-issued")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
