// Package auth ships the development implementation of ports.AuthProvider:
// salted SHA-256 password hashes and opaque UUID bearer tokens kept in the
// cache with a TTL. Deployments that need bcrypt or JWTs plug in their own
// provider behind the same port.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/storefront/internal/pkg/cache"
	"github.com/jcmexdev/storefront/internal/storefront/domain"
	"github.com/jcmexdev/storefront/internal/storefront/ports"
)

// TokenTTL is how long an issued bearer token stays valid.
const TokenTTL = 24 * time.Hour

var _ ports.AuthProvider = (*Provider)(nil)

// Provider implements ports.AuthProvider on top of a cache.Cache token store.
type Provider struct {
	tokens cache.Cache
}

func NewProvider(tokens cache.Cache) *Provider {
	return &Provider{tokens: tokens}
}

// HashPassword returns a "salt$digest" handle for the given password.
func (p *Provider) HashPassword(plain string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("auth: generate salt: %w", err)
	}
	return hex.EncodeToString(salt) + "$" + digest(salt, plain), nil
}

// CheckPassword verifies a password against a handle produced by HashPassword.
func (p *Provider) CheckPassword(hash, plain string) error {
	saltHex, want, ok := strings.Cut(hash, "$")
	if !ok {
		return domain.ErrInvalidLogin
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return domain.ErrInvalidLogin
	}
	if subtle.ConstantTimeCompare([]byte(digest(salt, plain)), []byte(want)) != 1 {
		return domain.ErrInvalidLogin
	}
	return nil
}

// IssueToken mints an opaque bearer token for the user and stores the
// mapping with a TTL.
func (p *Provider) IssueToken(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	key := p.tokens.GenerateKey("token", token)
	if err := p.tokens.Set(ctx, key, strconv.FormatInt(userID, 10), TokenTTL); err != nil {
		return "", fmt.Errorf("auth: store token: %w", err)
	}
	return token, nil
}

// VerifyToken resolves a bearer token back to the user it was issued for.
func (p *Provider) VerifyToken(ctx context.Context, token string) (int64, error) {
	key := p.tokens.GenerateKey("token", token)
	val, err := p.tokens.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("auth: look up token: %w", err)
	}
	if val == "" {
		return 0, domain.ErrInvalidToken
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("auth: corrupt token entry %q: %w", val, err)
	}
	return userID, nil
}

func digest(salt []byte, plain string) string {
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(plain))
	return hex.EncodeToString(h.Sum(nil))
}
