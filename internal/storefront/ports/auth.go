package ports

import "context"

// AuthProvider is the opaque credential capability. The core hands raw
// passwords straight through it and treats both hashes and tokens as opaque
// strings. Production deployments plug in their own implementation (bcrypt +
// JWT or similar); this repo ships a development one.
type AuthProvider interface {
	HashPassword(plain string) (string, error)
	CheckPassword(hash, plain string) error
	IssueToken(ctx context.Context, userID int64) (string, error)
	// VerifyToken returns the user ID a token was issued for.
	VerifyToken(ctx context.Context, token string) (int64, error)
}
