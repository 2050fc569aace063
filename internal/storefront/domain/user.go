package domain

import "time"

// User is a registered account. PasswordHash is an opaque credential handle
// produced by the auth provider; the core never interprets it.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
