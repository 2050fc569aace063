package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

// CreateUser inserts a new account. The UNIQUE constraint on email is the
// authority for duplicate registration: a violation surfaces as
// domain.ErrEmailTaken rather than a pre-read check that could race.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	u := &domain.User{
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	const q = `INSERT INTO users (email, password_hash, created_at) VALUES (?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, u.Email, u.PasswordHash, formatTime(u.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("sqlite: create user %q: %w", email, mapErr(err))
	}

	u.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("sqlite: create user %q: last insert id: %w", email, err)
	}
	return u, nil
}

// GetUser returns one account by id.
func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	const q = `SELECT id, email, password_hash, created_at FROM users WHERE id = ?`
	u, err := scanUser(s.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrUserNotFound)
	}
	return u, err
}

// GetUserByEmail returns one account by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT id, email, password_hash, created_at FROM users WHERE email = ?`
	u, err := scanUser(s.db.QueryRowContext(ctx, q, email))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %q: %w", email, domain.ErrUserNotFound)
	}
	return u, err
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var createdAt string
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &createdAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: scan user: %w", err)
	}

	u.CreatedAt, err = parseRFC3339(createdAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
