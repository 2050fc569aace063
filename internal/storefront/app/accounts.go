package app

import (
	"context"
	"log/slog"
	"net/mail"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
	"github.com/jcmexdev/storefront/internal/storefront/ports"
)

// AccountService owns registration and login. Raw credentials pass straight
// through to the auth provider; the service never inspects them.
type AccountService struct {
	users ports.UserStore
	auth  ports.AuthProvider
}

func NewAccountService(users ports.UserStore, auth ports.AuthProvider) *AccountService {
	return &AccountService{users: users, auth: auth}
}

// Register creates a new account with a unique email.
func (s *AccountService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, &domain.ValidationError{Field: "email", Reason: "not a valid email address"}
	}
	if len(password) < 6 {
		return nil, &domain.ValidationError{Field: "password", Reason: "must be at least 6 characters"}
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, email, hash)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login authenticates the credentials and returns a bearer token.
// Lookup failure and password mismatch are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", domain.ErrInvalidLogin
	}
	if err := s.auth.CheckPassword(user.PasswordHash, password); err != nil {
		return "", domain.ErrInvalidLogin
	}
	return s.auth.IssueToken(ctx, user.ID)
}

// GetUser returns the account for the given id.
func (s *AccountService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetUser(ctx, id)
}
