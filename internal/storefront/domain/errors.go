package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for lookups and uniqueness violations.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidLogin    = errors.New("incorrect email or password")
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrEmptyOrder      = errors.New("order must contain at least one item")

	// ErrConflict marks a storage-level conflict (e.g. a busy database) that
	// is safe to retry because nothing was committed.
	ErrConflict = errors.New("storage conflict")
)

// ValidationError reports a malformed input field. Maps to 422 at the HTTP
// boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// InvalidQuantityError reports a line item with a zero or negative quantity.
type InvalidQuantityError struct {
	ProductID int64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity for product %d must be greater than zero", e.ProductID)
}

// InsufficientStockError reports a reservation that failed because the
// product's stock could not cover the requested quantity. Available is the
// stock observed at the moment the reservation was rejected.
type InsufficientStockError struct {
	ProductID int64
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
