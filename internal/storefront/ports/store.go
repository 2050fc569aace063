// Package ports defines the interfaces the application services depend on.
// The services see these abstractions, not SQLite or Redis directly, so the
// implementations can be swapped (in-memory for tests, Postgres later).
package ports

import (
	"context"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

// ProductStore persists catalog entries.
type ProductStore interface {
	CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	// ListProducts returns a page ordered by id ascending.
	ListProducts(ctx context.Context, skip, limit int64) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}

// OrderStore persists orders. PlaceOrder is the whole unit of work: it
// reserves stock for every line, snapshots prices, and writes the order with
// its items in one transaction. On any failure it returns with zero effect
// on stored state.
type OrderStore interface {
	PlaceOrder(ctx context.Context, userID int64, lines []domain.OrderLine) (*domain.Order, error)
	ListOrders(ctx context.Context, userID, skip, limit int64) ([]domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}
