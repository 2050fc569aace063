package app

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
	"github.com/jcmexdev/storefront/internal/storefront/ports"
)

// MaxPageSize bounds product/order listings so one request cannot drag the
// whole table over the wire.
const MaxPageSize = 100

// CatalogService owns product creation and listing.
type CatalogService struct {
	products ports.ProductStore
}

func NewCatalogService(products ports.ProductStore) *CatalogService {
	return &CatalogService{products: products}
}

// CreateProduct validates the catalog invariants and persists the product
// under the given owner.
func (s *CatalogService) CreateProduct(ctx context.Context, ownerID int64, name, description string, price decimal.Decimal, stock int64) (*domain.Product, error) {
	p := domain.Product{
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		OwnerID:     ownerID,
	}
	if err := p.ValidateNew(); err != nil {
		return nil, err
	}

	created, err := s.products.CreateProduct(ctx, &p)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "product created", "product_id", created.ID, "owner_id", ownerID, "name", created.Name)
	return created, nil
}

// ListProducts returns a catalog page ordered by id ascending. Negative skip
// is treated as 0; limit is clamped to MaxPageSize, and non-positive limit
// falls back to it.
func (s *CatalogService) ListProducts(ctx context.Context, skip, limit int64) ([]domain.Product, error) {
	skip, limit = clampPage(skip, limit)
	return s.products.ListProducts(ctx, skip, limit)
}

func clampPage(skip, limit int64) (int64, int64) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	return skip, limit
}
