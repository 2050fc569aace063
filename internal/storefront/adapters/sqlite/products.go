package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

// CreateProduct inserts a new catalog entry and returns it with its
// generated id. Field validation happens in the catalog service; the store
// only persists.
func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	const q = `
		INSERT INTO products (name, description, price, stock, user_id)
		VALUES (?, ?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, q,
		p.Name,
		p.Description,
		p.Price.String(),
		p.Stock,
		p.OwnerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: create product %q: %w", p.Name, mapErr(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("sqlite: create product %q: last insert id: %w", p.Name, err)
	}

	created := *p
	created.ID = id
	return &created, nil
}

// ListProducts returns a page of products ordered by id ascending.
func (s *Store) ListProducts(ctx context.Context, skip, limit int64) ([]domain.Product, error) {
	const q = `
		SELECT id, name, description, price, stock, user_id
		FROM   products
		ORDER  BY id
		LIMIT  ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, q, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list products: %w", mapErr(err))
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list products: %w", mapErr(err))
	}
	return products, nil
}

// GetProduct returns one product by id.
func (s *Store) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const q = `
		SELECT id, name, description, price, stock, user_id
		FROM   products
		WHERE  id = ?`

	p, err := scanProduct(s.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product %d: %w", id, domain.ErrProductNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var price string
	err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.Stock, &p.OwnerID)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: scan product: %w", err)
	}

	p.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("sqlite: parse price %q: %w", price, err)
	}
	return &p, nil
}
