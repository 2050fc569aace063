package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry owned by a user. Stock is the single source of
// truth for availability: it is only ever decremented through the conditional
// update in the store, so it can never go below zero.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int64
	OwnerID     int64
}

// Catalog validation bounds.
const (
	NameMinLen        = 3
	NameMaxLen        = 50
	DescriptionMinLen = 5
	DescriptionMaxLen = 500
)

// ValidateNew checks the catalog invariants for a product about to be created.
func (p Product) ValidateNew() error {
	if l := len(p.Name); l < NameMinLen || l > NameMaxLen {
		return &ValidationError{Field: "name", Reason: "must be between 3 and 50 characters"}
	}
	if l := len(p.Description); l < DescriptionMinLen || l > DescriptionMaxLen {
		return &ValidationError{Field: "description", Reason: "must be between 5 and 500 characters"}
	}
	if !p.Price.IsPositive() {
		return &ValidationError{Field: "price", Reason: "must be greater than zero"}
	}
	if p.Stock < 0 {
		return &ValidationError{Field: "stock", Reason: "must not be negative"}
	}
	return nil
}
