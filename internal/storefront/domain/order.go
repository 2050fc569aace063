package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order. Only StatusPending is
// reachable in this service: fulfilment and cancellation live elsewhere.
type OrderStatus string

const (
	StatusPending OrderStatus = "pending"
)

// Order is a persisted customer order. TotalPrice is computed once, from the
// prices read at reservation time, and never recomputed afterward.
type Order struct {
	ID         int64
	UserID     int64
	TotalPrice decimal.Decimal
	Status     OrderStatus
	Items      []OrderItem
	CreatedAt  time.Time
}

// OrderItem is one line of an order, keyed by (OrderID, ProductID).
// It is created together with its Order and is immutable afterward.
type OrderItem struct {
	OrderID   int64
	ProductID int64
	Quantity  int64
	// UnitPrice is the product price snapshotted when the stock was reserved.
	UnitPrice decimal.Decimal
}

// Subtotal returns UnitPrice * Quantity for this line.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// OrderLine is a requested (product, quantity) pair, before any stock has
// been reserved.
type OrderLine struct {
	ProductID int64
	Quantity  int64
}
