package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
	"github.com/jcmexdev/storefront/internal/storefront/ports"
)

// placeOrderAttempts bounds the internal retry when the store reports a
// retryable conflict. Nothing is committed on a conflict, so replaying the
// whole reservation is safe.
const placeOrderAttempts = 3

// OrderService turns order requests into persisted orders.
type OrderService struct {
	orders ports.OrderStore
}

func NewOrderService(orders ports.OrderStore) *OrderService {
	return &OrderService{orders: orders}
}

// PlaceOrder validates the requested lines and commits them as one
// all-or-nothing order for the given user.
//
// Duplicate product IDs within one request are aggregated by summing their
// quantities before any stock is touched, so each product is reserved once
// with the combined quantity. A request whose duplicates jointly exceed the
// available stock therefore fails as a whole even if each line alone would
// fit.
func (s *OrderService) PlaceOrder(ctx context.Context, userID int64, lines []domain.OrderLine) (*domain.Order, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, &domain.InvalidQuantityError{ProductID: line.ProductID}
		}
	}
	lines = aggregateLines(lines)

	var order *domain.Order
	var err error
	for attempt := 1; ; attempt++ {
		order, err = s.orders.PlaceOrder(ctx, userID, lines)
		if err == nil || !errors.Is(err, domain.ErrConflict) || attempt == placeOrderAttempts {
			break
		}
		slog.WarnContext(ctx, "order placement hit a storage conflict, retrying",
			"user_id", userID, "attempt", attempt)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * 10 * time.Millisecond):
		}
	}
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "order placed",
		"order_id", order.ID, "user_id", userID,
		"items", len(order.Items), "total", order.TotalPrice.String())
	return order, nil
}

// GetOrder returns one of the user's orders, items included. Orders that
// belong to another user are reported as not found, not as forbidden, so the
// endpoint does not confirm foreign order IDs exist.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order %d: %w", orderID, domain.ErrOrderNotFound)
	}
	return order, nil
}

// ListOrders returns a page of the user's orders.
func (s *OrderService) ListOrders(ctx context.Context, userID, skip, limit int64) ([]domain.Order, error) {
	skip, limit = clampPage(skip, limit)
	return s.orders.ListOrders(ctx, userID, skip, limit)
}

// aggregateLines merges duplicate product IDs by summing quantities.
// First-seen order of products is preserved.
func aggregateLines(lines []domain.OrderLine) []domain.OrderLine {
	merged := make([]domain.OrderLine, 0, len(lines))
	index := make(map[int64]int, len(lines))
	for _, line := range lines {
		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	return merged
}
