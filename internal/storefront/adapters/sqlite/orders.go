package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

// PlaceOrder reserves stock for every line, snapshots unit prices, and
// writes the order with its items, all inside one transaction. If anything
// fails, the transaction rolls back and no stock or order state changes.
//
// The reservation is a single conditional update:
//
//	UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?
//
// so there is no read-check-write window in which a concurrent order could
// oversell. Exactly one affected row means the reservation took; zero rows
// means the product is missing or short on stock, which a follow-up SELECT
// disambiguates.
//
// Callers must pass at most one line per product (the order service
// aggregates duplicates first); the (order_id, product_id) primary key
// enforces this at the storage level.
func (s *Store) PlaceOrder(ctx context.Context, userID int64, lines []domain.OrderLine) (*domain.Order, error) {
	order := &domain.Order{
		UserID:     userID,
		Status:     domain.StatusPending,
		TotalPrice: decimal.Zero,
		CreatedAt:  time.Now().UTC(),
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, line := range lines {
			item, err := reserve(ctx, tx, line)
			if err != nil {
				return err
			}
			order.Items = append(order.Items, *item)
			order.TotalPrice = order.TotalPrice.Add(item.Subtotal())
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO orders (user_id, total_price, status, created_at) VALUES (?, ?, ?, ?)`,
			order.UserID,
			order.TotalPrice.String(),
			string(order.Status),
			formatTime(order.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("sqlite: insert order: %w", mapErr(err))
		}
		order.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("sqlite: insert order: last insert id: %w", err)
		}

		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			item := order.Items[i]
			_, err := tx.ExecContext(ctx,
				`INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES (?, ?, ?, ?)`,
				item.OrderID,
				item.ProductID,
				item.Quantity,
				item.UnitPrice.String(),
			)
			if err != nil {
				return fmt.Errorf("sqlite: insert order item for product %d: %w", item.ProductID, mapErr(err))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// reserve performs the atomic check-and-decrement for one line and returns
// the resulting order item with the price read in the same transaction.
func reserve(ctx context.Context, tx *sql.Tx, line domain.OrderLine) (*domain.OrderItem, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?`,
		line.Quantity, line.ProductID, line.Quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: reserve product %d: %w", line.ProductID, mapErr(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: reserve product %d: rows affected: %w", line.ProductID, err)
	}

	if affected == 0 {
		var available int64
		err := tx.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = ?`, line.ProductID).Scan(&available)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("product %d: %w", line.ProductID, domain.ErrProductNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("sqlite: reserve product %d: %w", line.ProductID, mapErr(err))
		}
		return nil, &domain.InsufficientStockError{
			ProductID: line.ProductID,
			Requested: line.Quantity,
			Available: available,
		}
	}

	var priceText string
	if err := tx.QueryRowContext(ctx, `SELECT price FROM products WHERE id = ?`, line.ProductID).Scan(&priceText); err != nil {
		return nil, fmt.Errorf("sqlite: read price for product %d: %w", line.ProductID, mapErr(err))
	}
	price, err := decimal.NewFromString(priceText)
	if err != nil {
		return nil, fmt.Errorf("sqlite: parse price %q: %w", priceText, err)
	}

	return &domain.OrderItem{
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		UnitPrice: price,
	}, nil
}

// ListOrders returns a page of a user's orders ordered by id ascending.
// Items are not loaded: listings are summaries, GetOrder returns the lines.
func (s *Store) ListOrders(ctx context.Context, userID, skip, limit int64) ([]domain.Order, error) {
	const q = `
		SELECT id, user_id, total_price, status, created_at
		FROM   orders
		WHERE  user_id = ?
		ORDER  BY id
		LIMIT  ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, q, userID, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list orders for user %d: %w", userID, mapErr(err))
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list orders for user %d: %w", userID, mapErr(err))
	}
	return orders, nil
}

// GetOrder returns one order by id, items included.
func (s *Store) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	const q = `
		SELECT id, user_id, total_price, status, created_at
		FROM   orders
		WHERE  id = ?`

	o, err := scanOrder(s.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %d: %w", id, domain.ErrOrderNotFound)
	}
	if err != nil {
		return nil, err
	}

	const itemsQ = `
		SELECT order_id, product_id, quantity, unit_price
		FROM   order_items
		WHERE  order_id = ?
		ORDER  BY product_id`

	rows, err := s.db.QueryContext(ctx, itemsQ, id)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load items for order %d: %w", id, mapErr(err))
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		var price string
		if err := rows.Scan(&item.OrderID, &item.ProductID, &item.Quantity, &price); err != nil {
			return nil, fmt.Errorf("sqlite: scan item for order %d: %w", id, err)
		}
		item.UnitPrice, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("sqlite: parse price %q: %w", price, err)
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: load items for order %d: %w", id, mapErr(err))
	}
	return o, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var total, status, createdAt string
	err := row.Scan(&o.ID, &o.UserID, &total, &status, &createdAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: scan order: %w", err)
	}

	o.TotalPrice, err = decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("sqlite: parse total %q: %w", total, err)
	}
	o.Status = domain.OrderStatus(status)
	o.CreatedAt, err = parseRFC3339(createdAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
