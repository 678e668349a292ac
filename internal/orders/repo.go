package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sportsdist/commerce/internal/commerce"
)

type Repo struct{ DB *pgxpool.Pool }

// CheckoutTx turns the customer's cart into an order in one transaction:
// the total is derived from cart rows joined with current catalog prices,
// every line is snapshotted into order_items, and the cart rows are
// deleted. Nothing from the client participates in the charge.
func (r *Repo) CheckoutTx(ctx context.Context, customerID string) (Order, []OrderItem, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock the lines being checked out so concurrent updates to them wait.
	// Lines inserted after this SELECT are not covered by the locks, so the
	// clear below is scoped to exactly these ids, never the whole cart.
	rows, err := tx.Query(ctx, `
		SELECT c.id, c.product_id, p.name, p.price_cents, c.quantity
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.customer_id = $1
		ORDER BY c.created_at
		FOR UPDATE OF c`, customerID)
	if err != nil {
		return Order{}, nil, err
	}

	var items []OrderItem
	var lineIDs []string
	var total int64
	for rows.Next() {
		var it OrderItem
		var lineID string
		if err := rows.Scan(&lineID, &it.ProductID, &it.Name, &it.PriceCents, &it.Quantity); err != nil {
			rows.Close()
			return Order{}, nil, err
		}
		lineIDs = append(lineIDs, lineID)
		total += it.PriceCents * int64(it.Quantity)
		items = append(items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Order{}, nil, err
	}
	if len(items) == 0 {
		return Order{}, nil, fmt.Errorf("cart is empty: %w", commerce.ErrInvalidArgument)
	}

	order := Order{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		TotalCents: total,
		Status:     StatusPending,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO orders(id, customer_id, order_date, total_cents, status)
		VALUES ($1, $2, CURRENT_DATE, $3, $4)
		RETURNING order_date, created_at, updated_at`,
		order.ID, order.CustomerID, order.TotalCents, order.Status).
		Scan(&order.OrderDate, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return Order{}, nil, err
	}

	for i := range items {
		items[i].ID = uuid.NewString()
		items[i].OrderID = order.ID
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items(id, order_id, product_id, name, quantity, price_cents)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			items[i].ID, order.ID, items[i].ProductID, items[i].Name, items[i].Quantity, items[i].PriceCents); err != nil {
			return Order{}, nil, err
		}
	}

	// Remove only the snapshotted lines. A line added concurrently was
	// never priced or charged and must stay in the cart.
	if _, err := tx.Exec(ctx, `
		DELETE FROM cart_items WHERE customer_id = $1 AND id = ANY($2)`, customerID, lineIDs); err != nil {
		return Order{}, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, nil, err
	}
	return order, items, nil
}

// UpdateStatusTx applies a legal status transition and reports the status
// it replaced. Terminal orders never change again. Someone else's order
// looks identical to a missing one.
func (r *Repo) UpdateStatusTx(ctx context.Context, customerID, orderID string, next Status) (Status, error) {
	if !next.Valid() {
		return "", fmt.Errorf("unknown status %q: %w", next, commerce.ErrInvalidArgument)
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current Status
	var owner string
	err = tx.QueryRow(ctx, `SELECT status, customer_id FROM orders WHERE id=$1 FOR UPDATE`, orderID).
		Scan(&current, &owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("order %s: %w", orderID, commerce.ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	if owner != customerID {
		return "", fmt.Errorf("order %s: %w", orderID, commerce.ErrNotFound)
	}
	if !CanTransition(current, next) {
		return "", fmt.Errorf("cannot transition %s -> %s: %w", current, next, commerce.ErrInvalidArgument)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE orders SET status=$2, updated_at=now()
		WHERE id=$1 AND status=$3`, orderID, next, current); err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return current, nil
}

func (r *Repo) Get(ctx context.Context, orderID string) (Order, []OrderItem, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT id, customer_id, order_date, total_cents, status, created_at, updated_at
		FROM orders WHERE id=$1`, orderID).
		Scan(&o.ID, &o.CustomerID, &o.OrderDate, &o.TotalCents, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, nil, fmt.Errorf("order %s: %w", orderID, commerce.ErrNotFound)
	}
	if err != nil {
		return Order{}, nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, product_id, name, quantity, price_cents
		FROM order_items WHERE order_id=$1`, orderID)
	if err != nil {
		return Order{}, nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Name, &it.Quantity, &it.PriceCents); err != nil {
			return Order{}, nil, err
		}
		items = append(items, it)
	}
	return o, items, rows.Err()
}
