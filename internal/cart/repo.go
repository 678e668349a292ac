package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sportsdist/commerce/internal/commerce"
)

type Repo struct{ DB *pgxpool.Pool }

// List returns the customer's lines joined with live catalog data. The
// displayed total is always recomputed from these prices, never from a
// price remembered at add time.
func (r *Repo) List(ctx context.Context, customerID string) ([]Line, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT c.id, c.product_id, p.name, p.price_cents, c.quantity, p.image_default, c.updated_at
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.customer_id = $1
		ORDER BY c.created_at`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.LineID, &l.ProductID, &l.Name, &l.UnitPriceCents, &l.Quantity, &l.Image, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Add merges into an existing line or creates one, in a single statement.
// The unique (customer_id, product_id) index plus the conflict clause make
// concurrent adds serialize in the database instead of racing a
// read-then-write.
func (r *Repo) Add(ctx context.Context, customerID, productID string, qty int32) error {
	if qty < 1 {
		return fmt.Errorf("quantity must be at least 1: %w", commerce.ErrInvalidArgument)
	}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO cart_items (id, customer_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (customer_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = now()`,
		uuid.NewString(), customerID, productID, qty)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("product %s: %w", productID, commerce.ErrNotFound)
	}
	return err
}

// SetQuantity overwrites a line's quantity. The customer id in the WHERE
// clause is the ownership check: touching another customer's line looks
// identical to touching a line that does not exist.
func (r *Repo) SetQuantity(ctx context.Context, customerID, lineID string, qty int32) error {
	if qty < 1 {
		return fmt.Errorf("quantity must be at least 1, remove the line instead: %w", commerce.ErrInvalidArgument)
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE cart_items SET quantity = $3, updated_at = now()
		WHERE id = $1 AND customer_id = $2`, lineID, customerID, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("cart line %s: %w", lineID, commerce.ErrNotFound)
	}
	return nil
}

// Remove deletes a line if the customer owns it. Removing an absent line
// is a no-op, not an error.
func (r *Repo) Remove(ctx context.Context, customerID, lineID string) error {
	_, err := r.DB.Exec(ctx, `
		DELETE FROM cart_items WHERE id = $1 AND customer_id = $2`, lineID, customerID)
	return err
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
