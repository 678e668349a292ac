package analytics

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/sportsdist/commerce/internal/money"
)

type MonthRevenue struct {
	Month        string
	RevenueCents int64
}

func (m MonthRevenue) Revenue() decimal.Decimal { return money.FromCents(m.RevenueCents) }

type MonthCount struct {
	Month string
	Count int64
}

type Stats struct {
	TotalRevenueCents int64
	AvgOrderCents     int64
	RetentionRate     float64
}

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) MonthlyRevenue(ctx context.Context) ([]MonthRevenue, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT to_char(order_date, 'YYYY-MM') AS month, COALESCE(SUM(total_cents), 0)
		FROM orders
		GROUP BY month
		ORDER BY month`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthRevenue
	for rows.Next() {
		var m MonthRevenue
		if err := rows.Scan(&m.Month, &m.RevenueCents); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) CustomerGrowth(ctx context.Context) ([]MonthCount, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT to_char(created_at, 'YYYY-MM') AS month, COUNT(*)
		FROM customers
		GROUP BY month
		ORDER BY month`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthCount
	for rows.Next() {
		var m MonthCount
		if err := rows.Scan(&m.Month, &m.Count); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Stats runs its three aggregates concurrently; they are independent
// single-row queries.
func (r *Repo) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.DB.QueryRow(ctx,
			`SELECT COALESCE(SUM(total_cents), 0) FROM orders`).Scan(&s.TotalRevenueCents)
	})
	g.Go(func() error {
		return r.DB.QueryRow(ctx,
			`SELECT COALESCE(AVG(total_cents), 0)::bigint FROM orders`).Scan(&s.AvgOrderCents)
	})
	g.Go(func() error {
		return r.DB.QueryRow(ctx, `
			SELECT CASE WHEN (SELECT COUNT(*) FROM customers) = 0 THEN 0
			ELSE COUNT(DISTINCT customer_id)::float / (SELECT COUNT(*) FROM customers) * 100 END
			FROM orders`).Scan(&s.RetentionRate)
	})

	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return s, nil
}
