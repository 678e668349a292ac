package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sportsdist/commerce/internal/money"
)

type Product struct {
	ID            string
	SKU           string
	Name          string
	PriceCents    int64
	ImageDefault  string
	ImagesByColor map[string]string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Price is the two-place currency value shown to clients.
func (p Product) Price() decimal.Decimal {
	return money.FromCents(p.PriceCents)
}
