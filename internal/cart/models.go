package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sportsdist/commerce/internal/money"
)

// Line is one product-quantity pairing in a customer's cart, enriched
// with the current catalog name, price and image.
type Line struct {
	LineID         string
	ProductID      string
	Name           string
	UnitPriceCents int64
	Quantity       int32
	Image          string
	UpdatedAt      time.Time
}

func (l Line) UnitPrice() decimal.Decimal {
	return money.FromCents(l.UnitPriceCents)
}

func (l Line) Total() decimal.Decimal {
	return money.LineTotal(l.UnitPriceCents, l.Quantity)
}

// Total sums line totals at current catalog prices.
func Total(lines []Line) decimal.Decimal {
	totals := make([]decimal.Decimal, len(lines))
	for i, l := range lines {
		totals[i] = l.Total()
	}
	return money.Sum(totals...)
}
