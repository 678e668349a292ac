package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sportsdist/commerce/internal/money"
)

type Order struct {
	ID         string
	CustomerID string
	OrderDate  time.Time
	TotalCents int64
	Status     Status // see status.go
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Total is the two-place amount charged at checkout.
func (o Order) Total() decimal.Decimal {
	return money.FromCents(o.TotalCents)
}

// OrderItem is a cart line frozen at checkout time. Name and price are
// copied from the catalog so later catalog edits never rewrite history.
type OrderItem struct {
	ID         string
	OrderID    string
	ProductID  string
	Name       string
	Quantity   int32
	PriceCents int64
}

func (it OrderItem) Price() decimal.Decimal {
	return money.FromCents(it.PriceCents)
}
