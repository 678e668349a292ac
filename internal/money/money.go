// Package money converts between the integer-cent amounts kept in storage
// and the two-place decimal values exposed by the API.
package money

import "github.com/shopspring/decimal"

// FromCents renders a stored amount as a two-place decimal.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Cents truncates a decimal amount to whole cents for storage.
func Cents(d decimal.Decimal) int64 {
	return d.Shift(2).IntPart()
}

// LineTotal is unit price times quantity.
func LineTotal(unitCents int64, qty int32) decimal.Decimal {
	return FromCents(unitCents).Mul(decimal.NewFromInt(int64(qty)))
}

// Sum adds decimals, starting from zero.
func Sum(ds ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, d := range ds {
		total = total.Add(d)
	}
	return total
}
