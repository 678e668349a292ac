package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceipt(t *testing.T) {
	o := Order{
		ID:         "7f4df2a3-10d6-4d7e-9a30-6a1c9f9f0001",
		CustomerID: "c-1",
		OrderDate:  time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		TotalCents: 5000,
		Status:     StatusPending,
	}
	items := []OrderItem{
		{ProductID: "p-1", Name: "Trail Runner", Quantity: 5, PriceCents: 1000},
	}

	b, err := Receipt(o, items)
	require.NoError(t, err)
	require.NotEmpty(t, b)
	assert.Equal(t, "%PDF", string(b[:4]))
}
