package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineTotal(t *testing.T) {
	got := LineTotal(decimal.RequireFromString("0.10"), 3)
	assert.Equal(t, "0.30", got.StringFixed(2))

	got = LineTotal(decimal.RequireFromString("19.99"), 7)
	assert.Equal(t, "139.93", got.StringFixed(2))
}

func TestOrderTotal_Empty(t *testing.T) {
	assert.True(t, OrderTotal(nil).IsZero())
}

func TestPriceLines_SnapshotsPriceInOrder(t *testing.T) {
	p1 := Product{ID: "p1", Price: decimal.RequireFromString("10.00")}
	p2 := Product{ID: "p2", Price: decimal.RequireFromString("2.50")}

	items := PriceLines([]PricedLine{{Product: p2, Quantity: 4}, {Product: p1, Quantity: 1}})
	require.Len(t, items, 2)

	assert.Equal(t, "p2", items[0].ProductID)
	assert.Equal(t, "10.00", items[0].TotalPrice.StringFixed(2))
	assert.Equal(t, "p1", items[1].ProductID)

	// later catalog changes do not reach the snapshot
	p1.Price = decimal.RequireFromString("99.00")
	assert.Equal(t, "10.00", items[1].UnitPrice.StringFixed(2))

	assert.Equal(t, "20.00", OrderTotal(items).StringFixed(2))
}
