package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			o := Order{Status: tt.from}
			assert.Equal(t, tt.want, o.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatusShipped.IsTerminal())
}

func TestParseOrderStatus(t *testing.T) {
	st, err := ParseOrderStatus(" shipped ")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, st)

	_, err = ParseOrderStatus("lost")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestOrder_TransitionError(t *testing.T) {
	err := Order{Status: OrderStatusDelivered}.TransitionError(OrderStatusPending)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Contains(t, err.Error(), "DELIVERED")
}

func TestNewOrder(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	items := PriceLines([]PricedLine{
		{Product: Product{ID: "p1", Price: decimal.RequireFromString("10.00")}, Quantity: 2},
		{Product: Product{ID: "p2", Price: decimal.RequireFromString("0.10")}, Quantity: 3},
	})

	o := NewOrder("c1", items, now)

	assert.NotEmpty(t, o.ID)
	assert.Regexp(t, `^ORD-20260304-[0-9A-F]{8}$`, o.OrderNumber)
	assert.Equal(t, "c1", o.CustomerID)
	assert.Equal(t, OrderStatusPending, o.Status)
	assert.Equal(t, now, o.CreatedAt)
	assert.Equal(t, now, o.UpdatedAt)
	assert.True(t, decimal.RequireFromString("20.30").Equal(o.TotalAmount), "got %s", o.TotalAmount)
}
