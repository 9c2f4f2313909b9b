package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// validTransitions is the lifecycle table. Terminal states map to nothing.
var validTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// ParseOrderStatus accepts any casing of a known status.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := validTransitions[st]; !ok {
		return "", Invalidf("unknown order status %q", s)
	}
	return st, nil
}

func (s OrderStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

type OrderItem struct {
	ProductID  string
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

type Order struct {
	ID          string
	OrderNumber string
	CustomerID  string
	Items       []OrderItem
	Status      OrderStatus
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CanTransitionTo reports whether the lifecycle allows moving to target.
func (o Order) CanTransitionTo(target OrderStatus) bool {
	for _, s := range validTransitions[o.Status] {
		if s == target {
			return true
		}
	}
	return false
}

func (o Order) TransitionError(target OrderStatus) error {
	return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, o.Status, target)
}

// NewOrder assembles a pending order from priced items.
func NewOrder(customerID string, items []OrderItem, now time.Time) Order {
	id := uuid.New()
	return Order{
		ID:          id.String(),
		OrderNumber: NewOrderNumber(id, now),
		CustomerID:  customerID,
		Items:       items,
		Status:      OrderStatusPending,
		TotalAmount: OrderTotal(items),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func NewOrderNumber(id uuid.UUID, now time.Time) string {
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), strings.ToUpper(id.String()[:8]))
}
