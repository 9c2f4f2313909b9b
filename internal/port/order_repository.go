package port

import (
	"context"
	"time"

	"github.com/rl1809/order-service/internal/core/domain"
)

type OrderRepository interface {
	// CreateOrder persists the order and its items in a single write
	CreateOrder(ctx context.Context, order domain.Order) error

	GetOrder(ctx context.Context, id string) (domain.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)

	// ListOrders returns all orders, filtered by status when status is non-empty
	ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)

	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus, at time.Time) (domain.Order, error)
}
