package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/rl1809/order-service/internal/core/domain"
	"github.com/rl1809/order-service/internal/port"
)

type OrderService struct {
	customers port.CustomerRepository
	catalog   port.CatalogRepository
	orders    port.OrderRepository
	guard     *StockGuard

	cache             port.CacheRepository
	events            port.EventPublisher
	strictTransitions bool
	logger            *zap.Logger
	now               func() time.Time
}

type Option func(*OrderService)

// WithIdempotency rejects a second placement carrying the same request id.
func WithIdempotency(cache port.CacheRepository) Option {
	return func(s *OrderService) { s.cache = cache }
}

func WithEvents(publisher port.EventPublisher) Option {
	return func(s *OrderService) { s.events = publisher }
}

// WithStrictTransitions makes UpdateStatus enforce the lifecycle table
// instead of overwriting the status unconditionally.
func WithStrictTransitions(strict bool) Option {
	return func(s *OrderService) { s.strictTransitions = strict }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *OrderService) { s.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(s *OrderService) { s.now = now }
}

func NewOrderService(
	customers port.CustomerRepository,
	catalog port.CatalogRepository,
	orders port.OrderRepository,
	guard *StockGuard,
	opts ...Option,
) *OrderService {
	s := &OrderService{
		customers: customers,
		catalog:   catalog,
		orders:    orders,
		guard:     guard,
		logger:    zap.NewNop(),
		now: func() time.Time {
			// MySQL DATETIME(6) keeps microseconds
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder validates the customer and every product, reserves stock for all
// lines at once, and persists the priced order. Any failure leaves stock and
// orders as they were.
func (s *OrderService) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (domain.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.PlaceOrder", trace.WithAttributes(
		attribute.String("customer.id", req.CustomerID),
		attribute.Int("order.lines", len(req.Items)),
	))
	defer span.End()

	if err := req.Validate(); err != nil {
		recordError(span, err)
		return domain.Order{}, err
	}

	release, err := s.claimRequest(ctx, req)
	if err != nil {
		recordError(span, err)
		return domain.Order{}, err
	}

	order, err := s.placeOrder(ctx, req)
	if err != nil {
		release()
		recordError(span, err)
		s.logger.Warn("order placement failed",
			zap.String("customer_id", req.CustomerID),
			zap.Error(err),
		)
		return domain.Order{}, err
	}

	span.SetAttributes(attribute.String("order.id", order.ID))
	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("customer_id", order.CustomerID),
		zap.String("total_amount", order.TotalAmount.StringFixed(2)),
	)
	s.publish(ctx, order.ID, domain.NewOrderPlaced(order))

	return order, nil
}

func (s *OrderService) placeOrder(ctx context.Context, req domain.PlaceOrderRequest) (domain.Order, error) {
	if _, err := s.customers.GetCustomer(ctx, req.CustomerID); err != nil {
		return domain.Order{}, err
	}

	lines := make([]domain.PricedLine, 0, len(req.Items))
	for _, it := range req.Items {
		p, err := s.catalog.GetProduct(ctx, it.ProductID)
		if err != nil {
			return domain.Order{}, err
		}
		lines = append(lines, domain.PricedLine{Product: p, Quantity: it.Quantity})
	}

	reservation, err := s.guard.Reserve(ctx, lines)
	if err != nil {
		return domain.Order{}, err
	}

	order := domain.NewOrder(req.CustomerID, domain.PriceLines(lines), s.now())

	err = s.orders.CreateOrder(ctx, order)
	if errors.Is(err, domain.ErrAlreadyExists) {
		// order numbers keep only part of the id; draw a fresh one once
		s.logger.Warn("order number collision", zap.String("order_number", order.OrderNumber))
		order = domain.NewOrder(req.CustomerID, order.Items, s.now())
		err = s.orders.CreateOrder(ctx, order)
	}
	if err != nil {
		if rbErr := s.guard.Release(ctx, reservation); rbErr != nil {
			return domain.Order{}, errors.Join(err, rbErr)
		}
		return domain.Order{}, err
	}

	return order, nil
}

// claimRequest returns a func that frees the claim when placement fails.
func (s *OrderService) claimRequest(ctx context.Context, req domain.PlaceOrderRequest) (func(), error) {
	if s.cache == nil || req.RequestID == "" {
		return func() {}, nil
	}

	key := fmt.Sprintf("order:%s:%s", req.CustomerID, req.RequestID)
	ok, err := s.cache.SetIdempotency(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("idempotency check failed: %w", err)
	}
	if !ok {
		return nil, domain.ErrDuplicateRequest
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
		defer cancel()
		if err := s.cache.ReleaseIdempotency(ctx, key); err != nil {
			s.logger.Error("release idempotency key failed", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	if id == "" {
		return domain.Order{}, domain.Invalidf("order id is required")
	}
	return s.orders.GetOrder(ctx, id)
}

func (s *OrderService) ListOrdersByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	if customerID == "" {
		return nil, domain.Invalidf("customer id is required")
	}
	return s.orders.ListOrdersByCustomer(ctx, customerID)
}

// ListOrders returns all orders; a non-empty status filters them.
func (s *OrderService) ListOrders(ctx context.Context, status string) ([]domain.Order, error) {
	var st domain.OrderStatus
	if status != "" {
		var err error
		if st, err = domain.ParseOrderStatus(status); err != nil {
			return nil, err
		}
	}
	return s.orders.ListOrders(ctx, st)
}

func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.UpdateStatus", trace.WithAttributes(
		attribute.String("order.id", id),
		attribute.String("order.status", string(status)),
	))
	defer span.End()

	updated, from, err := s.updateStatus(ctx, id, status)
	if err != nil {
		recordError(span, err)
		return domain.Order{}, err
	}

	s.logger.Info("order status updated",
		zap.String("order_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(updated.Status)),
	)
	s.publish(ctx, id, domain.OrderStatusChanged{
		Type:      domain.EventOrderStatusChanged,
		OrderID:   id,
		From:      from,
		To:        updated.Status,
		ChangedAt: updated.UpdatedAt,
	})

	return updated, nil
}

func (s *OrderService) updateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, domain.OrderStatus, error) {
	if id == "" {
		return domain.Order{}, "", domain.Invalidf("order id is required")
	}
	status, err := domain.ParseOrderStatus(string(status))
	if err != nil {
		return domain.Order{}, "", err
	}

	current, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return domain.Order{}, "", err
	}
	if s.strictTransitions && !current.CanTransitionTo(status) {
		return domain.Order{}, "", current.TransitionError(status)
	}

	updated, err := s.orders.UpdateOrderStatus(ctx, id, status, s.now())
	if err != nil {
		return domain.Order{}, "", err
	}
	return updated, current.Status, nil
}

// publish is best effort: the order is already committed.
func (s *OrderService) publish(ctx context.Context, key string, event any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, key, event); err != nil {
		s.logger.Warn("publish order event failed", zap.String("key", key), zap.Error(err))
	}
}
