package handler

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rl1809/order-service/internal/adapter/storage"
	"github.com/rl1809/order-service/internal/core/domain"
	"github.com/rl1809/order-service/internal/core/service"
)

type testServices struct {
	store     *storage.MemoryAdapter
	orders    *service.OrderService
	customers *service.CustomerService
	products  *service.ProductService
}

func newTestServices(t *testing.T, opts ...service.Option) testServices {
	t.Helper()
	store := storage.NewMemoryAdapter()
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	require.NoError(t, store.CreateCustomer(ctx, domain.Customer{
		ID: "c1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "555",
	}))
	require.NoError(t, store.CreateProduct(ctx, domain.Product{
		ID: "p1", Name: "Keyboard", Price: decimal.RequireFromString("10.00"),
		Category: "peripherals", SKU: "KB-1", StockQuantity: 5,
	}))

	opts = append([]service.Option{service.WithLogger(logger)}, opts...)
	return testServices{
		store:     store,
		orders:    service.NewOrderService(store, store, store, service.NewStockGuard(store, 3, logger), opts...),
		customers: service.NewCustomerService(store),
		products:  service.NewProductService(store),
	}
}

func (s testServices) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := s.store.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.StockQuantity
}
