package storage

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/order-service/internal/core/domain"
	"github.com/rl1809/order-service/internal/port"
)

type repositories interface {
	port.CustomerRepository
	port.CatalogRepository
	port.OrderRepository
}

var (
	_ repositories = (*MemoryAdapter)(nil)
	_ repositories = (*MySQLAdapter)(nil)
)

// runRepositoryTests exercises the behaviour both stores must share.
func runRepositoryTests(t *testing.T, repo repositories) {
	t.Run("customers", func(t *testing.T) { testCustomers(t, repo) })
	t.Run("products", func(t *testing.T) { testProducts(t, repo) })
	t.Run("conditional decrement", func(t *testing.T) { testDecrementStock(t, repo) })
	t.Run("concurrent decrement", func(t *testing.T) { testConcurrentDecrement(t, repo) })
	t.Run("orders", func(t *testing.T) { testOrders(t, repo) })
}

func suffix() string { return uuid.NewString()[:8] }

func ts(offset time.Duration) time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Add(offset)
}

func newCustomer(t *testing.T, repo repositories) domain.Customer {
	t.Helper()
	c := domain.Customer{
		ID:        uuid.NewString(),
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada-" + suffix() + "@example.com",
		Phone:     "555-0100",
		Address:   domain.Address{Street: "1 Analytical Way", City: "London", Country: "UK"},
		CreatedAt: ts(0),
	}
	require.NoError(t, repo.CreateCustomer(context.Background(), c))
	return c
}

func newProduct(t *testing.T, repo repositories, category string, stock int) domain.Product {
	t.Helper()
	id := suffix()
	p := domain.Product{
		ID:            uuid.NewString(),
		Name:          "Widget " + id,
		Description:   "a widget",
		Price:         decimal.RequireFromString("12.50"),
		Category:      category,
		SKU:           "W-" + id,
		StockQuantity: stock,
		CreatedAt:     ts(0),
		UpdatedAt:     ts(0),
	}
	require.NoError(t, repo.CreateProduct(context.Background(), p))
	return p
}

func testCustomers(t *testing.T, repo repositories) {
	ctx := context.Background()
	c := newCustomer(t, repo)

	got, err := repo.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Email, got.Email)
	assert.Equal(t, c.Address, got.Address)
	assert.True(t, c.CreatedAt.Equal(got.CreatedAt))

	byEmail, err := repo.GetCustomerByEmail(ctx, c.Email)
	require.NoError(t, err)
	assert.Equal(t, c.ID, byEmail.ID)

	dup := c
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, repo.CreateCustomer(ctx, dup), domain.ErrAlreadyExists)

	_, err = repo.GetCustomer(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := repo.ListCustomers(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, all)
}

func testProducts(t *testing.T, repo repositories) {
	ctx := context.Background()
	category := "cat-" + suffix()
	p := newProduct(t, repo, category, 7)
	newProduct(t, repo, category, 1)

	got, err := repo.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.SKU, got.SKU)
	assert.Equal(t, "12.50", got.Price.StringFixed(2))
	assert.Equal(t, 7, got.StockQuantity)

	bySKU, err := repo.GetProductBySKU(ctx, p.SKU)
	require.NoError(t, err)
	assert.Equal(t, p.ID, bySKU.ID)

	found, err := repo.SearchProducts(ctx, p.Name)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, p.ID, found[0].ID)

	inCategory, err := repo.ListProducts(ctx, category)
	require.NoError(t, err)
	assert.Len(t, inCategory, 2)

	dup := p
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, repo.CreateProduct(ctx, dup), domain.ErrAlreadyExists)

	_, err = repo.GetProduct(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testDecrementStock(t *testing.T, repo repositories) {
	ctx := context.Background()
	p := newProduct(t, repo, "stock", 5)

	ok, err := repo.DecrementStock(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DecrementStock(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok, "decrement beyond available stock must not apply")

	require.NoError(t, repo.IncrementStock(ctx, p.ID, 1))

	got, err := repo.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.StockQuantity)

	ok, err = repo.DecrementStock(ctx, uuid.NewString(), 1)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, repo.IncrementStock(ctx, uuid.NewString(), 1), domain.ErrNotFound)
}

func testConcurrentDecrement(t *testing.T, repo repositories) {
	ctx := context.Background()
	initialStock := 10
	p := newProduct(t, repo, "stock", initialStock)

	var successCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.DecrementStock(ctx, p.ID, 1)
			if err != nil {
				t.Errorf("decrement: %v", err)
				return
			}
			if ok {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(initialStock), successCount.Load())
	got, err := repo.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.StockQuantity)
}

func testOrders(t *testing.T, repo repositories) {
	ctx := context.Background()
	c := newCustomer(t, repo)
	p1 := newProduct(t, repo, "orders", 10)
	p2 := newProduct(t, repo, "orders", 10)

	first := domain.NewOrder(c.ID, domain.PriceLines([]domain.PricedLine{
		{Product: p2, Quantity: 1},
		{Product: p1, Quantity: 3},
	}), ts(time.Second))
	second := domain.NewOrder(c.ID, domain.PriceLines([]domain.PricedLine{
		{Product: p1, Quantity: 1},
	}), ts(2*time.Second))

	require.NoError(t, repo.CreateOrder(ctx, first))
	require.NoError(t, repo.CreateOrder(ctx, second))

	got, err := repo.GetOrder(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.OrderNumber, got.OrderNumber)
	assert.Equal(t, domain.OrderStatusPending, got.Status)
	assert.Equal(t, "50.00", got.TotalAmount.StringFixed(2))
	require.Len(t, got.Items, 2)
	assert.Equal(t, p2.ID, got.Items[0].ProductID)
	assert.Equal(t, p1.ID, got.Items[1].ProductID)
	assert.Equal(t, "37.50", got.Items[1].TotalPrice.StringFixed(2))

	byCustomer, err := repo.ListOrdersByCustomer(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, byCustomer, 2)
	assert.Equal(t, first.ID, byCustomer[0].ID)
	assert.Len(t, byCustomer[0].Items, 2)
	assert.Len(t, byCustomer[1].Items, 1)

	updated, err := repo.UpdateOrderStatus(ctx, second.ID, domain.OrderStatusShipped, ts(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, updated.Status)
	assert.True(t, updated.UpdatedAt.Equal(ts(time.Hour)))
	assert.Len(t, updated.Items, 1)

	shipped, err := repo.ListOrders(ctx, domain.OrderStatusShipped)
	require.NoError(t, err)
	ids := make([]string, 0, len(shipped))
	for _, o := range shipped {
		ids = append(ids, o.ID)
	}
	assert.Contains(t, ids, second.ID)
	assert.NotContains(t, ids, first.ID)

	_, err = repo.GetOrder(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.UpdateOrderStatus(ctx, uuid.NewString(), domain.OrderStatusShipped, ts(time.Hour))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
