package storage

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rl1809/order-service/internal/core/domain"
)

// MemoryAdapter is a process-local store implementing the customer, catalog
// and order repositories. Stock decrements are conditional under the lock, so
// it upholds the same non-negative stock guarantee as the MySQL adapter.
type MemoryAdapter struct {
	mu        sync.RWMutex
	customers map[string]domain.Customer
	products  map[string]domain.Product
	orders    map[string]domain.Order
	seq       map[string]int
	next      int
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		customers: make(map[string]domain.Customer),
		products:  make(map[string]domain.Product),
		orders:    make(map[string]domain.Order),
		seq:       make(map[string]int),
	}
}

func (m *MemoryAdapter) CreateCustomer(ctx context.Context, c domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.customers {
		if strings.EqualFold(existing.Email, c.Email) {
			return domain.ErrAlreadyExists
		}
	}
	if _, ok := m.customers[c.ID]; ok {
		return domain.ErrAlreadyExists
	}
	m.customers[c.ID] = c
	m.track(c.ID)
	return nil
}

func (m *MemoryAdapter) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.customers[id]
	if !ok {
		return domain.Customer{}, domain.NewNotFound(domain.EntityCustomer, id)
	}
	return c, nil
}

func (m *MemoryAdapter) GetCustomerByEmail(ctx context.Context, email string) (domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.customers {
		if strings.EqualFold(c.Email, email) {
			return c, nil
		}
	}
	return domain.Customer{}, domain.NewNotFound(domain.EntityCustomer, email)
}

func (m *MemoryAdapter) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		out = append(out, c)
	}
	sortBySeq(m, out, func(c domain.Customer) string { return c.ID })
	return out, nil
}

func (m *MemoryAdapter) CreateProduct(ctx context.Context, p domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.products {
		if existing.SKU == p.SKU {
			return domain.ErrAlreadyExists
		}
	}
	if _, ok := m.products[p.ID]; ok {
		return domain.ErrAlreadyExists
	}
	m.products[p.ID] = p
	m.track(p.ID)
	return nil
}

func (m *MemoryAdapter) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return domain.Product{}, domain.NewNotFound(domain.EntityProduct, id)
	}
	return p, nil
}

func (m *MemoryAdapter) GetProductBySKU(ctx context.Context, sku string) (domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return domain.Product{}, domain.NewNotFound(domain.EntityProduct, sku)
}

func (m *MemoryAdapter) SearchProducts(ctx context.Context, name string) ([]domain.Product, error) {
	needle := strings.ToLower(name)
	return m.filterProducts(func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	}), nil
}

func (m *MemoryAdapter) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	return m.filterProducts(func(p domain.Product) bool {
		return category == "" || p.Category == category
	}), nil
}

func (m *MemoryAdapter) DecrementStock(ctx context.Context, productID string, quantity int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[productID]
	if !ok || p.StockQuantity < quantity {
		return false, nil
	}
	p.StockQuantity -= quantity
	p.UpdatedAt = time.Now().UTC()
	m.products[productID] = p
	return true, nil
}

func (m *MemoryAdapter) IncrementStock(ctx context.Context, productID string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[productID]
	if !ok {
		return domain.NewNotFound(domain.EntityProduct, productID)
	}
	p.StockQuantity += quantity
	p.UpdatedAt = time.Now().UTC()
	m.products[productID] = p
	return nil
}

func (m *MemoryAdapter) CreateOrder(ctx context.Context, o domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.orders[o.ID]; ok {
		return domain.ErrAlreadyExists
	}
	m.orders[o.ID] = cloneOrder(o)
	m.track(o.ID)
	return nil
}

func (m *MemoryAdapter) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.orders[id]
	if !ok {
		return domain.Order{}, domain.NewNotFound(domain.EntityOrder, id)
	}
	return cloneOrder(o), nil
}

func (m *MemoryAdapter) ListOrdersByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return m.filterOrders(func(o domain.Order) bool { return o.CustomerID == customerID }), nil
}

func (m *MemoryAdapter) ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return m.filterOrders(func(o domain.Order) bool { return status == "" || o.Status == status }), nil
}

func (m *MemoryAdapter) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus, at time.Time) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return domain.Order{}, domain.NewNotFound(domain.EntityOrder, id)
	}
	o.Status = status
	o.UpdatedAt = at
	m.orders[id] = o
	return cloneOrder(o), nil
}

// track records insertion order; callers hold the write lock.
func (m *MemoryAdapter) track(id string) {
	m.next++
	m.seq[id] = m.next
}

// sortBySeq orders items by insertion; callers hold at least the read lock.
func sortBySeq[T any](m *MemoryAdapter, items []T, id func(T) string) {
	slices.SortFunc(items, func(a, b T) int { return cmp.Compare(m.seq[id(a)], m.seq[id(b)]) })
}

func (m *MemoryAdapter) filterProducts(keep func(domain.Product) bool) []domain.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.Product
	for _, p := range m.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	sortBySeq(m, out, func(p domain.Product) string { return p.ID })
	return out
}

func (m *MemoryAdapter) filterOrders(keep func(domain.Order) bool) []domain.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.Order
	for _, o := range m.orders {
		if keep(o) {
			out = append(out, cloneOrder(o))
		}
	}
	sortBySeq(m, out, func(o domain.Order) string { return o.ID })
	return out
}

func cloneOrder(o domain.Order) domain.Order {
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	return o
}
