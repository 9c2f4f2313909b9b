package port

import (
	"context"

	"github.com/rl1809/order-service/internal/core/domain"
)

type CatalogRepository interface {
	// CreateProduct returns domain.ErrAlreadyExists when the SKU is taken
	CreateProduct(ctx context.Context, product domain.Product) error

	GetProduct(ctx context.Context, id string) (domain.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (domain.Product, error)

	// SearchProducts matches a case-insensitive substring of the product name
	SearchProducts(ctx context.Context, name string) ([]domain.Product, error)

	// ListProducts returns every product, or only one category when category is set
	ListProducts(ctx context.Context, category string) ([]domain.Product, error)

	// DecrementStock atomically decreases stock only if enough remains, returns false otherwise
	DecrementStock(ctx context.Context, productID string, quantity int) (bool, error)

	// IncrementStock restores stock (for rollback on failure)
	IncrementStock(ctx context.Context, productID string, quantity int) error
}
