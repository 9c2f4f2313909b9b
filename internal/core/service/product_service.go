package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/order-service/internal/core/domain"
	"github.com/rl1809/order-service/internal/port"
)

type ProductService struct {
	repo port.CatalogRepository
}

func NewProductService(repo port.CatalogRepository) *ProductService {
	return &ProductService{repo: repo}
}

func (s *ProductService) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	p.SKU = strings.TrimSpace(p.SKU)

	if err := p.Validate(); err != nil {
		return domain.Product{}, err
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, domain.Invalidf("product id is required")
	}
	return s.repo.GetProduct(ctx, id)
}

func (s *ProductService) GetProductBySKU(ctx context.Context, sku string) (domain.Product, error) {
	if strings.TrimSpace(sku) == "" {
		return domain.Product{}, domain.Invalidf("sku is required")
	}
	return s.repo.GetProductBySKU(ctx, strings.TrimSpace(sku))
}

func (s *ProductService) SearchProducts(ctx context.Context, name string) ([]domain.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Invalidf("search term is required")
	}
	return s.repo.SearchProducts(ctx, name)
}

func (s *ProductService) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, strings.TrimSpace(category))
}
