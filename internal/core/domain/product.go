package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MinPrice is the smallest unit price a catalog product may carry.
var MinPrice = decimal.New(1, -2)

type Product struct {
	ID            string
	Name          string
	Description   string
	Price         decimal.Decimal
	Category      string
	SKU           string
	StockQuantity int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return Invalidf("product name is required")
	}
	if strings.TrimSpace(p.Category) == "" {
		return Invalidf("category is required")
	}
	if strings.TrimSpace(p.SKU) == "" {
		return Invalidf("sku is required")
	}
	if p.Price.LessThan(MinPrice) {
		return Invalidf("price must be at least %s", MinPrice.StringFixed(2))
	}
	if !p.Price.Equal(p.Price.Round(2)) {
		return Invalidf("price %s has more than two decimal places", p.Price.String())
	}
	if p.StockQuantity < 0 {
		return Invalidf("stock quantity cannot be negative")
	}
	if p.StockQuantity > MaxQuantity {
		return Invalidf("stock quantity cannot exceed %d", MaxQuantity)
	}
	return nil
}
