package domain

import "github.com/shopspring/decimal"

func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

func OrderTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalPrice)
	}
	return total
}

// PricedLine pairs a resolved product with the quantity requested for it.
type PricedLine struct {
	Product  Product
	Quantity int
}

// PriceLines snapshots each product's current price into an order item,
// keeping submission order.
func PriceLines(lines []PricedLine) []OrderItem {
	items := make([]OrderItem, 0, len(lines))
	for _, ln := range lines {
		items = append(items, OrderItem{
			ProductID:  ln.Product.ID,
			Quantity:   ln.Quantity,
			UnitPrice:  ln.Product.Price,
			TotalPrice: LineTotal(ln.Product.Price, ln.Quantity),
		})
	}
	return items
}
