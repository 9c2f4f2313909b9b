package domain

import (
	"math"
	"strings"
)

// MaxQuantity bounds a line and the summed demand for one product; it is the
// largest value a MySQL INT stock column holds.
const MaxQuantity = math.MaxInt32

type LineRequest struct {
	ProductID string
	Quantity  int
}

type PlaceOrderRequest struct {
	CustomerID string
	Items      []LineRequest
	// RequestID is an optional client key used to reject replayed placements.
	RequestID string
}

func (r PlaceOrderRequest) Validate() error {
	if strings.TrimSpace(r.CustomerID) == "" {
		return Invalidf("customer id is required")
	}
	if len(r.Items) == 0 {
		return Invalidf("order must have at least one item")
	}
	summed := make(map[string]int, len(r.Items))
	for i, it := range r.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return Invalidf("item %d: product id is required", i)
		}
		if it.Quantity <= 0 {
			return Invalidf("item %d: quantity must be positive, got %d", i, it.Quantity)
		}
		if it.Quantity > MaxQuantity {
			return Invalidf("item %d: quantity %d exceeds %d", i, it.Quantity, MaxQuantity)
		}
		// both operands are at most MaxQuantity, so the sum cannot overflow int
		summed[it.ProductID] += it.Quantity
		if summed[it.ProductID] > MaxQuantity {
			return Invalidf("product %s: total quantity exceeds %d", it.ProductID, MaxQuantity)
		}
	}
	return nil
}

// StockDemand is the summed quantity requested for one product.
type StockDemand struct {
	ProductID string
	Quantity  int
}

// AggregateDemand sums quantities per product id, keeping first-seen order.
func AggregateDemand(lines []PricedLine) []StockDemand {
	idx := make(map[string]int, len(lines))
	out := make([]StockDemand, 0, len(lines))
	for _, ln := range lines {
		if i, ok := idx[ln.Product.ID]; ok {
			out[i].Quantity += ln.Quantity
			continue
		}
		idx[ln.Product.ID] = len(out)
		out = append(out, StockDemand{ProductID: ln.Product.ID, Quantity: ln.Quantity})
	}
	return out
}
