package domain

import "time"

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type OrderPlacedItem struct {
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
	UnitPrice  string `json:"unit_price"`
	TotalPrice string `json:"total_price"`
}

type OrderPlaced struct {
	Type        string            `json:"type"`
	OrderID     string            `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	CustomerID  string            `json:"customer_id"`
	Items       []OrderPlacedItem `json:"items"`
	TotalAmount string            `json:"total_amount"`
	PlacedAt    time.Time         `json:"placed_at"`
}

type OrderStatusChanged struct {
	Type      string      `json:"type"`
	OrderID   string      `json:"order_id"`
	From      OrderStatus `json:"from"`
	To        OrderStatus `json:"to"`
	ChangedAt time.Time   `json:"changed_at"`
}

func NewOrderPlaced(o Order) OrderPlaced {
	items := make([]OrderPlacedItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderPlacedItem{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice.StringFixed(2),
			TotalPrice: it.TotalPrice.StringFixed(2),
		})
	}
	return OrderPlaced{
		Type:        EventOrderPlaced,
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		CustomerID:  o.CustomerID,
		Items:       items,
		TotalAmount: o.TotalAmount.StringFixed(2),
		PlacedAt:    o.CreatedAt,
	}
}
