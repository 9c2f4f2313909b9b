package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rl1809/order-service/internal/core/domain"
)

const orderColumns = `id, order_number, customer_id, status, total_amount, created_at, updated_at`

// CreateOrder writes the order and its lines in one transaction.
func (m *MySQLAdapter) CreateOrder(ctx context.Context, o domain.Order) error {
	return m.execTx(ctx, func(q queryer) error {
		_, err := q.ExecContext(ctx, `
			INSERT INTO orders (`+orderColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			o.ID, o.OrderNumber, o.CustomerID, o.Status, o.TotalAmount, o.CreatedAt, o.UpdatedAt,
		)
		if err != nil {
			return storageErr("insert order", err)
		}

		for i, it := range o.Items {
			_, err := q.ExecContext(ctx, `
				INSERT INTO order_items (order_id, line_no, product_id, quantity, unit_price, total_price)
				VALUES (?, ?, ?, ?, ?, ?)`,
				o.ID, i, it.ProductID, it.Quantity, it.UnitPrice, it.TotalPrice,
			)
			if err != nil {
				return storageErr("insert order item", err)
			}
		}
		return nil
	})
}

func (m *MySQLAdapter) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	row := m.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row, id)
	if err != nil {
		return domain.Order{}, err
	}

	orders := []domain.Order{o}
	if err := m.attachItems(ctx, orders); err != nil {
		return domain.Order{}, err
	}
	return orders[0], nil
}

func (m *MySQLAdapter) ListOrdersByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return m.queryOrders(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE customer_id = ?
		ORDER BY created_at, id`, customerID)
}

func (m *MySQLAdapter) ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	if status == "" {
		return m.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at, id`)
	}
	return m.queryOrders(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE status = ?
		ORDER BY created_at, id`, status)
}

func (m *MySQLAdapter) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus, at time.Time) (domain.Order, error) {
	_, err := m.db.ExecContext(ctx, `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`, status, at, id)
	if err != nil {
		return domain.Order{}, storageErr("update order status", err)
	}
	return m.GetOrder(ctx, id)
}

func (m *MySQLAdapter) queryOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("query orders", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows, "")
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("query orders", err)
	}

	if err := m.attachItems(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachItems loads the lines of every order in one query, in line order.
func (m *MySQLAdapter) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]any, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT order_id, product_id, quantity, unit_price, total_price
		FROM order_items
		WHERE order_id IN (`+placeholders(len(ids))+`)
		ORDER BY order_id, line_no`, ids...)
	if err != nil {
		return storageErr("query order items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var it domain.OrderItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return storageErr("scan order item", err)
		}
		i := index[orderID]
		orders[i].Items = append(orders[i].Items, it)
	}
	if err := rows.Err(); err != nil {
		return storageErr("query order items", err)
	}
	return nil
}

func scanOrder(s scanner, key string) (domain.Order, error) {
	var o domain.Order
	err := s.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.NewNotFound(domain.EntityOrder, key)
	}
	if err != nil {
		return domain.Order{}, storageErr("scan order", err)
	}
	return o, nil
}
