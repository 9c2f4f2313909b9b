package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rl1809/order-service/internal/core/domain"
)

const productColumns = `id, name, description, price, category, sku,
	stock_quantity, created_at, updated_at`

func (m *MySQLAdapter) CreateProduct(ctx context.Context, p domain.Product) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price, p.Category, p.SKU,
		p.StockQuantity, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return storageErr("insert product", err)
	}
	return nil
}

func (m *MySQLAdapter) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	row := m.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	return scanProduct(row, id)
}

func (m *MySQLAdapter) GetProductBySKU(ctx context.Context, sku string) (domain.Product, error) {
	row := m.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE sku = ?`, sku)
	return scanProduct(row, sku)
}

func (m *MySQLAdapter) SearchProducts(ctx context.Context, name string) ([]domain.Product, error) {
	return m.queryProducts(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE name LIKE CONCAT('%', ?, '%')
		ORDER BY created_at, id`, name)
}

func (m *MySQLAdapter) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	if category == "" {
		return m.queryProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at, id`)
	}
	return m.queryProducts(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE category = ?
		ORDER BY created_at, id`, category)
}

// DecrementStock applies the decrement only while enough stock remains, so
// concurrent placements can never drive stock negative.
func (m *MySQLAdapter) DecrementStock(ctx context.Context, productID string, quantity int) (bool, error) {
	result, err := m.db.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - ?, version = version + 1, updated_at = ?
		WHERE id = ? AND stock_quantity >= ?`,
		quantity, time.Now().UTC(), productID, quantity,
	)
	if err != nil {
		return false, storageErr("decrement stock", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, storageErr("decrement stock", err)
	}
	return rows == 1, nil
}

func (m *MySQLAdapter) IncrementStock(ctx context.Context, productID string, quantity int) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + ?, version = version + 1, updated_at = ?
		WHERE id = ?`,
		quantity, time.Now().UTC(), productID,
	)
	if err != nil {
		return storageErr("increment stock", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storageErr("increment stock", err)
	}
	if rows == 0 {
		return domain.NewNotFound(domain.EntityProduct, productID)
	}
	return nil
}

func (m *MySQLAdapter) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("query products", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows, "")
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("query products", err)
	}
	return out, nil
}

func scanProduct(s scanner, key string) (domain.Product, error) {
	var p domain.Product
	err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.SKU,
		&p.StockQuantity, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.NewNotFound(domain.EntityProduct, key)
	}
	if err != nil {
		return domain.Product{}, storageErr("scan product", err)
	}
	return p, nil
}
