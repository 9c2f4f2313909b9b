package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rl1809/order-service/internal/core/domain"
)

const customerColumns = `id, first_name, last_name, email, phone,
	street, city, state, zip_code, country, created_at`

func (m *MySQLAdapter) CreateCustomer(ctx context.Context, c domain.Customer) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone,
		c.Address.Street, c.Address.City, c.Address.State, c.Address.ZipCode, c.Address.Country,
		c.CreatedAt,
	)
	if err != nil {
		return storageErr("insert customer", err)
	}
	return nil
}

func (m *MySQLAdapter) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	row := m.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
	return scanCustomer(row, id)
}

func (m *MySQLAdapter) GetCustomerByEmail(ctx context.Context, email string) (domain.Customer, error) {
	row := m.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE email = ?`, email)
	return scanCustomer(row, email)
}

func (m *MySQLAdapter) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY created_at, id`)
	if err != nil {
		return nil, storageErr("list customers", err)
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows, "")
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list customers", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCustomer(s scanner, key string) (domain.Customer, error) {
	var c domain.Customer
	err := s.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Address.Street, &c.Address.City, &c.Address.State, &c.Address.ZipCode, &c.Address.Country,
		&c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, domain.NewNotFound(domain.EntityCustomer, key)
	}
	if err != nil {
		return domain.Customer{}, storageErr("scan customer", err)
	}
	return c, nil
}
