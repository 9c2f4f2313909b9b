package port

import (
	"context"

	"github.com/rl1809/order-service/internal/core/domain"
)

type CustomerRepository interface {
	// CreateCustomer returns domain.ErrAlreadyExists when the email is taken
	CreateCustomer(ctx context.Context, customer domain.Customer) error

	GetCustomer(ctx context.Context, id string) (domain.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
}
