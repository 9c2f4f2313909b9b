package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/order-service/internal/core/domain"
	"github.com/rl1809/order-service/internal/port"
)

type CustomerService struct {
	repo port.CustomerRepository
}

func NewCustomerService(repo port.CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

func (s *CustomerService) CreateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)

	if err := c.Validate(); err != nil {
		return domain.Customer{}, err
	}

	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	if err := s.repo.CreateCustomer(ctx, c); err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Customer{}, domain.Invalidf("customer id is required")
	}
	return s.repo.GetCustomer(ctx, id)
}

func (s *CustomerService) GetCustomerByEmail(ctx context.Context, email string) (domain.Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domain.Customer{}, domain.Invalidf("email is required")
	}
	return s.repo.GetCustomerByEmail(ctx, email)
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.ListCustomers(ctx)
}
