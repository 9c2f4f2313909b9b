package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/order-service/internal/adapter/storage"
	"github.com/rl1809/order-service/internal/core/domain"
)

func TestCustomerService(t *testing.T) {
	svc := NewCustomerService(storage.NewMemoryAdapter())
	ctx := context.Background()

	created, err := svc.CreateCustomer(ctx, domain.Customer{
		FirstName: " Grace ",
		LastName:  "Hopper",
		Email:     "Grace@Example.com",
		Phone:     "555-0100",
		Address:   domain.Address{City: "Arlington", Country: "US"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Grace", created.FirstName)
	assert.Equal(t, "grace@example.com", created.Email)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := svc.GetCustomer(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	byEmail, err := svc.GetCustomerByEmail(ctx, "GRACE@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = svc.CreateCustomer(ctx, domain.Customer{FirstName: "G", LastName: "H", Email: "grace@example.com", Phone: "1"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	all, err := svc.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCustomerService_Errors(t *testing.T) {
	svc := NewCustomerService(storage.NewMemoryAdapter())
	ctx := context.Background()

	_, err := svc.CreateCustomer(ctx, domain.Customer{FirstName: "A", LastName: "B", Email: "not-an-email", Phone: "1"})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = svc.GetCustomer(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = svc.GetCustomer(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetCustomerByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
