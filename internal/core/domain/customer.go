package domain

import (
	"net/mail"
	"strings"
	"time"
)

type Address struct {
	Street  string
	City    string
	State   string
	ZipCode string
	Country string
}

type Customer struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   Address
	CreatedAt time.Time
}

func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Validate checks the fields required to register a customer.
func (c Customer) Validate() error {
	if strings.TrimSpace(c.FirstName) == "" || strings.TrimSpace(c.LastName) == "" {
		return Invalidf("first and last name are required")
	}
	if strings.TrimSpace(c.Phone) == "" {
		return Invalidf("phone is required")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return Invalidf("invalid email %q", c.Email)
	}
	return nil
}
