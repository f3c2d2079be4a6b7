package billing

import (
	"time"

	"github.com/billmate/backend/internal/domain/shared"
	"github.com/billmate/backend/internal/domain/shared/valueobject"
)

// CustomerStatus represents the status of a customer account
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
	CustomerStatusBlocked  CustomerStatus = "blocked"
)

// IsValid checks if the status is a valid CustomerStatus
func (s CustomerStatus) IsValid() bool {
	switch s {
	case CustomerStatusActive, CustomerStatusInactive, CustomerStatusBlocked:
		return true
	}
	return false
}

// String returns the string representation of CustomerStatus
func (s CustomerStatus) String() string {
	return string(s)
}

// Customer represents a customer aggregate root.
// OutstandingBalance is a derived mirror of the customer's open bills; the
// bills themselves stay authoritative.
type Customer struct {
	shared.BaseAggregateRoot
	Name               string
	CustomerCode       string
	Phone              string
	Email              string
	Address            string
	City               string
	State              string
	Pincode            string
	GSTNumber          string
	CreditLimit        valueobject.Money
	OutstandingBalance valueobject.Money
	Status             CustomerStatus
	Notes              string
}

// NewCustomer creates a new customer
func NewCustomer(name string) (*Customer, error) {
	if name == "" {
		return nil, shared.NewValidationError("Customer name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("Customer name cannot exceed 200 characters")
	}

	return &Customer{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Name:               name,
		CreditLimit:        valueobject.ZeroINR(),
		OutstandingBalance: valueobject.ZeroINR(),
		Status:             CustomerStatusActive,
	}, nil
}

// UpdateDetails updates the customer's contact details
func (c *Customer) UpdateDetails(name, phone, email, address, city, state, pincode, gstNumber string) error {
	if name == "" {
		return shared.NewValidationError("Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("Customer name cannot exceed 200 characters")
	}

	c.Name = name
	c.Phone = phone
	c.Email = email
	c.Address = address
	c.City = city
	c.State = state
	c.Pincode = pincode
	c.GSTNumber = gstNumber
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetCreditLimit sets the customer's credit limit
func (c *Customer) SetCreditLimit(limit valueobject.Money) error {
	if limit.IsNegative() {
		return shared.NewValidationError("Credit limit cannot be negative")
	}
	c.CreditLimit = limit.Round2()
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// ChangeStatus changes the customer status
func (c *Customer) ChangeStatus(status CustomerStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError("Invalid customer status: " + status.String())
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// AdjustOutstanding shifts the derived outstanding balance by delta,
// floored at zero. Called alongside bill and collection mutations.
func (c *Customer) AdjustOutstanding(delta valueobject.Money) {
	c.OutstandingBalance = c.OutstandingBalance.MustAdd(delta).Round2().Floor0()
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// IsActive returns true when the customer can be billed
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}
