package billing

import (
	"time"

	"github.com/billmate/backend/internal/domain/shared"
	"github.com/billmate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PaymentMethod represents how a collection was received
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCheque       PaymentMethod = "cheque"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodOther        PaymentMethod = "other"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCheque, PaymentMethodBankTransfer,
		PaymentMethodUPI, PaymentMethodCard, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// CollectionStatus represents the clearing status of a collection
type CollectionStatus string

const (
	CollectionStatusPending   CollectionStatus = "pending"
	CollectionStatusCleared   CollectionStatus = "cleared"
	CollectionStatusBounced   CollectionStatus = "bounced"
	CollectionStatusCancelled CollectionStatus = "cancelled"
)

// IsValid checks if the status is a valid CollectionStatus
func (s CollectionStatus) IsValid() bool {
	switch s {
	case CollectionStatusPending, CollectionStatusCleared, CollectionStatusBounced, CollectionStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of CollectionStatus
func (s CollectionStatus) String() string {
	return string(s)
}

// ChequeDetails carries cheque metadata for cheque collections
type ChequeDetails struct {
	ChequeNumber string
	ChequeDate   *time.Time
	BankName     string
}

// CollectionBill represents money received from a customer, optionally
// applied against one sales bill. Its ledger effect on the linked bill is
// applied at creation and reversed or re-applied on update and delete.
type CollectionBill struct {
	shared.BaseAggregateRoot
	CollectionNumber string
	CustomerID       uuid.UUID
	CustomerName     string
	SalesBillID      *uuid.UUID
	CollectionDate   time.Time
	Amount           valueobject.Money
	PaymentMethod    PaymentMethod
	Status           CollectionStatus
	Cheque           ChequeDetails
	ReferenceNumber  string
	Notes            string
}

// NewCollectionBill creates a new collection record
func NewCollectionBill(collectionNumber string, customerID uuid.UUID, customerName string, salesBillID *uuid.UUID, collectionDate time.Time, amount valueobject.Money, method PaymentMethod) (*CollectionBill, error) {
	if collectionNumber == "" {
		return nil, shared.NewValidationError("Collection number cannot be empty")
	}
	if len(collectionNumber) > 50 {
		return nil, shared.NewValidationError("Collection number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Customer ID cannot be empty")
	}
	if collectionDate.IsZero() {
		return nil, shared.NewValidationError("Collection date cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("Collection amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewValidationError("Invalid payment method: " + method.String())
	}

	return &CollectionBill{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CollectionNumber:  collectionNumber,
		CustomerID:        customerID,
		CustomerName:      customerName,
		SalesBillID:       salesBillID,
		CollectionDate:    collectionDate,
		Amount:            amount.Round2(),
		PaymentMethod:     method,
		Status:            CollectionStatusPending,
	}, nil
}

// UpdateAmount changes the collected amount. The caller reconciles the
// delta against the linked bill in the same transaction.
func (c *CollectionBill) UpdateAmount(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("Collection amount must be positive")
	}
	if c.Status == CollectionStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a cancelled collection")
	}
	c.Amount = amount.Round2()
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Relink points the collection at a different sales bill (or none).
// The caller reverses and re-applies the ledger effect transactionally.
func (c *CollectionBill) Relink(salesBillID *uuid.UUID) error {
	if c.Status == CollectionStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a cancelled collection")
	}
	c.SalesBillID = salesBillID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// ChangeStatus updates the clearing status
func (c *CollectionBill) ChangeStatus(status CollectionStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError("Invalid collection status: " + status.String())
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetChequeDetails records cheque metadata; only valid for cheque payments
func (c *CollectionBill) SetChequeDetails(details ChequeDetails) error {
	if c.PaymentMethod != PaymentMethodCheque {
		return shared.NewValidationError("Cheque details require the cheque payment method")
	}
	c.Cheque = details
	c.UpdatedAt = time.Now()
	return nil
}

// SetReference records an external reference (UTR, transaction id)
func (c *CollectionBill) SetReference(reference string) {
	c.ReferenceNumber = reference
	c.UpdatedAt = time.Now()
}

// SetNotes sets free-form notes on the collection
func (c *CollectionBill) SetNotes(notes string) {
	c.Notes = notes
	c.UpdatedAt = time.Now()
}

// IsLinked reports whether the collection is applied against a sales bill
func (c *CollectionBill) IsLinked() bool {
	return c.SalesBillID != nil && *c.SalesBillID != uuid.Nil
}
