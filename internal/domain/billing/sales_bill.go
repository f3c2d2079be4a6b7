package billing

import (
	"fmt"
	"time"

	"github.com/billmate/backend/internal/domain/shared"
	"github.com/billmate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillStatus represents the document status of a sales bill
type BillStatus string

const (
	BillStatusDraft     BillStatus = "draft"
	BillStatusSent      BillStatus = "sent"
	BillStatusViewed    BillStatus = "viewed"
	BillStatusPaid      BillStatus = "paid"
	BillStatusCancelled BillStatus = "cancelled"
)

// IsValid checks if the status is a valid BillStatus
func (s BillStatus) IsValid() bool {
	switch s {
	case BillStatusDraft, BillStatusSent, BillStatusViewed, BillStatusPaid, BillStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of BillStatus
func (s BillStatus) String() string {
	return string(s)
}

// IsTerminal returns true for statuses that allow no further transitions
func (s BillStatus) IsTerminal() bool {
	return s == BillStatusPaid || s == BillStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s BillStatus) CanTransitionTo(target BillStatus) bool {
	switch s {
	case BillStatusDraft:
		return target == BillStatusSent || target == BillStatusCancelled
	case BillStatusSent:
		return target == BillStatusViewed || target == BillStatusPaid || target == BillStatusCancelled
	case BillStatusViewed:
		return target == BillStatusPaid || target == BillStatusCancelled
	case BillStatusPaid, BillStatusCancelled:
		return false
	}
	return false
}

// PaymentStatus represents how much of a bill has been collected
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusPaid, PaymentStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// DerivePaymentStatus derives the payment status from the paid and total
// amounts. Every ledger mutation, including collection reversal, goes
// through this single derivation:
//
//	balance <= 0 or paid >= total  -> paid
//	paid > 0                       -> partial
//	otherwise                      -> pending
//
// overdue is never derived here; it is assigned by a due-date sweep.
func DerivePaymentStatus(paid, total valueobject.Money) PaymentStatus {
	balance := total.MustSubtract(paid)
	if !balance.IsPositive() || paid.Amount().GreaterThanOrEqual(total.Amount()) {
		return PaymentStatusPaid
	}
	if paid.IsPositive() {
		return PaymentStatusPartial
	}
	return PaymentStatusPending
}

// minQuantity is the smallest accepted line-item quantity.
var minQuantity = decimal.NewFromFloat(0.001)

// maxRatePercent caps tax and discount rates.
var maxRatePercent = decimal.NewFromInt(100)

// LineItem represents a priced row within a sales bill.
// All derived amounts are rounded to 2 places independently before any
// bill-level summation so that totals reproduce exactly.
type LineItem struct {
	ID             uuid.UUID
	BillID         uuid.UUID
	ItemName       string
	Quantity       decimal.Decimal
	Unit           string
	Rate           valueobject.Money
	TaxRate        decimal.Decimal
	DiscountRate   decimal.Decimal
	Amount         valueobject.Money // Quantity * Rate
	DiscountAmount valueobject.Money // Amount * DiscountRate / 100
	TaxAmount      valueobject.Money // (Amount - DiscountAmount) * TaxRate / 100
	LineTotal      valueobject.Money // taxable + TaxAmount
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewLineItem creates and prices a new line item
func NewLineItem(billID uuid.UUID, itemName, unit string, quantity decimal.Decimal, rate valueobject.Money, taxRate, discountRate decimal.Decimal) (*LineItem, error) {
	if itemName == "" {
		return nil, shared.NewValidationError("Item name cannot be empty")
	}
	if quantity.LessThan(minQuantity) {
		return nil, shared.NewValidationError("Item quantity must be positive")
	}
	if rate.IsNegative() {
		return nil, shared.NewValidationError("Item rate cannot be negative")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(maxRatePercent) {
		return nil, shared.NewValidationError("Tax rate must be between 0 and 100")
	}
	if discountRate.IsNegative() || discountRate.GreaterThan(maxRatePercent) {
		return nil, shared.NewValidationError("Discount rate must be between 0 and 100")
	}

	amount := rate.Multiply(quantity).Round2()
	discountAmount := amount.CalculatePercentage(discountRate).Round2()
	taxable := amount.MustSubtract(discountAmount)
	taxAmount := taxable.CalculatePercentage(taxRate).Round2()
	lineTotal := taxable.MustAdd(taxAmount).Round2()

	now := time.Now()
	return &LineItem{
		ID:             uuid.New(),
		BillID:         billID,
		ItemName:       itemName,
		Quantity:       quantity,
		Unit:           unit,
		Rate:           rate,
		TaxRate:        taxRate,
		DiscountRate:   discountRate,
		Amount:         amount,
		DiscountAmount: discountAmount,
		TaxAmount:      taxAmount,
		LineTotal:      lineTotal,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Taxable returns the amount after discount, before tax
func (i *LineItem) Taxable() valueobject.Money {
	return i.Amount.MustSubtract(i.DiscountAmount)
}

// SalesBill represents a sales bill aggregate root. It owns the line items
// and the payment ledger (total/paid/balance amounts plus payment status).
type SalesBill struct {
	shared.BaseAggregateRoot
	BillNumber     string
	CustomerID     uuid.UUID
	CustomerName   string
	BillDate       time.Time
	DueDate        *time.Time
	Items          []LineItem
	Subtotal       valueobject.Money
	DiscountAmount valueobject.Money
	TaxAmount      valueobject.Money
	TotalAmount    valueobject.Money
	PaidAmount     valueobject.Money
	BalanceAmount  valueobject.Money
	PaymentStatus  PaymentStatus
	BillStatus     BillStatus
	Notes          string
}

// NewSalesBill creates a new sales bill in draft status with no items
func NewSalesBill(billNumber string, customerID uuid.UUID, customerName string, billDate time.Time, dueDate *time.Time) (*SalesBill, error) {
	if billNumber == "" {
		return nil, shared.NewValidationError("Bill number cannot be empty")
	}
	if len(billNumber) > 50 {
		return nil, shared.NewValidationError("Bill number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Customer ID cannot be empty")
	}
	if billDate.IsZero() {
		return nil, shared.NewValidationError("Bill date cannot be empty")
	}
	if dueDate != nil && dueDate.Before(billDate) {
		return nil, shared.NewValidationError("Due date cannot be before bill date")
	}

	return &SalesBill{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BillNumber:        billNumber,
		CustomerID:        customerID,
		CustomerName:      customerName,
		BillDate:          billDate,
		DueDate:           dueDate,
		Items:             make([]LineItem, 0),
		Subtotal:          valueobject.ZeroINR(),
		DiscountAmount:    valueobject.ZeroINR(),
		TaxAmount:         valueobject.ZeroINR(),
		TotalAmount:       valueobject.ZeroINR(),
		PaidAmount:        valueobject.ZeroINR(),
		BalanceAmount:     valueobject.ZeroINR(),
		PaymentStatus:     PaymentStatusPending,
		BillStatus:        BillStatusDraft,
	}, nil
}

// AddItem prices and appends a line item, then recalculates bill totals.
// Only allowed while nothing has been collected against the bill.
func (b *SalesBill) AddItem(itemName, unit string, quantity decimal.Decimal, rate valueobject.Money, taxRate, discountRate decimal.Decimal) (*LineItem, error) {
	if b.PaidAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot modify items on a bill with collections applied")
	}
	if b.BillStatus.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot modify items on a "+b.BillStatus.String()+" bill")
	}

	item, err := NewLineItem(b.ID, itemName, unit, quantity, rate, taxRate, discountRate)
	if err != nil {
		return nil, err
	}

	b.Items = append(b.Items, *item)
	b.recalculateTotals()
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return item, nil
}

// ReplaceItems swaps the full item list atomically and reprices the bill.
// Used on bill update; rejected once any amount has been collected.
func (b *SalesBill) ReplaceItems(items []LineItem) error {
	if b.PaidAmount.IsPositive() {
		return shared.NewDomainError("INVALID_STATE", "Cannot replace items on a bill with collections applied")
	}
	if b.BillStatus.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot replace items on a "+b.BillStatus.String()+" bill")
	}
	if len(items) == 0 {
		return shared.NewValidationError("Bill must contain at least one line item")
	}

	for idx := range items {
		items[idx].BillID = b.ID
	}
	b.Items = items
	b.recalculateTotals()
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// recalculateTotals recomputes bill aggregates from the items. Each addend
// was already rounded per line; the sums are rounded once more before
// storage.
func (b *SalesBill) recalculateTotals() {
	subtotal := valueobject.ZeroINR()
	discountTotal := valueobject.ZeroINR()
	taxTotal := valueobject.ZeroINR()

	for idx := range b.Items {
		subtotal = subtotal.MustAdd(b.Items[idx].Amount)
		discountTotal = discountTotal.MustAdd(b.Items[idx].DiscountAmount)
		taxTotal = taxTotal.MustAdd(b.Items[idx].TaxAmount)
	}

	b.Subtotal = subtotal.Round2()
	b.DiscountAmount = discountTotal.Round2()
	b.TaxAmount = taxTotal.Round2()
	b.TotalAmount = b.Subtotal.MustSubtract(b.DiscountAmount).MustAdd(b.TaxAmount).Round2()
	b.BalanceAmount = b.TotalAmount.MustSubtract(b.PaidAmount).Round2().Floor0()
	b.refreshPaymentStatus()
}

// ApplyPayment shifts the ledger by delta (positive for a collection,
// negative for a reversal). A positive delta that would push the paid
// amount past the total is rejected; a reversal can at most bring the paid
// amount back to zero.
func (b *SalesBill) ApplyPayment(delta valueobject.Money) error {
	if delta.IsZero() {
		return nil
	}

	newPaid := b.PaidAmount.MustAdd(delta).Round2()
	if newPaid.IsNegative() {
		newPaid = valueobject.ZeroINR()
	}
	if newPaid.Amount().GreaterThan(b.TotalAmount.Amount()) {
		return shared.ErrOverpayment.WithDetails(fmt.Sprintf(
			"paid %s + delta %s exceeds total %s",
			b.PaidAmount.StringFixed(2), delta.StringFixed(2), b.TotalAmount.StringFixed(2)))
	}

	b.PaidAmount = newPaid
	b.BalanceAmount = b.TotalAmount.MustSubtract(newPaid).Round2().Floor0()
	b.refreshPaymentStatus()
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// refreshPaymentStatus re-derives the payment status. An externally
// assigned overdue flag survives only while the bill still has an unpaid
// balance and no payment has been applied.
func (b *SalesBill) refreshPaymentStatus() {
	derived := DerivePaymentStatus(b.PaidAmount, b.TotalAmount)
	if b.PaymentStatus == PaymentStatusOverdue && derived == PaymentStatusPending {
		return
	}
	b.PaymentStatus = derived
}

// MarkOverdue flags the bill as overdue. Applied by the due-date sweep;
// never derived by the ledger itself.
func (b *SalesBill) MarkOverdue(now time.Time) error {
	if b.DueDate == nil || !now.After(*b.DueDate) {
		return shared.NewDomainError("INVALID_STATE", "Bill is not past its due date")
	}
	if b.PaymentStatus != PaymentStatusPending && b.PaymentStatus != PaymentStatusPartial {
		return shared.NewDomainError("INVALID_STATE", "Only pending or partial bills can become overdue")
	}
	b.PaymentStatus = PaymentStatusOverdue
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// TransitionTo moves the bill document status through its state machine
func (b *SalesBill) TransitionTo(target BillStatus) error {
	if !target.IsValid() {
		return shared.NewValidationError("Invalid bill status: " + target.String())
	}
	if !b.BillStatus.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf(
			"Cannot transition bill from %s to %s", b.BillStatus, target))
	}
	if target == BillStatusCancelled && b.PaidAmount.IsPositive() {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel a bill with collections applied")
	}
	b.BillStatus = target
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// SetNotes sets free-form notes on the bill
func (b *SalesBill) SetNotes(notes string) {
	b.Notes = notes
	b.UpdatedAt = time.Now()
}

// HasCollections reports whether any amount has been applied to this bill
func (b *SalesBill) HasCollections() bool {
	return b.PaidAmount.IsPositive()
}
