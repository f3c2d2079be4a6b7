package models

import (
	"time"

	"github.com/billmate/backend/internal/domain/billing"
	"github.com/billmate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for the Customer aggregate root.
type CustomerModel struct {
	AggregateModel
	Name               string                 `gorm:"type:varchar(200);not null;index"`
	CustomerCode       string                 `gorm:"type:varchar(50);uniqueIndex:idx_customers_code,where:customer_code <> ''"`
	Phone              string                 `gorm:"type:varchar(20);index"`
	Email              string                 `gorm:"type:varchar(200)"`
	Address            string                 `gorm:"type:text"`
	City               string                 `gorm:"type:varchar(100);index"`
	State              string                 `gorm:"type:varchar(100)"`
	Pincode            string                 `gorm:"type:varchar(10)"`
	GSTNumber          string                 `gorm:"type:varchar(20)"`
	CreditLimit        decimal.Decimal        `gorm:"type:decimal(15,2);not null;default:0"`
	OutstandingBalance decimal.Decimal        `gorm:"type:decimal(15,2);not null;default:0"`
	Status             billing.CustomerStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	Notes              string                 `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *billing.Customer {
	c := &billing.Customer{
		Name:               m.Name,
		CustomerCode:       m.CustomerCode,
		Phone:              m.Phone,
		Email:              m.Email,
		Address:            m.Address,
		City:               m.City,
		State:              m.State,
		Pincode:            m.Pincode,
		GSTNumber:          m.GSTNumber,
		CreditLimit:        valueobject.NewMoneyINR(m.CreditLimit),
		OutstandingBalance: valueobject.NewMoneyINR(m.OutstandingBalance),
		Status:             m.Status,
		Notes:              m.Notes,
	}
	m.PopulateAggregateRoot(&c.BaseAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *billing.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.CustomerCode = c.CustomerCode
	m.Phone = c.Phone
	m.Email = c.Email
	m.Address = c.Address
	m.City = c.City
	m.State = c.State
	m.Pincode = c.Pincode
	m.GSTNumber = c.GSTNumber
	m.CreditLimit = c.CreditLimit.Amount()
	m.OutstandingBalance = c.OutstandingBalance.Amount()
	m.Status = c.Status
	m.Notes = c.Notes
}

// SalesBillModel is the persistence model for the SalesBill aggregate root.
type SalesBillModel struct {
	AggregateModel
	BillNumber     string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID     uuid.UUID             `gorm:"type:uuid;not null;index"`
	CustomerName   string                `gorm:"type:varchar(200);not null"`
	BillDate       time.Time             `gorm:"not null;index"`
	DueDate        *time.Time            `gorm:"index"`
	Subtotal       decimal.Decimal       `gorm:"type:decimal(15,2);not null;default:0"`
	DiscountAmount decimal.Decimal       `gorm:"type:decimal(15,2);not null;default:0"`
	TaxAmount      decimal.Decimal       `gorm:"type:decimal(15,2);not null;default:0"`
	TotalAmount    decimal.Decimal       `gorm:"type:decimal(15,2);not null;default:0"`
	PaidAmount     decimal.Decimal       `gorm:"type:decimal(15,2);not null;default:0"`
	BalanceAmount  decimal.Decimal       `gorm:"type:decimal(15,2);not null;default:0;index"`
	PaymentStatus  billing.PaymentStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	BillStatus     billing.BillStatus    `gorm:"type:varchar(20);not null;default:'draft';index"`
	Notes          string                `gorm:"type:text"`
	Items          []LineItemModel       `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (SalesBillModel) TableName() string {
	return "sales_bills"
}

// ToDomain converts the persistence model to a domain SalesBill entity.
func (m *SalesBillModel) ToDomain() *billing.SalesBill {
	items := make([]billing.LineItem, 0, len(m.Items))
	for i := range m.Items {
		items = append(items, *m.Items[i].ToDomain())
	}
	b := &billing.SalesBill{
		BillNumber:     m.BillNumber,
		CustomerID:     m.CustomerID,
		CustomerName:   m.CustomerName,
		BillDate:       m.BillDate,
		DueDate:        m.DueDate,
		Items:          items,
		Subtotal:       valueobject.NewMoneyINR(m.Subtotal),
		DiscountAmount: valueobject.NewMoneyINR(m.DiscountAmount),
		TaxAmount:      valueobject.NewMoneyINR(m.TaxAmount),
		TotalAmount:    valueobject.NewMoneyINR(m.TotalAmount),
		PaidAmount:     valueobject.NewMoneyINR(m.PaidAmount),
		BalanceAmount:  valueobject.NewMoneyINR(m.BalanceAmount),
		PaymentStatus:  m.PaymentStatus,
		BillStatus:     m.BillStatus,
		Notes:          m.Notes,
	}
	m.PopulateAggregateRoot(&b.BaseAggregateRoot)
	return b
}

// FromDomain populates the persistence model from a domain SalesBill entity.
func (m *SalesBillModel) FromDomain(b *billing.SalesBill) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.BillNumber = b.BillNumber
	m.CustomerID = b.CustomerID
	m.CustomerName = b.CustomerName
	m.BillDate = b.BillDate
	m.DueDate = b.DueDate
	m.Subtotal = b.Subtotal.Amount()
	m.DiscountAmount = b.DiscountAmount.Amount()
	m.TaxAmount = b.TaxAmount.Amount()
	m.TotalAmount = b.TotalAmount.Amount()
	m.PaidAmount = b.PaidAmount.Amount()
	m.BalanceAmount = b.BalanceAmount.Amount()
	m.PaymentStatus = b.PaymentStatus
	m.BillStatus = b.BillStatus
	m.Notes = b.Notes
	m.Items = make([]LineItemModel, 0, len(b.Items))
	for i := range b.Items {
		var im LineItemModel
		im.FromDomain(&b.Items[i])
		m.Items = append(m.Items, im)
	}
}

// LineItemModel is the persistence model for sales bill line items.
type LineItemModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	BillID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemName       string          `gorm:"type:varchar(200);not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Unit           string          `gorm:"type:varchar(20)"`
	Rate           decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TaxRate        decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountRate   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	LineTotal      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LineItemModel) TableName() string {
	return "sales_bill_items"
}

// ToDomain converts the persistence model to a domain LineItem.
func (m *LineItemModel) ToDomain() *billing.LineItem {
	return &billing.LineItem{
		ID:             m.ID,
		BillID:         m.BillID,
		ItemName:       m.ItemName,
		Quantity:       m.Quantity,
		Unit:           m.Unit,
		Rate:           valueobject.NewMoneyINR(m.Rate),
		TaxRate:        m.TaxRate,
		DiscountRate:   m.DiscountRate,
		Amount:         valueobject.NewMoneyINR(m.Amount),
		DiscountAmount: valueobject.NewMoneyINR(m.DiscountAmount),
		TaxAmount:      valueobject.NewMoneyINR(m.TaxAmount),
		LineTotal:      valueobject.NewMoneyINR(m.LineTotal),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain LineItem.
func (m *LineItemModel) FromDomain(item *billing.LineItem) {
	m.ID = item.ID
	m.BillID = item.BillID
	m.ItemName = item.ItemName
	m.Quantity = item.Quantity
	m.Unit = item.Unit
	m.Rate = item.Rate.Amount()
	m.TaxRate = item.TaxRate
	m.DiscountRate = item.DiscountRate
	m.Amount = item.Amount.Amount()
	m.DiscountAmount = item.DiscountAmount.Amount()
	m.TaxAmount = item.TaxAmount.Amount()
	m.LineTotal = item.LineTotal.Amount()
	m.CreatedAt = item.CreatedAt
	m.UpdatedAt = item.UpdatedAt
}

// CollectionBillModel is the persistence model for the CollectionBill aggregate root.
type CollectionBillModel struct {
	AggregateModel
	CollectionNumber string                   `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID       uuid.UUID                `gorm:"type:uuid;not null;index"`
	CustomerName     string                   `gorm:"type:varchar(200);not null"`
	SalesBillID      *uuid.UUID               `gorm:"type:uuid;index"`
	CollectionDate   time.Time                `gorm:"not null;index"`
	Amount           decimal.Decimal          `gorm:"type:decimal(15,2);not null"`
	PaymentMethod    billing.PaymentMethod    `gorm:"type:varchar(20);not null;default:'cash';index"`
	Status           billing.CollectionStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	ChequeNumber     string                   `gorm:"type:varchar(50)"`
	ChequeDate       *time.Time
	BankName         string `gorm:"type:varchar(200)"`
	ReferenceNumber  string `gorm:"type:varchar(100)"`
	Notes            string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CollectionBillModel) TableName() string {
	return "collection_bills"
}

// ToDomain converts the persistence model to a domain CollectionBill entity.
func (m *CollectionBillModel) ToDomain() *billing.CollectionBill {
	c := &billing.CollectionBill{
		CollectionNumber: m.CollectionNumber,
		CustomerID:       m.CustomerID,
		CustomerName:     m.CustomerName,
		SalesBillID:      m.SalesBillID,
		CollectionDate:   m.CollectionDate,
		Amount:           valueobject.NewMoneyINR(m.Amount),
		PaymentMethod:    m.PaymentMethod,
		Status:           m.Status,
		Cheque: billing.ChequeDetails{
			ChequeNumber: m.ChequeNumber,
			ChequeDate:   m.ChequeDate,
			BankName:     m.BankName,
		},
		ReferenceNumber: m.ReferenceNumber,
		Notes:           m.Notes,
	}
	m.PopulateAggregateRoot(&c.BaseAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain CollectionBill entity.
func (m *CollectionBillModel) FromDomain(c *billing.CollectionBill) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.CollectionNumber = c.CollectionNumber
	m.CustomerID = c.CustomerID
	m.CustomerName = c.CustomerName
	m.SalesBillID = c.SalesBillID
	m.CollectionDate = c.CollectionDate
	m.Amount = c.Amount.Amount()
	m.PaymentMethod = c.PaymentMethod
	m.Status = c.Status
	m.ChequeNumber = c.Cheque.ChequeNumber
	m.ChequeDate = c.Cheque.ChequeDate
	m.BankName = c.Cheque.BankName
	m.ReferenceNumber = c.ReferenceNumber
	m.Notes = c.Notes
}
