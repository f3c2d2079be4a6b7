package billing

import (
	"time"

	"github.com/billmate/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Customer DTOs
// =============================================================================

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Name         string           `json:"name" binding:"required,min=1,max=200"`
	CustomerCode string           `json:"customer_code" binding:"max=50"`
	Phone        string           `json:"phone" binding:"max=20"`
	Email        string           `json:"email" binding:"omitempty,email,max=200"`
	Address      string           `json:"address" binding:"max=500"`
	City         string           `json:"city" binding:"max=100"`
	State        string           `json:"state" binding:"max=100"`
	Pincode      string           `json:"pincode" binding:"max=10"`
	GSTNumber    string           `json:"gst_number" binding:"max=20"`
	CreditLimit  *decimal.Decimal `json:"credit_limit"`
	Notes        string           `json:"notes"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Phone       *string          `json:"phone" binding:"omitempty,max=20"`
	Email       *string          `json:"email" binding:"omitempty,email,max=200"`
	Address     *string          `json:"address" binding:"omitempty,max=500"`
	City        *string          `json:"city" binding:"omitempty,max=100"`
	State       *string          `json:"state" binding:"omitempty,max=100"`
	Pincode     *string          `json:"pincode" binding:"omitempty,max=10"`
	GSTNumber   *string          `json:"gst_number" binding:"omitempty,max=20"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
	Status      *string          `json:"status" binding:"omitempty,oneof=active inactive blocked"`
	Notes       *string          `json:"notes"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	CustomerCode       string          `json:"customer_code"`
	Phone              string          `json:"phone"`
	Email              string          `json:"email"`
	Address            string          `json:"address"`
	City               string          `json:"city"`
	State              string          `json:"state"`
	Pincode            string          `json:"pincode"`
	GSTNumber          string          `json:"gst_number"`
	CreditLimit        decimal.Decimal `json:"credit_limit"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	Status             string          `json:"status"`
	Notes              string          `json:"notes"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Version            int             `json:"version"`
}

// CustomerListFilter represents filter options for customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive blocked"`
	City     string `form:"city"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToCustomerResponse converts a domain customer to a response DTO
func ToCustomerResponse(c *billing.Customer) CustomerResponse {
	return CustomerResponse{
		ID:                 c.ID,
		Name:               c.Name,
		CustomerCode:       c.CustomerCode,
		Phone:              c.Phone,
		Email:              c.Email,
		Address:            c.Address,
		City:               c.City,
		State:              c.State,
		Pincode:            c.Pincode,
		GSTNumber:          c.GSTNumber,
		CreditLimit:        c.CreditLimit.Amount(),
		OutstandingBalance: c.OutstandingBalance.Amount(),
		Status:             string(c.Status),
		Notes:              c.Notes,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
		Version:            c.Version,
	}
}

// ToCustomerResponses converts a slice of domain customers
func ToCustomerResponses(customers []billing.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}

// =============================================================================
// Sales bill DTOs
// =============================================================================

// BillItemRequest represents one line item on a bill request
type BillItemRequest struct {
	ItemName     string          `json:"item_name" binding:"required,min=1,max=200"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	Unit         string          `json:"unit" binding:"max=20"`
	Rate         decimal.Decimal `json:"rate" binding:"required"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
}

// CreateSalesBillRequest represents a request to create a sales bill
type CreateSalesBillRequest struct {
	CustomerID uuid.UUID         `json:"customer_id" binding:"required"`
	BillDate   time.Time         `json:"bill_date" binding:"required"`
	DueDate    *time.Time        `json:"due_date"`
	Items      []BillItemRequest `json:"items" binding:"required,min=1,dive"`
	Notes      string            `json:"notes"`
}

// UpdateSalesBillRequest represents a request to update a sales bill.
// Items, when present, replace the full item list.
type UpdateSalesBillRequest struct {
	BillDate *time.Time        `json:"bill_date"`
	DueDate  *time.Time        `json:"due_date"`
	Items    []BillItemRequest `json:"items" binding:"omitempty,min=1,dive"`
	Notes    *string           `json:"notes"`
}

// TransitionBillStatusRequest represents a document status change
type TransitionBillStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=sent viewed paid cancelled"`
}

// BillItemResponse represents one line item in API responses
type BillItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	ItemName       string          `json:"item_name"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit"`
	Rate           decimal.Decimal `json:"rate"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	DiscountRate   decimal.Decimal `json:"discount_rate"`
	Amount         decimal.Decimal `json:"amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

// SalesBillResponse represents a sales bill in API responses
type SalesBillResponse struct {
	ID             uuid.UUID          `json:"id"`
	BillNumber     string             `json:"bill_number"`
	CustomerID     uuid.UUID          `json:"customer_id"`
	CustomerName   string             `json:"customer_name"`
	BillDate       time.Time          `json:"bill_date"`
	DueDate        *time.Time         `json:"due_date,omitempty"`
	Items          []BillItemResponse `json:"items"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	PaidAmount     decimal.Decimal    `json:"paid_amount"`
	BalanceAmount  decimal.Decimal    `json:"balance_amount"`
	PaymentStatus  string             `json:"payment_status"`
	BillStatus     string             `json:"bill_status"`
	Notes          string             `json:"notes"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	Version        int                `json:"version"`
}

// SalesBillListFilter represents filter options for bill list
type SalesBillListFilter struct {
	Search        string     `form:"search"`
	CustomerID    *uuid.UUID `form:"customer_id"`
	PaymentStatus string     `form:"payment_status" binding:"omitempty,oneof=pending partial paid overdue"`
	BillStatus    string     `form:"bill_status" binding:"omitempty,oneof=draft sent viewed paid cancelled"`
	FromDate      *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate        *time.Time `form:"to_date" time_format:"2006-01-02"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToSalesBillResponse converts a domain sales bill to a response DTO
func ToSalesBillResponse(b *billing.SalesBill) SalesBillResponse {
	items := make([]BillItemResponse, len(b.Items))
	for i := range b.Items {
		item := &b.Items[i]
		items[i] = BillItemResponse{
			ID:             item.ID,
			ItemName:       item.ItemName,
			Quantity:       item.Quantity,
			Unit:           item.Unit,
			Rate:           item.Rate.Amount(),
			TaxRate:        item.TaxRate,
			DiscountRate:   item.DiscountRate,
			Amount:         item.Amount.Amount(),
			DiscountAmount: item.DiscountAmount.Amount(),
			TaxAmount:      item.TaxAmount.Amount(),
			LineTotal:      item.LineTotal.Amount(),
		}
	}
	return SalesBillResponse{
		ID:             b.ID,
		BillNumber:     b.BillNumber,
		CustomerID:     b.CustomerID,
		CustomerName:   b.CustomerName,
		BillDate:       b.BillDate,
		DueDate:        b.DueDate,
		Items:          items,
		Subtotal:       b.Subtotal.Amount(),
		DiscountAmount: b.DiscountAmount.Amount(),
		TaxAmount:      b.TaxAmount.Amount(),
		TotalAmount:    b.TotalAmount.Amount(),
		PaidAmount:     b.PaidAmount.Amount(),
		BalanceAmount:  b.BalanceAmount.Amount(),
		PaymentStatus:  string(b.PaymentStatus),
		BillStatus:     string(b.BillStatus),
		Notes:          b.Notes,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
		Version:        b.Version,
	}
}

// ToSalesBillResponses converts a slice of domain sales bills
func ToSalesBillResponses(bills []billing.SalesBill) []SalesBillResponse {
	responses := make([]SalesBillResponse, len(bills))
	for i := range bills {
		responses[i] = ToSalesBillResponse(&bills[i])
	}
	return responses
}

// =============================================================================
// Collection DTOs
// =============================================================================

// CreateCollectionRequest represents a request to record a collection
type CreateCollectionRequest struct {
	CustomerID      uuid.UUID       `json:"customer_id" binding:"required"`
	SalesBillID     *uuid.UUID      `json:"sales_bill_id"`
	CollectionDate  time.Time       `json:"collection_date" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod   string          `json:"payment_method" binding:"required,oneof=cash cheque bank_transfer upi card other"`
	ChequeNumber    string          `json:"cheque_number" binding:"max=50"`
	ChequeDate      *time.Time      `json:"cheque_date"`
	BankName        string          `json:"bank_name" binding:"max=200"`
	ReferenceNumber string          `json:"reference_number" binding:"max=100"`
	Notes           string          `json:"notes"`
}

// UpdateCollectionRequest represents a request to update a collection.
// Changing the amount or the linked bill re-reconciles the ledger.
type UpdateCollectionRequest struct {
	SalesBillID     *uuid.UUID       `json:"sales_bill_id"`
	UnlinkBill      bool             `json:"unlink_bill"`
	CollectionDate  *time.Time       `json:"collection_date"`
	Amount          *decimal.Decimal `json:"amount"`
	PaymentMethod   *string          `json:"payment_method" binding:"omitempty,oneof=cash cheque bank_transfer upi card other"`
	Status          *string          `json:"status" binding:"omitempty,oneof=pending cleared bounced cancelled"`
	ChequeNumber    *string          `json:"cheque_number" binding:"omitempty,max=50"`
	ChequeDate      *time.Time       `json:"cheque_date"`
	BankName        *string          `json:"bank_name" binding:"omitempty,max=200"`
	ReferenceNumber *string          `json:"reference_number" binding:"omitempty,max=100"`
	Notes           *string          `json:"notes"`
}

// CollectionResponse represents a collection in API responses
type CollectionResponse struct {
	ID               uuid.UUID       `json:"id"`
	CollectionNumber string          `json:"collection_number"`
	CustomerID       uuid.UUID       `json:"customer_id"`
	CustomerName     string          `json:"customer_name"`
	SalesBillID      *uuid.UUID      `json:"sales_bill_id,omitempty"`
	CollectionDate   time.Time       `json:"collection_date"`
	Amount           decimal.Decimal `json:"amount"`
	PaymentMethod    string          `json:"payment_method"`
	Status           string          `json:"status"`
	ChequeNumber     string          `json:"cheque_number,omitempty"`
	ChequeDate       *time.Time      `json:"cheque_date,omitempty"`
	BankName         string          `json:"bank_name,omitempty"`
	ReferenceNumber  string          `json:"reference_number,omitempty"`
	Notes            string          `json:"notes"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Version          int             `json:"version"`
}

// CollectionListFilter represents filter options for collection list
type CollectionListFilter struct {
	Search        string     `form:"search"`
	CustomerID    *uuid.UUID `form:"customer_id"`
	SalesBillID   *uuid.UUID `form:"sales_bill_id"`
	PaymentMethod string     `form:"payment_method" binding:"omitempty,oneof=cash cheque bank_transfer upi card other"`
	Status        string     `form:"status" binding:"omitempty,oneof=pending cleared bounced cancelled"`
	FromDate      *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate        *time.Time `form:"to_date" time_format:"2006-01-02"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToCollectionResponse converts a domain collection to a response DTO
func ToCollectionResponse(c *billing.CollectionBill) CollectionResponse {
	return CollectionResponse{
		ID:               c.ID,
		CollectionNumber: c.CollectionNumber,
		CustomerID:       c.CustomerID,
		CustomerName:     c.CustomerName,
		SalesBillID:      c.SalesBillID,
		CollectionDate:   c.CollectionDate,
		Amount:           c.Amount.Amount(),
		PaymentMethod:    string(c.PaymentMethod),
		Status:           string(c.Status),
		ChequeNumber:     c.Cheque.ChequeNumber,
		ChequeDate:       c.Cheque.ChequeDate,
		BankName:         c.Cheque.BankName,
		ReferenceNumber:  c.ReferenceNumber,
		Notes:            c.Notes,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
		Version:          c.Version,
	}
}

// ToCollectionResponses converts a slice of domain collections
func ToCollectionResponses(collections []billing.CollectionBill) []CollectionResponse {
	responses := make([]CollectionResponse, len(collections))
	for i := range collections {
		responses[i] = ToCollectionResponse(&collections[i])
	}
	return responses
}

// =============================================================================
// Report DTOs
// =============================================================================

// SummaryRangeFilter bounds a report to an inclusive date range
type SummaryRangeFilter struct {
	FromDate *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate   *time.Time `form:"to_date" time_format:"2006-01-02"`
}
