package billing

import (
	"context"
	"time"

	"github.com/billmate/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerFilter defines filtering options for customer queries
type CustomerFilter struct {
	shared.Filter
	Status *CustomerStatus // Filter by account status
	City   *string         // Filter by city
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByCode finds a customer by its unique customer code
	FindByCode(ctx context.Context, code string) (*Customer, error)

	// FindAll finds customers with filtering; search matches name, phone
	// and customer code with OR semantics
	FindAll(ctx context.Context, filter CustomerFilter) ([]Customer, error)

	// Count counts customers matching the filter (ignoring pagination)
	Count(ctx context.Context, filter CustomerFilter) (int64, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, customer *Customer) error

	// Delete removes a customer
	Delete(ctx context.Context, id uuid.UUID) error
}

// SalesBillFilter defines filtering options for sales bill queries
type SalesBillFilter struct {
	shared.Filter
	CustomerID    *uuid.UUID     // Filter by customer
	PaymentStatus *PaymentStatus // Filter by payment status
	BillStatus    *BillStatus    // Filter by document status
	FromDate      *time.Time     // Bill date range start (inclusive)
	ToDate        *time.Time     // Bill date range end (inclusive)
	DueBefore     *time.Time     // Bills due before this instant
	MinBalance    *decimal.Decimal
}

// SalesSummary aggregates sales bills over an optional date range
type SalesSummary struct {
	BillCount       int64                           `json:"bill_count"`
	TotalAmount     decimal.Decimal                 `json:"total_amount"`
	PaidAmount      decimal.Decimal                 `json:"paid_amount"`
	BalanceAmount   decimal.Decimal                 `json:"balance_amount"`
	ByPaymentStatus map[PaymentStatus]SummaryBucket `json:"by_payment_status"`
}

// CollectionSummary aggregates collections over an optional date range
type CollectionSummary struct {
	CollectionCount int64                              `json:"collection_count"`
	TotalAmount     decimal.Decimal                    `json:"total_amount"`
	ByMethod        map[PaymentMethod]SummaryBucket    `json:"by_method"`
	ByStatus        map[CollectionStatus]SummaryBucket `json:"by_status"`
}

// SummaryBucket is one group of a summary aggregation
type SummaryBucket struct {
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// SalesBillRepository defines the interface for sales bill persistence
type SalesBillRepository interface {
	// FindByID finds a sales bill by ID, items included
	FindByID(ctx context.Context, id uuid.UUID) (*SalesBill, error)

	// FindByNumber finds a sales bill by its unique bill number
	FindByNumber(ctx context.Context, billNumber string) (*SalesBill, error)

	// FindAll finds sales bills with filtering; search matches bill number
	// and customer name with OR semantics
	FindAll(ctx context.Context, filter SalesBillFilter) ([]SalesBill, error)

	// Count counts sales bills matching the filter (ignoring pagination)
	Count(ctx context.Context, filter SalesBillFilter) (int64, error)

	// Save creates or updates a sales bill and its items atomically.
	// Items no longer on the bill are removed.
	Save(ctx context.Context, bill *SalesBill) error

	// SaveWithLock saves with optimistic locking: the update only applies
	// when the stored version matches the version the bill was loaded at,
	// otherwise shared.ErrConcurrentModification is returned
	SaveWithLock(ctx context.Context, bill *SalesBill) error

	// Delete removes a sales bill and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// NextNumber generates the next bill number for the prefix from the
	// greatest existing number. Collisions under concurrency are caught by
	// the unique constraint on the number column.
	NextNumber(ctx context.Context, prefix string) (string, error)

	// GetSalesSummary aggregates bills over an inclusive date range;
	// nil bounds leave the range open
	GetSalesSummary(ctx context.Context, from, to *time.Time) (*SalesSummary, error)

	// CountByCustomer counts bills referencing a customer
	CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
}

// CollectionBillFilter defines filtering options for collection queries
type CollectionBillFilter struct {
	shared.Filter
	CustomerID    *uuid.UUID        // Filter by customer
	SalesBillID   *uuid.UUID        // Filter by linked bill
	PaymentMethod *PaymentMethod    // Filter by method
	Status        *CollectionStatus // Filter by clearing status
	FromDate      *time.Time        // Collection date range start (inclusive)
	ToDate        *time.Time        // Collection date range end (inclusive)
}

// CollectionBillRepository defines the interface for collection persistence
type CollectionBillRepository interface {
	// FindByID finds a collection by ID
	FindByID(ctx context.Context, id uuid.UUID) (*CollectionBill, error)

	// FindByNumber finds a collection by its unique collection number
	FindByNumber(ctx context.Context, collectionNumber string) (*CollectionBill, error)

	// FindAll finds collections with filtering; search matches collection
	// number, reference number and customer name with OR semantics
	FindAll(ctx context.Context, filter CollectionBillFilter) ([]CollectionBill, error)

	// Count counts collections matching the filter (ignoring pagination)
	Count(ctx context.Context, filter CollectionBillFilter) (int64, error)

	// Save creates or updates a collection
	Save(ctx context.Context, collection *CollectionBill) error

	// Delete removes a collection
	Delete(ctx context.Context, id uuid.UUID) error

	// NextNumber generates the next collection number for the prefix
	NextNumber(ctx context.Context, prefix string) (string, error)

	// GetCollectionSummary aggregates collections over an inclusive date
	// range; nil bounds leave the range open
	GetCollectionSummary(ctx context.Context, from, to *time.Time) (*CollectionSummary, error)

	// CountByBill counts collections referencing a sales bill
	CountByBill(ctx context.Context, salesBillID uuid.UUID) (int64, error)

	// SumByBill sums collection amounts referencing a sales bill
	SumByBill(ctx context.Context, salesBillID uuid.UUID) (decimal.Decimal, error)
}

// TxRepositories bundles repositories bound to one database transaction.
// Everything done through them commits or rolls back as a unit.
type TxRepositories struct {
	Customers   CustomerRepository
	SalesBills  SalesBillRepository
	Collections CollectionBillRepository
}

// UnitOfWork executes a function against transaction-scoped repositories.
// The reconciler uses it for every mutation touching more than one
// aggregate: a returned error rolls back all writes.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(repos TxRepositories) error) error
}
