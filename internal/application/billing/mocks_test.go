package billing

import (
	"context"
	"time"

	"github.com/billmate/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByCode(ctx context.Context, code string) (*billing.Customer, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter billing.CustomerFilter) ([]billing.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter billing.CustomerFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *billing.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) SaveWithLock(ctx context.Context, customer *billing.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSalesBillRepository is a mock implementation of SalesBillRepository
type MockSalesBillRepository struct {
	mock.Mock
}

func (m *MockSalesBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.SalesBill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.SalesBill), args.Error(1)
}

func (m *MockSalesBillRepository) FindByNumber(ctx context.Context, billNumber string) (*billing.SalesBill, error) {
	args := m.Called(ctx, billNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.SalesBill), args.Error(1)
}

func (m *MockSalesBillRepository) FindAll(ctx context.Context, filter billing.SalesBillFilter) ([]billing.SalesBill, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.SalesBill), args.Error(1)
}

func (m *MockSalesBillRepository) Count(ctx context.Context, filter billing.SalesBillFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSalesBillRepository) Save(ctx context.Context, bill *billing.SalesBill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockSalesBillRepository) SaveWithLock(ctx context.Context, bill *billing.SalesBill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockSalesBillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSalesBillRepository) NextNumber(ctx context.Context, prefix string) (string, error) {
	args := m.Called(ctx, prefix)
	return args.String(0), args.Error(1)
}

func (m *MockSalesBillRepository) GetSalesSummary(ctx context.Context, from, to *time.Time) (*billing.SalesSummary, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.SalesSummary), args.Error(1)
}

func (m *MockSalesBillRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockCollectionBillRepository is a mock implementation of CollectionBillRepository
type MockCollectionBillRepository struct {
	mock.Mock
}

func (m *MockCollectionBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.CollectionBill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.CollectionBill), args.Error(1)
}

func (m *MockCollectionBillRepository) FindByNumber(ctx context.Context, collectionNumber string) (*billing.CollectionBill, error) {
	args := m.Called(ctx, collectionNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.CollectionBill), args.Error(1)
}

func (m *MockCollectionBillRepository) FindAll(ctx context.Context, filter billing.CollectionBillFilter) ([]billing.CollectionBill, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.CollectionBill), args.Error(1)
}

func (m *MockCollectionBillRepository) Count(ctx context.Context, filter billing.CollectionBillFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCollectionBillRepository) Save(ctx context.Context, collection *billing.CollectionBill) error {
	args := m.Called(ctx, collection)
	return args.Error(0)
}

func (m *MockCollectionBillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCollectionBillRepository) NextNumber(ctx context.Context, prefix string) (string, error) {
	args := m.Called(ctx, prefix)
	return args.String(0), args.Error(1)
}

func (m *MockCollectionBillRepository) GetCollectionSummary(ctx context.Context, from, to *time.Time) (*billing.CollectionSummary, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.CollectionSummary), args.Error(1)
}

func (m *MockCollectionBillRepository) CountByBill(ctx context.Context, salesBillID uuid.UUID) (int64, error) {
	args := m.Called(ctx, salesBillID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCollectionBillRepository) SumByBill(ctx context.Context, salesBillID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, salesBillID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// =============================================================================
// Unit of work stub
// =============================================================================

// stubUnitOfWork passes the configured repositories straight to the
// callback; the transaction boundary itself is covered by the persistence
// tests.
type stubUnitOfWork struct {
	repos billing.TxRepositories
}

func (u *stubUnitOfWork) Execute(_ context.Context, fn func(repos billing.TxRepositories) error) error {
	return fn(u.repos)
}

// stubInvalidator counts summary invalidations
type stubInvalidator struct {
	calls int
}

func (s *stubInvalidator) InvalidateSummaries(context.Context) {
	s.calls++
}
