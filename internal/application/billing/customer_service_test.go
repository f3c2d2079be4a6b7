package billing

import (
	"context"
	"testing"

	"github.com/billmate/backend/internal/domain/billing"
	"github.com/billmate/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCustomerService() (*CustomerService, *MockCustomerRepository, *MockSalesBillRepository) {
	customers := new(MockCustomerRepository)
	bills := new(MockSalesBillRepository)
	return NewCustomerService(customers, bills), customers, bills
}

func TestCustomerService_Create(t *testing.T) {
	t.Run("creates customer with uppercased code", func(t *testing.T) {
		service, customers, _ := newCustomerService()

		customers.On("FindByCode", mock.Anything, "cust001").Return(nil, shared.ErrNotFound)
		customers.On("Save", mock.Anything, mock.AnythingOfType("*billing.Customer")).Return(nil)

		creditLimit := decimal.NewFromInt(50000)
		response, err := service.Create(context.Background(), CreateCustomerRequest{
			Name:         "Sharma Traders",
			CustomerCode: "cust001",
			Phone:        "9876543210",
			City:         "Mumbai",
			GSTNumber:    "27AAPFU0939F1ZV",
			CreditLimit:  &creditLimit,
		})

		require.NoError(t, err)
		assert.Equal(t, "CUST001", response.CustomerCode)
		assert.Equal(t, "active", response.Status)
		assert.True(t, response.CreditLimit.Equal(creditLimit))
		assert.True(t, response.OutstandingBalance.IsZero())
		customers.AssertExpectations(t)
	})

	t.Run("rejects duplicate customer code", func(t *testing.T) {
		service, customers, _ := newCustomerService()

		existing, err := billing.NewCustomer("Existing")
		require.NoError(t, err)
		customers.On("FindByCode", mock.Anything, "CUST001").Return(existing, nil)

		_, err = service.Create(context.Background(), CreateCustomerRequest{
			Name:         "Sharma Traders",
			CustomerCode: "CUST001",
		})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		customers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		service, _, _ := newCustomerService()

		_, err := service.Create(context.Background(), CreateCustomerRequest{Name: ""})

		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestCustomerService_Update(t *testing.T) {
	t.Run("updates only the provided fields", func(t *testing.T) {
		service, customers, _ := newCustomerService()

		customer, err := billing.NewCustomer("Sharma Traders")
		require.NoError(t, err)
		require.NoError(t, customer.UpdateDetails("Sharma Traders", "9876543210", "", "", "Mumbai", "", "", ""))

		customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
		customers.On("SaveWithLock", mock.Anything, customer).Return(nil)

		loadedVersion := customer.Version
		phone := "9123456789"
		response, err := service.Update(context.Background(), customer.ID, UpdateCustomerRequest{
			Phone: &phone,
		})

		require.NoError(t, err)
		assert.Equal(t, "9123456789", response.Phone)
		assert.Equal(t, "Sharma Traders", response.Name)
		assert.Equal(t, "Mumbai", response.City)
		assert.Equal(t, loadedVersion+1, customer.Version)
	})

	t.Run("fails when the row moved under the update", func(t *testing.T) {
		service, customers, _ := newCustomerService()

		customer, err := billing.NewCustomer("Sharma Traders")
		require.NoError(t, err)

		customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
		customers.On("SaveWithLock", mock.Anything, customer).Return(shared.ErrConcurrentModification)

		phone := "9123456789"
		_, err = service.Update(context.Background(), customer.ID, UpdateCustomerRequest{
			Phone: &phone,
		})

		assert.ErrorIs(t, err, shared.ErrConcurrentModification)
	})

	t.Run("changes status through the domain guard", func(t *testing.T) {
		service, customers, _ := newCustomerService()

		customer, err := billing.NewCustomer("Sharma Traders")
		require.NoError(t, err)
		customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)

		status := "suspended"
		_, err = service.Update(context.Background(), customer.ID, UpdateCustomerRequest{
			Status: &status,
		})

		assert.ErrorIs(t, err, shared.ErrValidation)
		customers.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_Delete(t *testing.T) {
	t.Run("deletes customer without bills", func(t *testing.T) {
		service, customers, bills := newCustomerService()
		customerID := uuid.New()

		bills.On("CountByCustomer", mock.Anything, customerID).Return(int64(0), nil)
		customers.On("Delete", mock.Anything, customerID).Return(nil)

		err := service.Delete(context.Background(), customerID)

		assert.NoError(t, err)
		customers.AssertExpectations(t)
	})

	t.Run("refuses to delete a customer with bills", func(t *testing.T) {
		service, customers, bills := newCustomerService()
		customerID := uuid.New()

		bills.On("CountByCustomer", mock.Anything, customerID).Return(int64(3), nil)

		err := service.Delete(context.Background(), customerID)

		assert.ErrorIs(t, err, shared.ErrDependencyExists)
		customers.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_List(t *testing.T) {
	t.Run("maps filters and paginates", func(t *testing.T) {
		service, customers, _ := newCustomerService()

		c1, err := billing.NewCustomer("Sharma Traders")
		require.NoError(t, err)
		c2, err := billing.NewCustomer("Sharma Textiles")
		require.NoError(t, err)

		customers.On("FindAll", mock.Anything, mock.MatchedBy(func(f billing.CustomerFilter) bool {
			return f.Search == "Sharma" && f.Status != nil && *f.Status == billing.CustomerStatusActive
		})).Return([]billing.Customer{*c1, *c2}, nil)
		customers.On("Count", mock.Anything, mock.Anything).Return(int64(42), nil)

		page, err := service.List(context.Background(), CustomerListFilter{
			Search:   "Sharma",
			Status:   "active",
			Page:     2,
			PageSize: 2,
		})

		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
		assert.Equal(t, int64(42), page.Total)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 21, page.TotalPages)
	})
}
