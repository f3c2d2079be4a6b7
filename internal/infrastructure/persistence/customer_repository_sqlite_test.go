package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/billmate/backend/internal/domain/billing"
	"github.com/billmate/backend/internal/domain/shared"
	"github.com/billmate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// customerModelSQLite is a SQLite-compatible version of CustomerModel for testing
type customerModelSQLite struct {
	ID                 string `gorm:"primaryKey"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Version            int             `gorm:"not null;default:1"`
	Name               string          `gorm:"not null"`
	CustomerCode       string          `gorm:"index"`
	Phone              string
	Email              string
	Address            string
	City               string
	State              string
	Pincode            string
	GSTNumber          string
	CreditLimit        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	OutstandingBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Status             string          `gorm:"not null;default:'active'"`
	Notes              string
}

func (customerModelSQLite) TableName() string {
	return "customers"
}

func setupCustomerTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&customerModelSQLite{})
	require.NoError(t, err)

	return db
}

func TestGormCustomerRepository_RoundTrip(t *testing.T) {
	db := setupCustomerTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	t.Run("saves and finds a customer by id", func(t *testing.T) {
		customer, err := billing.NewCustomer("Sharma Traders")
		require.NoError(t, err)
		customer.CustomerCode = "CUST-0001"
		customer.Phone = "9876543210"
		customer.City = "Pune"
		require.NoError(t, customer.SetCreditLimit(valueobject.NewMoneyINR(decimal.NewFromInt(50000))))

		err = repo.Save(ctx, customer)
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, customer.ID, found.ID)
		assert.Equal(t, "Sharma Traders", found.Name)
		assert.Equal(t, "CUST-0001", found.CustomerCode)
		assert.Equal(t, billing.CustomerStatusActive, found.Status)
		assert.True(t, found.CreditLimit.Amount().Equal(decimal.NewFromInt(50000)))
		assert.True(t, found.OutstandingBalance.IsZero())
	})

	t.Run("finds by code regardless of case", func(t *testing.T) {
		customer, err := billing.NewCustomer("Gupta Electricals")
		require.NoError(t, err)
		customer.CustomerCode = "CUST-0002"
		require.NoError(t, repo.Save(ctx, customer))

		found, err := repo.FindByCode(ctx, "cust-0002")
		require.NoError(t, err)
		assert.Equal(t, customer.ID, found.ID)
	})

	t.Run("returns not found for unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormCustomerRepository_OptimisticLocking(t *testing.T) {
	db := setupCustomerTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	customer, err := billing.NewCustomer("Verma Hardware")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, customer))

	t.Run("save with lock succeeds on matching version", func(t *testing.T) {
		require.NoError(t, customer.ChangeStatus(billing.CustomerStatusInactive))

		err := repo.SaveWithLock(ctx, customer)
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, billing.CustomerStatusInactive, found.Status)
		assert.Equal(t, customer.Version, found.Version)
	})

	t.Run("save with lock fails on stale version", func(t *testing.T) {
		stale, err := repo.FindByID(ctx, customer.ID)
		require.NoError(t, err)

		// Another writer bumps the version first.
		require.NoError(t, customer.ChangeStatus(billing.CustomerStatusActive))
		require.NoError(t, repo.SaveWithLock(ctx, customer))

		require.NoError(t, stale.ChangeStatus(billing.CustomerStatusInactive))
		err = repo.SaveWithLock(ctx, stale)
		assert.ErrorIs(t, err, shared.ErrConcurrentModification)
	})
}

func TestGormCustomerRepository_FilterAndDelete(t *testing.T) {
	db := setupCustomerTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	active, err := billing.NewCustomer("Active Stores")
	require.NoError(t, err)
	active.City = "Mumbai"
	require.NoError(t, repo.Save(ctx, active))

	inactive, err := billing.NewCustomer("Closed Stores")
	require.NoError(t, err)
	require.NoError(t, inactive.ChangeStatus(billing.CustomerStatusInactive))
	require.NoError(t, repo.Save(ctx, inactive))

	t.Run("filters by status", func(t *testing.T) {
		status := billing.CustomerStatusActive
		customers, err := repo.FindAll(ctx, billing.CustomerFilter{Status: &status})
		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.Equal(t, "Active Stores", customers[0].Name)

		count, err := repo.Count(ctx, billing.CustomerFilter{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("filters by city", func(t *testing.T) {
		city := "Mumbai"
		customers, err := repo.FindAll(ctx, billing.CustomerFilter{City: &city})
		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.Equal(t, active.ID, customers[0].ID)
	})

	t.Run("deletes an existing customer", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, inactive.ID))

		_, err := repo.FindByID(ctx, inactive.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("delete of missing customer reports not found", func(t *testing.T) {
		err := repo.Delete(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
