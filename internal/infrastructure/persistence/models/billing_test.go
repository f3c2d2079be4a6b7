package models

import (
	"reflect"
	"testing"
	"time"

	"github.com/billmate/backend/internal/domain/billing"
	"github.com/billmate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Storage defaults must agree with what the domain constructors produce,
// so rows written outside GORM start in the same state.
func TestModelDefaultsMatchDomain(t *testing.T) {
	t.Run("collection status defaults to pending", func(t *testing.T) {
		f, ok := reflect.TypeOf(CollectionBillModel{}).FieldByName("Status")
		require.True(t, ok)
		assert.Contains(t, f.Tag.Get("gorm"), "default:'pending'")
	})

	t.Run("customer status defaults to active", func(t *testing.T) {
		f, ok := reflect.TypeOf(CustomerModel{}).FieldByName("Status")
		require.True(t, ok)
		assert.Contains(t, f.Tag.Get("gorm"), "default:'active'")
	})

	t.Run("bill statuses default to pending and draft", func(t *testing.T) {
		f, ok := reflect.TypeOf(SalesBillModel{}).FieldByName("PaymentStatus")
		require.True(t, ok)
		assert.Contains(t, f.Tag.Get("gorm"), "default:'pending'")

		f, ok = reflect.TypeOf(SalesBillModel{}).FieldByName("BillStatus")
		require.True(t, ok)
		assert.Contains(t, f.Tag.Get("gorm"), "default:'draft'")
	})
}

func TestCollectionBillModel_RoundTrip(t *testing.T) {
	billID := uuid.New()
	collection, err := billing.NewCollectionBill("RCP0007", uuid.New(), "Sharma Traders",
		&billID, time.Now(), valueobject.NewMoneyINR(decimal.NewFromInt(5000)), billing.PaymentMethodCash)
	require.NoError(t, err)

	var model CollectionBillModel
	model.FromDomain(collection)
	assert.Equal(t, billing.CollectionStatusPending, model.Status)

	restored := model.ToDomain()
	assert.Equal(t, collection.ID, restored.ID)
	assert.Equal(t, billing.CollectionStatusPending, restored.Status)
	assert.True(t, restored.Amount.Amount().Equal(decimal.NewFromInt(5000)))
}
