package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/billmate/backend/internal/domain/billing"
	"github.com/billmate/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMockCollectionBillRepository(t *testing.T) (*GormCollectionBillRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormCollectionBillRepository(gormDB), mock, mockDB
}

func TestGormCollectionBillRepository_FindByID(t *testing.T) {
	t.Run("finds existing collection", func(t *testing.T) {
		repo, mock, mockDB := newMockCollectionBillRepository(t)
		defer mockDB.Close()

		collectionID := uuid.New()
		billID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "collection_number", "customer_id", "customer_name", "sales_bill_id", "collection_date", "amount", "payment_method", "status", "version"}).
			AddRow(collectionID, "RCP0001", uuid.New(), "Sharma Traders", billID, time.Now(), decimal.NewFromInt(5000), "upi", "cleared", 1)

		mock.ExpectQuery(`SELECT \* FROM "collection_bills" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(collectionID, 1).
			WillReturnRows(rows)

		collection, err := repo.FindByID(context.Background(), collectionID)

		assert.NoError(t, err)
		require.NotNil(t, collection)
		assert.Equal(t, "RCP0001", collection.CollectionNumber)
		require.NotNil(t, collection.SalesBillID)
		assert.Equal(t, billID, *collection.SalesBillID)
		assert.Equal(t, billing.PaymentMethodUPI, collection.PaymentMethod)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing collection", func(t *testing.T) {
		repo, mock, mockDB := newMockCollectionBillRepository(t)
		defer mockDB.Close()

		collectionID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "collection_bills" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(collectionID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		collection, err := repo.FindByID(context.Background(), collectionID)

		assert.Nil(t, collection)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCollectionBillRepository_NextNumber(t *testing.T) {
	t.Run("increments greatest existing number", func(t *testing.T) {
		repo, mock, mockDB := newMockCollectionBillRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT "collection_number" FROM "collection_bills" WHERE collection_number LIKE \$1 ORDER BY collection_number DESC LIMIT .*`).
			WithArgs("RCP%", 1).
			WillReturnRows(sqlmock.NewRows([]string{"collection_number"}).AddRow("RCP0012"))

		number, err := repo.NextNumber(context.Background(), "RCP")

		assert.NoError(t, err)
		assert.Equal(t, "RCP0013", number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCollectionBillRepository_SumByBill(t *testing.T) {
	t.Run("sums amounts for the linked bill", func(t *testing.T) {
		repo, mock, mockDB := newMockCollectionBillRepository(t)
		defer mockDB.Close()

		billID := uuid.New()
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "collection_bills" WHERE sales_bill_id = \$1`).
			WithArgs(billID).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(decimal.NewFromInt(6300)))

		total, err := repo.SumByBill(context.Background(), billID)

		assert.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(6300)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCollectionBillRepository_GetCollectionSummary(t *testing.T) {
	t.Run("buckets by method and status", func(t *testing.T) {
		repo, mock, mockDB := newMockCollectionBillRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"payment_method", "status", "count", "total_amount"}).
			AddRow("cash", "cleared", 2, decimal.NewFromInt(3000)).
			AddRow("cheque", "pending", 1, decimal.NewFromInt(4500)).
			AddRow("cheque", "cleared", 1, decimal.NewFromInt(1500))

		mock.ExpectQuery(`SELECT payment_method, status, COUNT\(\*\) AS count, .* FROM "collection_bills" GROUP BY payment_method, status`).
			WillReturnRows(rows)

		summary, err := repo.GetCollectionSummary(context.Background(), nil, nil)

		assert.NoError(t, err)
		require.NotNil(t, summary)
		assert.Equal(t, int64(4), summary.CollectionCount)
		assert.True(t, summary.TotalAmount.Equal(decimal.NewFromInt(9000)))
		assert.Equal(t, int64(2), summary.ByMethod[billing.PaymentMethodCheque].Count)
		assert.True(t, summary.ByMethod[billing.PaymentMethodCheque].Amount.Equal(decimal.NewFromInt(6000)))
		assert.Equal(t, int64(3), summary.ByStatus[billing.CollectionStatusCleared].Count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCollectionBillRepository_CountByBill(t *testing.T) {
	t.Run("counts collections referencing a bill", func(t *testing.T) {
		repo, mock, mockDB := newMockCollectionBillRepository(t)
		defer mockDB.Close()

		billID := uuid.New()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "collection_bills" WHERE sales_bill_id = \$1`).
			WithArgs(billID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		count, err := repo.CountByBill(context.Background(), billID)

		assert.NoError(t, err)
		assert.Equal(t, int64(2), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
