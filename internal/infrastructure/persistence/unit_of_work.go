package persistence

import (
	"context"

	"github.com/billmate/backend/internal/domain/billing"
	"gorm.io/gorm"
)

// GormUnitOfWork implements billing.UnitOfWork over a database transaction.
// Repositories handed to the callback share one transaction, so writes to
// bills, collections and customer balances commit or roll back together.
type GormUnitOfWork struct {
	database *Database
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(database *Database) *GormUnitOfWork {
	return &GormUnitOfWork{database: database}
}

// Execute runs fn against transaction-scoped repositories. A returned error
// rolls back every write made through them.
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(repos billing.TxRepositories) error) error {
	return u.database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(billing.TxRepositories{
			Customers:   NewGormCustomerRepository(tx),
			SalesBills:  NewGormSalesBillRepository(tx),
			Collections: NewGormCollectionBillRepository(tx),
		})
	})
}

// Ensure GormUnitOfWork implements UnitOfWork
var _ billing.UnitOfWork = (*GormUnitOfWork)(nil)
