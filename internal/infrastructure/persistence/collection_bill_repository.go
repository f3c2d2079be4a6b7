package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/billmate/backend/internal/domain/billing"
	"github.com/billmate/backend/internal/domain/shared"
	"github.com/billmate/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCollectionBillRepository implements billing.CollectionBillRepository using GORM
type GormCollectionBillRepository struct {
	db *gorm.DB
}

// NewGormCollectionBillRepository creates a new GormCollectionBillRepository
func NewGormCollectionBillRepository(db *gorm.DB) *GormCollectionBillRepository {
	return &GormCollectionBillRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *GormCollectionBillRepository) WithTx(tx *gorm.DB) *GormCollectionBillRepository {
	return &GormCollectionBillRepository{db: tx}
}

// FindByID finds a collection by ID
func (r *GormCollectionBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.CollectionBill, error) {
	var model models.CollectionBillModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a collection by its collection number
func (r *GormCollectionBillRepository) FindByNumber(ctx context.Context, collectionNumber string) (*billing.CollectionBill, error) {
	var model models.CollectionBillModel
	if err := r.db.WithContext(ctx).
		Where("collection_number = ?", collectionNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all collections matching the filter
func (r *GormCollectionBillRepository) FindAll(ctx context.Context, filter billing.CollectionBillFilter) ([]billing.CollectionBill, error) {
	var collectionModels []models.CollectionBillModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CollectionBillModel{}), filter)

	if err := query.Find(&collectionModels).Error; err != nil {
		return nil, err
	}

	collections := make([]billing.CollectionBill, len(collectionModels))
	for i := range collectionModels {
		collections[i] = *collectionModels[i].ToDomain()
	}
	return collections, nil
}

// Count counts collections matching the filter
func (r *GormCollectionBillRepository) Count(ctx context.Context, filter billing.CollectionBillFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.CollectionBillModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a collection
func (r *GormCollectionBillRepository) Save(ctx context.Context, collection *billing.CollectionBill) error {
	var model models.CollectionBillModel
	model.FromDomain(collection)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete removes a collection
func (r *GormCollectionBillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CollectionBillModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// NextNumber generates the next sequential collection number for the prefix
func (r *GormCollectionBillRepository) NextNumber(ctx context.Context, prefix string) (string, error) {
	var last string
	err := r.db.WithContext(ctx).
		Model(&models.CollectionBillModel{}).
		Select("collection_number").
		Where("collection_number LIKE ?", prefix+"%").
		Order("collection_number DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return "", err
	}
	return nextInSequence(prefix, last)
}

// GetCollectionSummary aggregates collections over an inclusive date range
func (r *GormCollectionBillRepository) GetCollectionSummary(ctx context.Context, from, to *time.Time) (*billing.CollectionSummary, error) {
	type row struct {
		PaymentMethod billing.PaymentMethod
		Status        billing.CollectionStatus
		Count         int64
		TotalAmount   decimal.Decimal
	}

	query := r.db.WithContext(ctx).Model(&models.CollectionBillModel{})
	query = applyDateRange(query, "collection_date", from, to)

	var rows []row
	err := query.
		Select("payment_method, status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total_amount").
		Group("payment_method, status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := &billing.CollectionSummary{
		TotalAmount: decimal.Zero,
		ByMethod:    make(map[billing.PaymentMethod]billing.SummaryBucket),
		ByStatus:    make(map[billing.CollectionStatus]billing.SummaryBucket),
	}
	for _, rw := range rows {
		summary.CollectionCount += rw.Count
		summary.TotalAmount = summary.TotalAmount.Add(rw.TotalAmount)

		method := summary.ByMethod[rw.PaymentMethod]
		method.Count += rw.Count
		method.Amount = method.Amount.Add(rw.TotalAmount)
		summary.ByMethod[rw.PaymentMethod] = method

		status := summary.ByStatus[rw.Status]
		status.Count += rw.Count
		status.Amount = status.Amount.Add(rw.TotalAmount)
		summary.ByStatus[rw.Status] = status
	}
	return summary, nil
}

// CountByBill counts collections referencing a sales bill
func (r *GormCollectionBillRepository) CountByBill(ctx context.Context, salesBillID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CollectionBillModel{}).
		Where("sales_bill_id = ?", salesBillID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumByBill sums collection amounts referencing a sales bill
func (r *GormCollectionBillRepository) SumByBill(ctx context.Context, salesBillID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.CollectionBillModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("sales_bill_id = ?", salesBillID).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// applyFilter applies filter options to the query
func (r *GormCollectionBillRepository) applyFilter(query *gorm.DB, filter billing.CollectionBillFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, CollectionBillSortFields, "collection_date")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("collection_date DESC, collection_number DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCollectionBillRepository) applyFilterWithoutPagination(query *gorm.DB, filter billing.CollectionBillFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("collection_number ILIKE ? OR reference_number ILIKE ? OR customer_name ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.SalesBillID != nil {
		query = query.Where("sales_bill_id = ?", *filter.SalesBillID)
	}
	if filter.PaymentMethod != nil {
		query = query.Where("payment_method = ?", *filter.PaymentMethod)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	query = applyDateRange(query, "collection_date", filter.FromDate, filter.ToDate)

	return query
}

// Ensure GormCollectionBillRepository implements CollectionBillRepository
var _ billing.CollectionBillRepository = (*GormCollectionBillRepository)(nil)
