package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/billmate/backend/internal/domain/billing"
	"github.com/billmate/backend/internal/domain/shared"
	"github.com/billmate/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSalesBillRepository implements billing.SalesBillRepository using GORM
type GormSalesBillRepository struct {
	db *gorm.DB
}

// NewGormSalesBillRepository creates a new GormSalesBillRepository
func NewGormSalesBillRepository(db *gorm.DB) *GormSalesBillRepository {
	return &GormSalesBillRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *GormSalesBillRepository) WithTx(tx *gorm.DB) *GormSalesBillRepository {
	return &GormSalesBillRepository{db: tx}
}

// FindByID finds a sales bill by ID with its items
func (r *GormSalesBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.SalesBill, error) {
	var model models.SalesBillModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a sales bill by its bill number
func (r *GormSalesBillRepository) FindByNumber(ctx context.Context, billNumber string) (*billing.SalesBill, error) {
	var model models.SalesBillModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("bill_number = ?", billNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all sales bills matching the filter, items included
func (r *GormSalesBillRepository) FindAll(ctx context.Context, filter billing.SalesBillFilter) ([]billing.SalesBill, error) {
	var billModels []models.SalesBillModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SalesBillModel{}), filter)

	if err := query.Preload("Items").Find(&billModels).Error; err != nil {
		return nil, err
	}

	bills := make([]billing.SalesBill, len(billModels))
	for i := range billModels {
		bills[i] = *billModels[i].ToDomain()
	}
	return bills, nil
}

// Count counts sales bills matching the filter
func (r *GormSalesBillRepository) Count(ctx context.Context, filter billing.SalesBillFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.SalesBillModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a sales bill and its items in one transaction.
// Items that are no longer on the bill are deleted.
func (r *GormSalesBillRepository) Save(ctx context.Context, bill *billing.SalesBill) error {
	var model models.SalesBillModel
	model.FromDomain(bill)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		keep := make([]uuid.UUID, 0, len(model.Items))
		for _, item := range model.Items {
			keep = append(keep, item.ID)
		}

		itemQuery := tx.Where("bill_id = ?", model.ID)
		if len(keep) > 0 {
			itemQuery = itemQuery.Where("id NOT IN ?", keep)
		}
		if err := itemQuery.Delete(&models.LineItemModel{}).Error; err != nil {
			return err
		}

		return tx.Save(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// SaveWithLock saves a sales bill with optimistic locking (version check).
// Items are reconciled only when the version guard passes.
func (r *GormSalesBillRepository) SaveWithLock(ctx context.Context, bill *billing.SalesBill) error {
	var model models.SalesBillModel
	model.FromDomain(bill)
	items := model.Items
	model.Items = nil

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model).
			Where("id = ? AND version = ?", bill.ID, bill.Version-1).
			Updates(&model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrentModification
		}

		keep := make([]uuid.UUID, 0, len(items))
		for _, item := range items {
			keep = append(keep, item.ID)
		}
		itemQuery := tx.Where("bill_id = ?", model.ID)
		if len(keep) > 0 {
			itemQuery = itemQuery.Where("id NOT IN ?", keep)
		}
		if err := itemQuery.Delete(&models.LineItemModel{}).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Save(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a sales bill; items go with it via the cascade constraint
func (r *GormSalesBillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bill_id = ?", id).Delete(&models.LineItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.SalesBillModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// NextNumber generates the next sequential bill number for the prefix.
// The scan is string-ordered, so numbers keep a fixed zero-padded width.
func (r *GormSalesBillRepository) NextNumber(ctx context.Context, prefix string) (string, error) {
	var last string
	err := r.db.WithContext(ctx).
		Model(&models.SalesBillModel{}).
		Select("bill_number").
		Where("bill_number LIKE ?", prefix+"%").
		Order("bill_number DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return "", err
	}
	return nextInSequence(prefix, last)
}

// GetSalesSummary aggregates bills over an inclusive date range
func (r *GormSalesBillRepository) GetSalesSummary(ctx context.Context, from, to *time.Time) (*billing.SalesSummary, error) {
	type row struct {
		PaymentStatus billing.PaymentStatus
		Count         int64
		TotalAmount   decimal.Decimal
		PaidAmount    decimal.Decimal
		BalanceAmount decimal.Decimal
	}

	query := r.db.WithContext(ctx).Model(&models.SalesBillModel{})
	query = applyDateRange(query, "bill_date", from, to)

	var rows []row
	err := query.
		Select("payment_status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total_amount, COALESCE(SUM(paid_amount), 0) AS paid_amount, COALESCE(SUM(balance_amount), 0) AS balance_amount").
		Group("payment_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := &billing.SalesSummary{
		TotalAmount:     decimal.Zero,
		PaidAmount:      decimal.Zero,
		BalanceAmount:   decimal.Zero,
		ByPaymentStatus: make(map[billing.PaymentStatus]billing.SummaryBucket, len(rows)),
	}
	for _, rw := range rows {
		summary.BillCount += rw.Count
		summary.TotalAmount = summary.TotalAmount.Add(rw.TotalAmount)
		summary.PaidAmount = summary.PaidAmount.Add(rw.PaidAmount)
		summary.BalanceAmount = summary.BalanceAmount.Add(rw.BalanceAmount)
		summary.ByPaymentStatus[rw.PaymentStatus] = billing.SummaryBucket{
			Count:  rw.Count,
			Amount: rw.TotalAmount,
		}
	}
	return summary, nil
}

// CountByCustomer counts bills referencing a customer
func (r *GormSalesBillRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SalesBillModel{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormSalesBillRepository) applyFilter(query *gorm.DB, filter billing.SalesBillFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, SalesBillSortFields, "bill_date")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("bill_date DESC, bill_number DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSalesBillRepository) applyFilterWithoutPagination(query *gorm.DB, filter billing.SalesBillFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("bill_number ILIKE ? OR customer_name ILIKE ?", searchPattern, searchPattern)
	}

	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filter.PaymentStatus)
	}
	if filter.BillStatus != nil {
		query = query.Where("bill_status = ?", *filter.BillStatus)
	}
	query = applyDateRange(query, "bill_date", filter.FromDate, filter.ToDate)
	if filter.DueBefore != nil {
		query = query.Where("due_date IS NOT NULL AND due_date < ?", *filter.DueBefore)
	}
	if filter.MinBalance != nil {
		query = query.Where("balance_amount >= ?", *filter.MinBalance)
	}

	return query
}

// nextInSequence increments the numeric suffix of the last number, or starts
// the sequence at 1 when no number exists yet
func nextInSequence(prefix, last string) (string, error) {
	seq := 0
	if last != "" {
		if _, err := fmt.Sscanf(strings.TrimPrefix(last, prefix), "%d", &seq); err != nil {
			return "", fmt.Errorf("malformed document number %q: %w", last, err)
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq+1), nil
}

// applyDateRange constrains a date column to an inclusive range; nil bounds
// leave that side open
func applyDateRange(query *gorm.DB, column string, from, to *time.Time) *gorm.DB {
	if from != nil {
		query = query.Where(column+" >= ?", *from)
	}
	if to != nil {
		query = query.Where(column+" <= ?", *to)
	}
	return query
}

// Ensure GormSalesBillRepository implements SalesBillRepository
var _ billing.SalesBillRepository = (*GormSalesBillRepository)(nil)
