package billing

import (
	"context"
	"time"

	"github.com/billmate/backend/internal/domain/billing"
	"github.com/billmate/backend/internal/domain/shared"
	"github.com/billmate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BillNumberPrefix prefixes generated sales bill numbers
const BillNumberPrefix = "INV"

// SummaryInvalidator drops cached report summaries after ledger writes
type SummaryInvalidator interface {
	InvalidateSummaries(ctx context.Context)
}

// SalesBillService handles sales bill business operations. Mutations run
// through the unit of work so the bill and the customer's outstanding
// balance mirror move together.
type SalesBillService struct {
	salesBillRepo  billing.SalesBillRepository
	collectionRepo billing.CollectionBillRepository
	customerRepo   billing.CustomerRepository
	uow            billing.UnitOfWork
	invalidator    SummaryInvalidator
	logger         *zap.Logger
}

// NewSalesBillService creates a new SalesBillService
func NewSalesBillService(
	salesBillRepo billing.SalesBillRepository,
	collectionRepo billing.CollectionBillRepository,
	customerRepo billing.CustomerRepository,
	uow billing.UnitOfWork,
	invalidator SummaryInvalidator,
	logger *zap.Logger,
) *SalesBillService {
	return &SalesBillService{
		salesBillRepo:  salesBillRepo,
		collectionRepo: collectionRepo,
		customerRepo:   customerRepo,
		uow:            uow,
		invalidator:    invalidator,
		logger:         logger,
	}
}

// Create prices and persists a new bill. The bill number is assigned from
// the sequence inside the transaction; a concurrent duplicate is caught by
// the unique constraint.
func (s *SalesBillService) Create(ctx context.Context, req CreateSalesBillRequest) (*SalesBillResponse, error) {
	var response SalesBillResponse
	err := s.uow.Execute(ctx, func(repos billing.TxRepositories) error {
		customer, err := repos.Customers.FindByID(ctx, req.CustomerID)
		if err != nil {
			return err
		}
		if !customer.IsActive() {
			return shared.ErrBusinessRuleViolation.WithDetails("Customer is " + string(customer.Status))
		}

		billNumber, err := repos.SalesBills.NextNumber(ctx, BillNumberPrefix)
		if err != nil {
			return err
		}

		bill, err := billing.NewSalesBill(billNumber, customer.ID, customer.Name, req.BillDate, req.DueDate)
		if err != nil {
			return err
		}
		for _, item := range req.Items {
			if _, err := bill.AddItem(item.ItemName, item.Unit, item.Quantity,
				valueobject.NewMoneyINR(item.Rate), item.TaxRate, item.DiscountRate); err != nil {
				return err
			}
		}
		bill.SetNotes(req.Notes)

		if err := repos.SalesBills.Save(ctx, bill); err != nil {
			return err
		}

		customer.AdjustOutstanding(bill.BalanceAmount)
		if err := repos.Customers.SaveWithLock(ctx, customer); err != nil {
			return err
		}

		s.logger.Info("sales bill created",
			zap.String("bill_number", bill.BillNumber),
			zap.String("customer_id", customer.ID.String()),
			zap.String("total", bill.TotalAmount.StringFixed(2)))

		response = ToSalesBillResponse(bill)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return &response, nil
}

// GetByID retrieves a bill by ID with its items
func (s *SalesBillService) GetByID(ctx context.Context, billID uuid.UUID) (*SalesBillResponse, error) {
	bill, err := s.salesBillRepo.FindByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	response := ToSalesBillResponse(bill)
	return &response, nil
}

// GetByNumber retrieves a bill by its bill number
func (s *SalesBillService) GetByNumber(ctx context.Context, billNumber string) (*SalesBillResponse, error) {
	bill, err := s.salesBillRepo.FindByNumber(ctx, billNumber)
	if err != nil {
		return nil, err
	}
	response := ToSalesBillResponse(bill)
	return &response, nil
}

// List retrieves bills with filtering and pagination
func (s *SalesBillService) List(ctx context.Context, filter SalesBillListFilter) (*shared.Paginated[SalesBillResponse], error) {
	domainFilter := billing.SalesBillFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		CustomerID: filter.CustomerID,
		FromDate:   filter.FromDate,
		ToDate:     filter.ToDate,
	}
	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = 20
	}
	if filter.PaymentStatus != "" {
		status := billing.PaymentStatus(filter.PaymentStatus)
		domainFilter.PaymentStatus = &status
	}
	if filter.BillStatus != "" {
		status := billing.BillStatus(filter.BillStatus)
		domainFilter.BillStatus = &status
	}

	bills, err := s.salesBillRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.salesBillRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToSalesBillResponses(bills), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Update edits a bill. An item list on the request replaces the bill's
// items; this is rejected once any collection has been applied.
func (s *SalesBillService) Update(ctx context.Context, billID uuid.UUID, req UpdateSalesBillRequest) (*SalesBillResponse, error) {
	var response SalesBillResponse
	err := s.uow.Execute(ctx, func(repos billing.TxRepositories) error {
		bill, err := repos.SalesBills.FindByID(ctx, billID)
		if err != nil {
			return err
		}
		previousBalance := bill.BalanceAmount

		if req.BillDate != nil {
			bill.BillDate = *req.BillDate
		}
		if req.DueDate != nil {
			bill.DueDate = req.DueDate
		}
		if req.Notes != nil {
			bill.SetNotes(*req.Notes)
		}

		if len(req.Items) > 0 {
			linked, err := repos.Collections.CountByBill(ctx, bill.ID)
			if err != nil {
				return err
			}
			if linked > 0 {
				return shared.ErrDependencyExists.WithDetails("Bill has collections; delete them before editing items")
			}

			items := make([]billing.LineItem, 0, len(req.Items))
			for _, item := range req.Items {
				line, err := billing.NewLineItem(bill.ID, item.ItemName, item.Unit, item.Quantity,
					valueobject.NewMoneyINR(item.Rate), item.TaxRate, item.DiscountRate)
				if err != nil {
					return err
				}
				items = append(items, *line)
			}
			if err := bill.ReplaceItems(items); err != nil {
				return err
			}
		}

		if err := repos.SalesBills.Save(ctx, bill); err != nil {
			return err
		}

		delta := bill.BalanceAmount.MustSubtract(previousBalance)
		if !delta.IsZero() {
			customer, err := repos.Customers.FindByID(ctx, bill.CustomerID)
			if err != nil {
				return err
			}
			customer.AdjustOutstanding(delta)
			if err := repos.Customers.SaveWithLock(ctx, customer); err != nil {
				return err
			}
		}

		response = ToSalesBillResponse(bill)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return &response, nil
}

// TransitionStatus moves the bill through its document state machine
func (s *SalesBillService) TransitionStatus(ctx context.Context, billID uuid.UUID, req TransitionBillStatusRequest) (*SalesBillResponse, error) {
	var response SalesBillResponse
	err := s.uow.Execute(ctx, func(repos billing.TxRepositories) error {
		bill, err := repos.SalesBills.FindByID(ctx, billID)
		if err != nil {
			return err
		}

		target := billing.BillStatus(req.Status)
		if err := bill.TransitionTo(target); err != nil {
			return err
		}
		if err := repos.SalesBills.SaveWithLock(ctx, bill); err != nil {
			return err
		}

		// A cancelled bill is no longer collectible; take its balance out
		// of the customer's outstanding mirror.
		if target == billing.BillStatusCancelled && bill.BalanceAmount.IsPositive() {
			customer, err := repos.Customers.FindByID(ctx, bill.CustomerID)
			if err != nil {
				return err
			}
			customer.AdjustOutstanding(bill.BalanceAmount.Negate())
			if err := repos.Customers.SaveWithLock(ctx, customer); err != nil {
				return err
			}
		}

		response = ToSalesBillResponse(bill)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return &response, nil
}

// Delete removes a bill. Bills with collections on record cannot be
// deleted; the reconciler must unwind the collections first.
func (s *SalesBillService) Delete(ctx context.Context, billID uuid.UUID) error {
	err := s.uow.Execute(ctx, func(repos billing.TxRepositories) error {
		bill, err := repos.SalesBills.FindByID(ctx, billID)
		if err != nil {
			return err
		}

		linked, err := repos.Collections.CountByBill(ctx, bill.ID)
		if err != nil {
			return err
		}
		if linked > 0 {
			return shared.ErrDependencyExists.WithDetails("Bill has collections; delete them first")
		}

		if err := repos.SalesBills.Delete(ctx, bill.ID); err != nil {
			return err
		}

		if bill.BalanceAmount.IsPositive() {
			customer, err := repos.Customers.FindByID(ctx, bill.CustomerID)
			if err != nil {
				return err
			}
			customer.AdjustOutstanding(bill.BalanceAmount.Negate())
			if err := repos.Customers.SaveWithLock(ctx, customer); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

// SweepOverdue flags every pending or partial bill past its due date as
// overdue. Returns the number of bills flagged.
func (s *SalesBillService) SweepOverdue(ctx context.Context, now time.Time) (int, error) {
	const sweepPageSize = 500

	flagged := 0
	for _, status := range []billing.PaymentStatus{billing.PaymentStatusPending, billing.PaymentStatusPartial} {
		status := status

		// Collect every page up front; flagging changes the payment status,
		// which would shift the filtered set under a fetch-as-you-go loop.
		var due []billing.SalesBill
		for page := 1; ; page++ {
			filter := billing.SalesBillFilter{
				Filter:        shared.Filter{Page: page, PageSize: sweepPageSize},
				PaymentStatus: &status,
				DueBefore:     &now,
			}
			bills, err := s.salesBillRepo.FindAll(ctx, filter)
			if err != nil {
				return flagged, err
			}
			due = append(due, bills...)
			if len(bills) < sweepPageSize {
				break
			}
		}

		for i := range due {
			bill := &due[i]
			if err := bill.MarkOverdue(now); err != nil {
				continue
			}
			if err := s.salesBillRepo.SaveWithLock(ctx, bill); err != nil {
				s.logger.Warn("overdue sweep skipped bill",
					zap.String("bill_number", bill.BillNumber), zap.Error(err))
				continue
			}
			flagged++
		}
	}
	if flagged > 0 {
		s.invalidate(ctx)
	}
	return flagged, nil
}

func (s *SalesBillService) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.InvalidateSummaries(ctx)
	}
}
