package billing

import (
	"context"

	"github.com/billmate/backend/internal/domain/billing"
	"github.com/billmate/backend/internal/domain/shared"
	"github.com/billmate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CollectionNumberPrefix prefixes generated collection numbers
const CollectionNumberPrefix = "RCP"

// CollectionService records customer collections and reconciles their
// ledger effect. Every mutation runs in one transaction covering the
// collection, the linked bill and the customer's outstanding balance:
// partial failure leaves no half-applied payment.
type CollectionService struct {
	collectionRepo billing.CollectionBillRepository
	uow            billing.UnitOfWork
	invalidator    SummaryInvalidator
	logger         *zap.Logger
}

// NewCollectionService creates a new CollectionService
func NewCollectionService(
	collectionRepo billing.CollectionBillRepository,
	uow billing.UnitOfWork,
	invalidator SummaryInvalidator,
	logger *zap.Logger,
) *CollectionService {
	return &CollectionService{
		collectionRepo: collectionRepo,
		uow:            uow,
		invalidator:    invalidator,
		logger:         logger,
	}
}

// Create records a collection. When the collection is linked to a bill
// the bill is re-read inside the transaction, the payment applied under
// the version guard, and the customer's outstanding balance reduced.
func (s *CollectionService) Create(ctx context.Context, req CreateCollectionRequest) (*CollectionResponse, error) {
	amount := valueobject.NewMoneyINR(req.Amount)

	var response CollectionResponse
	err := s.uow.Execute(ctx, func(repos billing.TxRepositories) error {
		customer, err := repos.Customers.FindByID(ctx, req.CustomerID)
		if err != nil {
			return err
		}

		number, err := repos.Collections.NextNumber(ctx, CollectionNumberPrefix)
		if err != nil {
			return err
		}

		collection, err := billing.NewCollectionBill(number, customer.ID, customer.Name,
			req.SalesBillID, req.CollectionDate, amount, billing.PaymentMethod(req.PaymentMethod))
		if err != nil {
			return err
		}
		if collection.PaymentMethod == billing.PaymentMethodCheque {
			details := billing.ChequeDetails{
				ChequeNumber: req.ChequeNumber,
				ChequeDate:   req.ChequeDate,
				BankName:     req.BankName,
			}
			if err := collection.SetChequeDetails(details); err != nil {
				return err
			}
		}
		collection.SetReference(req.ReferenceNumber)
		collection.SetNotes(req.Notes)

		if req.SalesBillID != nil {
			if err := s.applyToBill(ctx, repos, customer, *req.SalesBillID, collection.Amount, shared.ErrExceedsBalance); err != nil {
				return err
			}
		}

		if err := repos.Collections.Save(ctx, collection); err != nil {
			return err
		}

		s.logger.Info("collection recorded",
			zap.String("collection_number", collection.CollectionNumber),
			zap.String("customer_id", customer.ID.String()),
			zap.String("amount", collection.Amount.StringFixed(2)))

		response = ToCollectionResponse(collection)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return &response, nil
}

// GetByID retrieves a collection by ID
func (s *CollectionService) GetByID(ctx context.Context, collectionID uuid.UUID) (*CollectionResponse, error) {
	collection, err := s.collectionRepo.FindByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	response := ToCollectionResponse(collection)
	return &response, nil
}

// List retrieves collections with filtering and pagination
func (s *CollectionService) List(ctx context.Context, filter CollectionListFilter) (*shared.Paginated[CollectionResponse], error) {
	domainFilter := billing.CollectionBillFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		CustomerID:  filter.CustomerID,
		SalesBillID: filter.SalesBillID,
		FromDate:    filter.FromDate,
		ToDate:      filter.ToDate,
	}
	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = 20
	}
	if filter.PaymentMethod != "" {
		method := billing.PaymentMethod(filter.PaymentMethod)
		domainFilter.PaymentMethod = &method
	}
	if filter.Status != "" {
		status := billing.CollectionStatus(filter.Status)
		domainFilter.Status = &status
	}

	collections, err := s.collectionRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.collectionRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToCollectionResponses(collections), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Update edits a collection. A changed amount or bill link reverses the
// old ledger effect and applies the new one in the same transaction, so
// the ledger never sees the payment twice or not at all.
func (s *CollectionService) Update(ctx context.Context, collectionID uuid.UUID, req UpdateCollectionRequest) (*CollectionResponse, error) {
	var response CollectionResponse
	err := s.uow.Execute(ctx, func(repos billing.TxRepositories) error {
		collection, err := repos.Collections.FindByID(ctx, collectionID)
		if err != nil {
			return err
		}
		customer, err := repos.Customers.FindByID(ctx, collection.CustomerID)
		if err != nil {
			return err
		}

		oldBillID := collection.SalesBillID
		oldAmount := collection.Amount

		newBillID := oldBillID
		if req.UnlinkBill {
			newBillID = nil
		} else if req.SalesBillID != nil {
			newBillID = req.SalesBillID
		}
		newAmount := oldAmount
		if req.Amount != nil {
			newAmount = valueobject.NewMoneyINR(*req.Amount).Round2()
		}

		// Reconcile the ledger before touching the record: same bill gets
		// the net delta, a moved link gets a reversal plus a fresh apply.
		// An edit that pushes paid past the bill total fails EXCEEDS_TOTAL.
		switch {
		case oldBillID != nil && newBillID != nil && *oldBillID == *newBillID:
			delta := newAmount.MustSubtract(oldAmount)
			if err := s.applyToBill(ctx, repos, customer, *oldBillID, delta, shared.ErrExceedsTotal); err != nil {
				return err
			}
		default:
			if oldBillID != nil {
				if err := s.applyToBill(ctx, repos, customer, *oldBillID, oldAmount.Negate(), shared.ErrExceedsTotal); err != nil {
					return err
				}
			}
			if newBillID != nil {
				if err := s.applyToBill(ctx, repos, customer, *newBillID, newAmount, shared.ErrExceedsTotal); err != nil {
					return err
				}
			}
		}

		if req.Amount != nil {
			if err := collection.UpdateAmount(newAmount); err != nil {
				return err
			}
		}
		if err := collection.Relink(newBillID); err != nil {
			return err
		}
		if req.CollectionDate != nil {
			collection.CollectionDate = *req.CollectionDate
		}
		if req.PaymentMethod != nil {
			collection.PaymentMethod = billing.PaymentMethod(*req.PaymentMethod)
		}
		if req.Status != nil {
			if err := collection.ChangeStatus(billing.CollectionStatus(*req.Status)); err != nil {
				return err
			}
		}
		if collection.PaymentMethod == billing.PaymentMethodCheque &&
			(req.ChequeNumber != nil || req.ChequeDate != nil || req.BankName != nil) {
			details := collection.Cheque
			details.ChequeNumber = valueOr(req.ChequeNumber, details.ChequeNumber)
			if req.ChequeDate != nil {
				details.ChequeDate = req.ChequeDate
			}
			details.BankName = valueOr(req.BankName, details.BankName)
			if err := collection.SetChequeDetails(details); err != nil {
				return err
			}
		}
		if req.ReferenceNumber != nil {
			collection.SetReference(*req.ReferenceNumber)
		}
		if req.Notes != nil {
			collection.SetNotes(*req.Notes)
		}

		if err := repos.Collections.Save(ctx, collection); err != nil {
			return err
		}

		response = ToCollectionResponse(collection)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return &response, nil
}

// Delete removes a collection and reverses its ledger effect: the linked
// bill's paid amount drops back and its payment status is re-derived.
func (s *CollectionService) Delete(ctx context.Context, collectionID uuid.UUID) error {
	err := s.uow.Execute(ctx, func(repos billing.TxRepositories) error {
		collection, err := repos.Collections.FindByID(ctx, collectionID)
		if err != nil {
			return err
		}

		if collection.SalesBillID != nil {
			customer, err := repos.Customers.FindByID(ctx, collection.CustomerID)
			if err != nil {
				return err
			}
			if err := s.applyToBill(ctx, repos, customer, *collection.SalesBillID, collection.Amount.Negate(), shared.ErrExceedsBalance); err != nil {
				return err
			}
		}

		return repos.Collections.Delete(ctx, collection.ID)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

// applyToBill shifts a bill's ledger by delta under the optimistic version
// guard and mirrors the shift on the customer's outstanding balance. A
// positive delta that would push paid past the bill total is rejected with
// exceedsErr before the ledger is touched: ErrExceedsBalance on the create
// path, ErrExceedsTotal on the update path.
func (s *CollectionService) applyToBill(ctx context.Context, repos billing.TxRepositories, customer *billing.Customer, billID uuid.UUID, delta valueobject.Money, exceedsErr *shared.DomainError) error {
	if delta.IsZero() {
		return nil
	}

	bill, err := repos.SalesBills.FindByID(ctx, billID)
	if err != nil {
		return err
	}
	if bill.CustomerID != customer.ID {
		return shared.ErrBusinessRuleViolation.WithDetails("Bill belongs to a different customer")
	}

	if delta.IsPositive() {
		newPaid := bill.PaidAmount.MustAdd(delta)
		exceeds, err := newPaid.GreaterThan(bill.TotalAmount)
		if err != nil {
			return err
		}
		if exceeds {
			return exceedsErr.WithDetails(
				"applying " + delta.StringFixed(2) + " takes paid to " + newPaid.StringFixed(2) +
					" against bill total " + bill.TotalAmount.StringFixed(2))
		}
	}

	previousBalance := bill.BalanceAmount
	if err := bill.ApplyPayment(delta); err != nil {
		return err
	}
	if err := repos.SalesBills.SaveWithLock(ctx, bill); err != nil {
		return err
	}

	customer.AdjustOutstanding(bill.BalanceAmount.MustSubtract(previousBalance))
	return repos.Customers.SaveWithLock(ctx, customer)
}

func (s *CollectionService) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.InvalidateSummaries(ctx)
	}
}
