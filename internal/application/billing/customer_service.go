package billing

import (
	"context"
	"errors"
	"strings"

	"github.com/billmate/backend/internal/domain/billing"
	"github.com/billmate/backend/internal/domain/shared"
	"github.com/billmate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo  billing.CustomerRepository
	salesBillRepo billing.SalesBillRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo billing.CustomerRepository, salesBillRepo billing.SalesBillRepository) *CustomerService {
	return &CustomerService{
		customerRepo:  customerRepo,
		salesBillRepo: salesBillRepo,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	if req.CustomerCode != "" {
		existing, err := s.customerRepo.FindByCode(ctx, req.CustomerCode)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, shared.ErrAlreadyExists.WithDetails("Customer with this code already exists")
		}
	}

	customer, err := billing.NewCustomer(req.Name)
	if err != nil {
		return nil, err
	}
	customer.CustomerCode = strings.ToUpper(req.CustomerCode)

	if err := customer.UpdateDetails(req.Name, req.Phone, req.Email, req.Address, req.City, req.State, req.Pincode, req.GSTNumber); err != nil {
		return nil, err
	}
	customer.Notes = req.Notes
	if req.CreditLimit != nil {
		if err := customer.SetCreditLimit(valueobject.NewMoneyINR(*req.CreditLimit)); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) (*shared.Paginated[CustomerResponse], error) {
	domainFilter := billing.CustomerFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
	}
	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = 20
	}
	if filter.Status != "" {
		status := billing.CustomerStatus(filter.Status)
		domainFilter.Status = &status
	}
	if filter.City != "" {
		domainFilter.City = &filter.City
	}

	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.customerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToCustomerResponses(customers), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Update updates a customer. The write is guarded against the version
// read here, so a collection applied to the same customer in between
// fails this update with ErrConcurrentModification instead of being
// silently overwritten.
func (s *CustomerService) Update(ctx context.Context, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	loadedVersion := customer.Version

	name := valueOr(req.Name, customer.Name)
	phone := valueOr(req.Phone, customer.Phone)
	email := valueOr(req.Email, customer.Email)
	address := valueOr(req.Address, customer.Address)
	city := valueOr(req.City, customer.City)
	state := valueOr(req.State, customer.State)
	pincode := valueOr(req.Pincode, customer.Pincode)
	gst := valueOr(req.GSTNumber, customer.GSTNumber)
	if err := customer.UpdateDetails(name, phone, email, address, city, state, pincode, gst); err != nil {
		return nil, err
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}

	if req.CreditLimit != nil {
		if err := customer.SetCreditLimit(valueobject.NewMoneyINR(*req.CreditLimit)); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if err := customer.ChangeStatus(billing.CustomerStatus(*req.Status)); err != nil {
			return nil, err
		}
	}

	// Several setters may have bumped the version; the lock guard needs
	// exactly one step past the loaded row.
	customer.Version = loadedVersion + 1
	if err := s.customerRepo.SaveWithLock(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete removes a customer. Customers with bills on record cannot be
// deleted.
func (s *CustomerService) Delete(ctx context.Context, customerID uuid.UUID) error {
	billCount, err := s.salesBillRepo.CountByCustomer(ctx, customerID)
	if err != nil {
		return err
	}
	if billCount > 0 {
		return shared.ErrDependencyExists.WithDetails("Customer has bills on record")
	}
	return s.customerRepo.Delete(ctx, customerID)
}

// valueOr returns the pointed-to value when set, otherwise the fallback
func valueOr(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}
