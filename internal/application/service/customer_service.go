package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/repository"
	"github.com/primake/primake-api/pkg/apperror"
	"github.com/primake/primake-api/pkg/pagination"
	"github.com/primake/primake-api/pkg/utils"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CustomerInput represents the editable customer fields
type CustomerInput struct {
	Name      string
	Email     *string
	Phone     *string
	CPF       *string
	Address   *string
	City      *string
	State     *string
	BirthDate *time.Time
	Notes     *string
}

// normalize trims text fields and keeps only digits in phone and CPF so
// lookups match however the number was typed.
func (in *CustomerInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = digitsPtr(in.Phone)
	in.CPF = digitsPtr(in.CPF)
	in.Email = trimPtr(in.Email)
	if in.State != nil {
		st := strings.ToUpper(strings.TrimSpace(*in.State))
		in.State = &st
	}
}

func digitsPtr(s *string) *string {
	if s == nil {
		return nil
	}
	d := utils.DigitsOnly(*s)
	if d == "" {
		return nil
	}
	return &d
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func (s *CustomerService) ensurePhoneFree(ctx context.Context, phone *string, self uuid.UUID) error {
	if phone == nil {
		return nil
	}
	existing, err := s.customerRepo.GetByPhone(ctx, *phone)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError("A customer with this phone already exists")
	}
	return nil
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CustomerInput) (*entity.Customer, error) {
	input.normalize()
	if input.Name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "Name is required"}})
	}
	if err := s.ensurePhoneFree(ctx, input.Phone, uuid.Nil); err != nil {
		return nil, err
	}

	customer := &entity.Customer{IsActive: true}
	applyCustomerInput(customer, input)

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func applyCustomerInput(c *entity.Customer, in *CustomerInput) {
	c.Name = in.Name
	c.Email = in.Email
	c.Phone = in.Phone
	c.CPF = in.CPF
	c.Address = in.Address
	c.City = in.City
	c.State = in.State
	c.BirthDate = in.BirthDate
	c.Notes = in.Notes
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// GetCustomerByPhone finds a customer by phone, ignoring formatting
func (s *CustomerService) GetCustomerByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	digits := utils.DigitsOnly(phone)
	if digits == "" {
		return nil, apperror.NewBadRequestError("Phone is required")
	}
	customer, err := s.customerRepo.GetByPhone(ctx, digits)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists active customers, or deactivated ones when inactive is set
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string, inactive bool) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search, inactive)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// UpdateCustomer overwrites the editable fields. Purchase aggregates are untouched.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input *CustomerInput) (*entity.Customer, error) {
	input.normalize()
	if input.Name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "Name is required"}})
	}

	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensurePhoneFree(ctx, input.Phone, customer.ID); err != nil {
		return nil, err
	}

	applyCustomerInput(customer, input)
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeactivateCustomer hides a customer without losing their history
func (s *CustomerService) DeactivateCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	return s.customerRepo.SetActive(ctx, id, false)
}

// ReactivateCustomer restores a deactivated customer
func (s *CustomerService) ReactivateCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	return s.customerRepo.SetActive(ctx, id, true)
}

// RecordPurchase adds a completed sale to the customer's aggregates
func (s *CustomerService) RecordPurchase(ctx context.Context, id uuid.UUID, amount int64, at time.Time) error {
	return s.customerRepo.RecordPurchase(ctx, id, amount, at)
}
