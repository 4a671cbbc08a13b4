package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/catalog"
	"github.com/primake/primake-api/internal/domain/checkout"
	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/internal/domain/repository"
	"github.com/primake/primake-api/pkg/apperror"
	"github.com/primake/primake-api/pkg/events"
	"github.com/primake/primake-api/pkg/money"
	"github.com/primake/primake-api/pkg/pagination"
	"github.com/primake/primake-api/pkg/utils"
	"go.uber.org/zap"
)

// EventSaleCompleted is published after every committed sale
const EventSaleCompleted = "sale.completed"

const saleIDAttempts = 5

// SaleService composes, settles and records counter sales
type SaleService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	customers   *CustomerService
	cash        *CashRegisterService
	deliveries  *DeliveryService
	publisher   events.Publisher
	effects     *EffectRunner
	rules       checkout.Rules
	log         *zap.Logger
	now         func() time.Time
}

// NewSaleService creates a new sale service
func NewSaleService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customers *CustomerService,
	cash *CashRegisterService,
	deliveries *DeliveryService,
	publisher events.Publisher,
	rules checkout.Rules,
	log *zap.Logger,
) *SaleService {
	return &SaleService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		customers:   customers,
		cash:        cash,
		deliveries:  deliveries,
		publisher:   publisher,
		effects:     NewEffectRunner(log),
		rules:       rules,
		log:         log,
		now:         time.Now,
	}
}

// SaleItemInput is one cart line
type SaleItemInput struct {
	ProductID   uuid.UUID
	VariationID *uuid.UUID
	Quantity    int
}

// PaymentPartInput is one tender of a split payment. A nil amount takes the
// remaining balance.
type PaymentPartInput struct {
	Method       enum.PaymentMethod
	Amount       *float64
	Installments int
}

// CompleteSaleInput represents a checkout request
type CompleteSaleInput struct {
	SellerID        uuid.UUID
	SellerName      string
	CustomerID      *uuid.UUID
	Items           []SaleItemInput
	DiscountPercent float64
	IsDelivery      bool
	DeliveryFee     float64
	MotoboyName     string
	// PaymentMethod and Installments describe a single-method sale. They are
	// ignored when Payments is not empty.
	PaymentMethod *enum.PaymentMethod
	Installments  int
	Payments      []PaymentPartInput
	CashReceived  *float64
	Notes         *string
}

// CompleteSaleResult is the committed sale and the side effects that failed
type CompleteSaleResult struct {
	Sale     *entity.Sale    `json:"sale"`
	Delivery *entity.Delivery `json:"delivery,omitempty"`
	Warnings []SaleWarning   `json:"warnings"`
}

// SaleCompletedPayload is the body of the sale.completed event
type SaleCompletedPayload struct {
	SaleID       string     `json:"sale_id"`
	Date         time.Time  `json:"date"`
	SellerID     *uuid.UUID `json:"seller_id,omitempty"`
	CustomerID   *uuid.UUID `json:"customer_id,omitempty"`
	Items        int        `json:"items"`
	Total        float64    `json:"total"`
	PaymentLabel string     `json:"payment_method"`
	IsDelivery   bool       `json:"is_delivery"`
}

// CompleteSale validates the cart, settles the payment and writes the sale.
// Delivery, stock, customer, cash ledger and event steps run afterwards and
// only produce warnings when they fail.
func (s *SaleService) CompleteSale(ctx context.Context, input *CompleteSaleInput) (*CompleteSaleResult, error) {
	register, err := s.cash.RequireOpen(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	products, err := s.loadProducts(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	var customer *entity.Customer
	if input.CustomerID != nil {
		customer, err = s.customers.GetCustomer(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
	}
	if input.IsDelivery && customer == nil {
		return nil, apperror.NewUnprocessableError("delivery_customer_required", "Selecione um cliente para entrega")
	}

	cart := checkout.NewCart()
	for i, item := range input.Items {
		product := products[item.ProductID]
		var variation *entity.ProductVariation
		if item.VariationID != nil {
			variation = product.FindVariation(*item.VariationID)
			if variation == nil {
				return nil, apperror.NewValidationError([]apperror.FieldError{{
					Field:   fmt.Sprintf("items[%d].variation_id", i),
					Message: fmt.Sprintf("Variation not found for %s", product.Name),
				}})
			}
		}
		if _, err := cart.Add(product, variation, item.Quantity); err != nil {
			return nil, checkoutError(err)
		}
	}

	adj := checkout.Adjustments{
		DiscountPercent: input.DiscountPercent,
		IsDelivery:      input.IsDelivery,
		DeliveryFee:     money.FromFloat(input.DeliveryFee),
	}
	base := checkout.BaseTotal(cart.SubTotal(), adj)

	parts, err := s.settle(base.BaseTotal, input)
	if err != nil {
		return nil, err
	}

	totals, err := checkout.Compute(cart, adj, parts, s.rules)
	if err != nil {
		return nil, checkoutError(err)
	}

	cashReceived, change, err := cashTender(parts, input.CashReceived)
	if err != nil {
		return nil, err
	}

	now := s.now()
	saleID, err := s.nextSaleID(ctx, now)
	if err != nil {
		return nil, err
	}

	sale := &entity.Sale{
		ID:             saleID,
		Date:           now,
		Type:           enum.SaleTypeSale,
		Status:         enum.SaleStatusCompleted,
		SellerName:     input.SellerName,
		CustomerName:   entity.DefaultCustomerName,
		SubTotal:       totals.SubTotal,
		DiscountPct:    totals.DiscountPercent,
		Discount:       totals.Discount,
		DeliveryFee:    totals.DeliveryFee,
		BaseTotal:      totals.BaseTotal,
		Surcharge:      totals.Surcharge,
		Total:          totals.FinalTotal,
		PaymentLabel:   checkout.PaymentLabel(parts),
		Installments:   saleInstallments(parts),
		CashReceived:   cashReceived,
		Change:         change,
		IsDelivery:     input.IsDelivery,
		Notes:          input.Notes,
		CashRegisterID: &register.ID,
	}
	if input.SellerID != uuid.Nil {
		sellerID := input.SellerID
		sale.SellerID = &sellerID
	}
	if input.IsDelivery {
		sale.MotoboyName = strings.TrimSpace(input.MotoboyName)
	}
	if customer != nil {
		snap := customer.Snapshot()
		sale.CustomerID = &snap.ID
		sale.CustomerName = snap.Name
		sale.CustomerPhone = snap.Phone
		sale.CustomerEmail = snap.Email
		sale.Address = snap.Address
		sale.City = snap.City
	}

	for _, line := range cart.Items() {
		sale.Items = append(sale.Items, entity.SaleItem{
			ProductID:     line.ProductID,
			VariationID:   line.VariationID,
			SKU:           line.SKU,
			Name:          line.Name,
			VariationName: line.VariationName,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			UnitCost:      line.UnitCost,
			Total:         line.Total(),
			IsBundle:      line.IsBundle,
		})
	}
	for _, p := range parts {
		sale.Payments = append(sale.Payments, entity.PaymentPart{
			Method:       p.Method,
			Amount:       p.Amount,
			Charged:      p.Charged(s.rules),
			Installments: p.Installments,
		})
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		s.log.Error("failed to record sale", zap.String("sale_id", sale.ID), zap.Error(err))
		return nil, err
	}

	s.log.Info("sale completed",
		zap.String("sale_id", sale.ID),
		zap.String("total", money.Format(sale.Total)),
		zap.String("payment", sale.PaymentLabel),
		zap.Int("items", len(sale.Items)))

	result := &CompleteSaleResult{Sale: sale}
	result.Warnings = s.effects.Run(ctx, sale.ID, s.saleSteps(sale, products, register.ID, input.SellerID, result))
	if result.Warnings == nil {
		result.Warnings = []SaleWarning{}
	}
	return result, nil
}

func (s *SaleService) validateInput(input *CompleteSaleInput) error {
	if len(input.Items) == 0 {
		return checkoutError(checkout.ErrEmptyCart)
	}

	var fieldErrors []apperror.FieldError
	for i, item := range input.Items {
		if item.ProductID == uuid.Nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field: fmt.Sprintf("items[%d].product_id", i), Message: "Product is required",
			})
		}
		if item.Quantity < 1 {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field: fmt.Sprintf("items[%d].quantity", i), Message: "Quantity must be at least 1",
			})
		}
	}
	if input.DiscountPercent < 0 || input.DiscountPercent > 100 {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field: "discount_percent", Message: "Discount must be between 0 and 100",
		})
	}
	if input.DeliveryFee < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field: "delivery_fee", Message: "Delivery fee cannot be negative",
		})
	}
	if input.IsDelivery && strings.TrimSpace(input.MotoboyName) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field: "motoboy_name", Message: "Selecione o motoboy responsável",
		})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// loadProducts fetches every product in one query and rejects missing or
// inactive ones
func (s *SaleService) loadProducts(ctx context.Context, items []SaleItemInput) (map[uuid.UUID]*entity.Product, error) {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", id))
		}
		if !p.IsActive {
			return nil, apperror.NewUnprocessableError("product_inactive", fmt.Sprintf("Produto inativo: %s", p.Name))
		}
	}
	return byID, nil
}

// settle runs the split payment state machine over the requested parts
func (s *SaleService) settle(baseTotal int64, input *CompleteSaleInput) ([]checkout.Part, error) {
	settlement := checkout.NewSettlement(baseTotal, s.rules)

	if len(input.Payments) == 0 {
		if input.PaymentMethod == nil {
			return nil, checkoutError(checkout.ErrNoPaymentMethod)
		}
		if err := settlement.SelectMethod(*input.PaymentMethod); err != nil {
			return nil, checkoutError(err)
		}
		if err := settlement.SetInstallments(atLeastOne(input.Installments)); err != nil {
			return nil, checkoutError(err)
		}
	}

	for _, p := range input.Payments {
		if err := settlement.SelectMethod(p.Method); err != nil {
			return nil, checkoutError(err)
		}
		if err := settlement.SetInstallments(atLeastOne(p.Installments)); err != nil {
			return nil, checkoutError(err)
		}
		var amount *int64
		if p.Amount != nil {
			cents := money.FromFloat(*p.Amount)
			amount = &cents
		}
		if _, err := settlement.AddPart(amount); err != nil {
			return nil, checkoutError(err)
		}
	}

	parts, err := settlement.Confirm()
	if err != nil {
		return nil, checkoutError(err)
	}
	return parts, nil
}

// cashTender returns the cash handed over and the change. Without a received
// amount the cash parts are taken as paid exactly.
func cashTender(parts []checkout.Part, received *float64) (int64, int64, error) {
	var cashDue int64
	for _, p := range parts {
		if p.Method == enum.PaymentMoney {
			cashDue += p.Amount
		}
	}
	if cashDue == 0 || received == nil {
		return cashDue, 0, nil
	}

	receivedCents := money.FromFloat(*received)
	change, insufficient := checkout.CashChange(receivedCents, cashDue)
	if insufficient {
		return 0, 0, apperror.NewUnprocessableError("insufficient_cash",
			fmt.Sprintf("Valor recebido insuficiente: faltam R$ %s", money.Format(cashDue-receivedCents)))
	}
	return receivedCents, change, nil
}

func saleInstallments(parts []checkout.Part) int {
	n := 1
	for _, p := range parts {
		if p.Method == enum.PaymentCredit && p.Installments > n {
			n = p.Installments
		}
	}
	return n
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// nextSaleID picks a TRX id not used yet. Ids only carry millisecond
// resolution, so a taken id moves the clock forward by one millisecond.
func (s *SaleService) nextSaleID(ctx context.Context, now time.Time) (string, error) {
	for i := 0; i < saleIDAttempts; i++ {
		id := utils.NewSaleID(now.Add(time.Duration(i) * time.Millisecond))
		existing, err := s.saleRepo.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return id, nil
		}
	}
	return "", apperror.NewConflictError("Could not allocate a sale id, try again")
}

func (s *SaleService) saleSteps(sale *entity.Sale, products map[uuid.UUID]*entity.Product, registerID, userID uuid.UUID, result *CompleteSaleResult) []SaleStep {
	var steps []SaleStep

	if sale.IsDelivery {
		steps = append(steps, newSaleStep("delivery", func(ctx context.Context) error {
			delivery, err := s.deliveries.CreateForSale(ctx, sale)
			if err != nil {
				return err
			}
			result.Delivery = delivery
			return nil
		}))
	}

	steps = append(steps, newSaleStep("stock", func(ctx context.Context) error {
		return s.decrementStock(ctx, sale, products)
	}))

	if sale.HasCustomer() {
		steps = append(steps, newSaleStep("customer", func(ctx context.Context) error {
			return s.customers.RecordPurchase(ctx, *sale.CustomerID, sale.Total, sale.Date)
		}))
	}

	steps = append(steps,
		newSaleStep("cash_register", func(ctx context.Context) error {
			return s.cash.RecordSale(ctx, registerID, sale, userID)
		}),
		newSaleStep("event", func(ctx context.Context) error {
			payload := SaleCompletedPayload{
				SaleID:       sale.ID,
				Date:         sale.Date,
				SellerID:     sale.SellerID,
				CustomerID:   sale.CustomerID,
				Items:        len(sale.Items),
				Total:        money.ToFloat(sale.Total),
				PaymentLabel: sale.PaymentLabel,
				IsDelivery:   sale.IsDelivery,
			}
			return s.publisher.Publish(ctx, sale.ID, events.NewEvent(EventSaleCompleted, payload))
		}),
	)
	return steps
}

// decrementStock removes sold quantities. Bundles decrement their components
// and variations decrement the variation row. Every demand is attempted even
// when an earlier one fails.
func (s *SaleService) decrementStock(ctx context.Context, sale *entity.Sale, products map[uuid.UUID]*entity.Product) error {
	short := &stockShortage{}
	var errs []error

	for _, item := range sale.Items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		for _, d := range catalog.Demand(product, item.VariationID, item.Quantity) {
			var (
				done bool
				err  error
			)
			if d.VariationID != nil {
				done, err = s.productRepo.AtomicDecrementVariation(ctx, *d.VariationID, d.Quantity)
			} else {
				done, err = s.productRepo.AtomicDecrementQuantity(ctx, d.ProductID, d.Quantity)
			}
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", d.Name, err))
				continue
			}
			if !done {
				short.names = append(short.names, d.Name)
			}
		}
	}

	if len(short.names) > 0 {
		errs = append(errs, short)
	}
	return errors.Join(errs...)
}

// UpdateSaleInput holds the only fields that may change after a sale
type UpdateSaleInput struct {
	Status       *enum.SaleStatus
	PaymentLabel *string
	Notes        *string
}

// UpdateSale edits status, payment label or notes. Only roles that may edit
// sales are allowed.
func (s *SaleService) UpdateSale(ctx context.Context, actor enum.Role, id string, input *UpdateSaleInput) (*entity.Sale, error) {
	if !actor.CanEditSales() {
		return nil, apperror.ErrForbidden
	}

	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, apperror.NewBadRequestError("Invalid sale status")
		}
		sale.Status = *input.Status
	}
	if input.PaymentLabel != nil {
		label := strings.TrimSpace(*input.PaymentLabel)
		if label == "" {
			return nil, apperror.NewBadRequestError("Payment method cannot be empty")
		}
		sale.PaymentLabel = label
	}
	if input.Notes != nil {
		sale.Notes = input.Notes
	}

	if err := s.saleRepo.UpdateEditable(ctx, sale); err != nil {
		return nil, err
	}
	s.log.Info("sale updated", zap.String("sale_id", sale.ID), zap.String("status", sale.Status.String()))
	return sale, nil
}

// GetSale retrieves a sale with its items and payments
func (s *SaleService) GetSale(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, strings.ToUpper(strings.TrimSpace(id)))
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists sales with page-based pagination
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// ListSalesWithCursor lists sales with cursor-based pagination
func (s *SaleService) ListSalesWithCursor(ctx context.Context, params *repository.SaleCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Sale], error) {
	if params.Cursor == nil {
		params.Cursor = pagination.DefaultCursorParams()
	}
	params.Cursor.Validate()

	sales, err := s.saleRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, err
	}

	pag, items := pagination.NewCursorPagination(sales, params.Cursor.Limit,
		func(sale entity.Sale) string { return sale.ID },
		func(sale entity.Sale) time.Time { return sale.CreatedAt })
	pag.HasPrev = params.Cursor.Cursor != ""
	return pagination.NewCursorPaginatedResult(items, pag), nil
}

// ListTodaySales returns today's sales, optionally for one seller
func (s *SaleService) ListTodaySales(ctx context.Context, sellerID *uuid.UUID) ([]entity.Sale, error) {
	start, end := dayRange(s.now())
	sales, _, err := s.saleRepo.List(ctx, &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 100},
		SellerID:   sellerID,
		StartDate:  &start,
		EndDate:    &end,
		SortBy:     "date",
		SortOrder:  "desc",
	})
	return sales, err
}

// dayRange returns [midnight, next midnight) in t's location
func dayRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// monthRange returns [first day, first day of next month) in t's location
func monthRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

// checkoutError maps composer and settlement errors onto 422 responses
func checkoutError(err error) error {
	var alloc *checkout.AllocationError
	switch {
	case errors.As(err, &alloc):
		return apperror.NewUnprocessableError("payment_not_allocated", alloc.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		return apperror.NewUnprocessableError("empty_cart", err.Error())
	case errors.Is(err, checkout.ErrInvalidQuantity):
		return apperror.NewUnprocessableError("invalid_quantity", err.Error())
	case errors.Is(err, checkout.ErrNoPaymentMethod):
		return apperror.NewUnprocessableError("payment_method_required", err.Error())
	case errors.Is(err, checkout.ErrInvalidPaymentMethod):
		return apperror.NewUnprocessableError("invalid_payment_method", err.Error())
	case errors.Is(err, checkout.ErrInvalidAmount):
		return apperror.NewUnprocessableError("invalid_amount", err.Error())
	case errors.Is(err, checkout.ErrInvalidInstallments):
		return apperror.NewUnprocessableError("invalid_installments", err.Error())
	}
	return err
}
