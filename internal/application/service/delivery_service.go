package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/dispatch"
	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/internal/domain/repository"
	"github.com/primake/primake-api/pkg/apperror"
	"github.com/primake/primake-api/pkg/money"
	"github.com/primake/primake-api/pkg/utils"
	"go.uber.org/zap"
)

const (
	deliveryIDAttempts = 5

	manualCustomerName = "Cliente sem nome"
	manualItemsSummary = "Itens diversos"

	saleDeliveryPhone   = "N/A"
	saleDeliveryAddress = "Retirar na loja (Endereço pendente)"
	saleDeliveryCity    = "Local"
)

// DeliveryService handles dispatch orders and courier payouts
type DeliveryService struct {
	deliveryRepo repository.DeliveryRepository
	settingsRepo repository.SettingsRepository
	log          *zap.Logger
	now          func() time.Time
}

// NewDeliveryService creates a new delivery service
func NewDeliveryService(deliveryRepo repository.DeliveryRepository, settingsRepo repository.SettingsRepository, log *zap.Logger) *DeliveryService {
	return &DeliveryService{
		deliveryRepo: deliveryRepo,
		settingsRepo: settingsRepo,
		log:          log,
		now:          time.Now,
	}
}

// CreateDeliveryInput represents a manually entered delivery order
type CreateDeliveryInput struct {
	CustomerID   *uuid.UUID
	CustomerName string
	Phone        string
	Address      string
	City         string
	Source       enum.DeliverySource
	Method       enum.DeliveryMethod
	ItemsSummary string
	TotalValue   float64
	Fee          float64
	MotoboyName  string
	TrackingCode *string
	Notes        *string
}

// CreateDelivery records a manual order. It always starts as Pendente.
func (s *DeliveryService) CreateDelivery(ctx context.Context, input *CreateDeliveryInput) (*entity.Delivery, error) {
	if !input.Method.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid delivery method")
	}
	if input.TotalValue < 0 || input.Fee < 0 {
		return nil, apperror.NewBadRequestError("Amounts cannot be negative")
	}

	delivery := &entity.Delivery{
		CustomerID:   input.CustomerID,
		CustomerName: orDefault(input.CustomerName, manualCustomerName),
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
		City:         strings.TrimSpace(input.City),
		Source:       input.Source,
		Method:       input.Method,
		Status:       enum.DeliveryPendente,
		ItemsSummary: orDefault(input.ItemsSummary, manualItemsSummary),
		TotalValue:   money.FromFloat(input.TotalValue),
		Fee:          money.FromFloat(input.Fee),
		MotoboyName:  strings.TrimSpace(input.MotoboyName),
		TrackingCode: trimPtr(input.TrackingCode),
		Notes:        input.Notes,
		PayoutStatus: enum.PayoutPending,
	}
	if err := s.create(ctx, delivery); err != nil {
		return nil, err
	}
	return delivery, nil
}

// CreateForSale opens the Motoboy order for a delivery sale. Customer fields
// missing from the sale snapshot fall back to pickup placeholders.
func (s *DeliveryService) CreateForSale(ctx context.Context, sale *entity.Sale) (*entity.Delivery, error) {
	items := make([]dispatch.SummaryItem, 0, len(sale.Items))
	for _, it := range sale.Items {
		items = append(items, dispatch.SummaryItem{Quantity: it.Quantity, Name: it.Name})
	}

	saleID := sale.ID
	delivery := &entity.Delivery{
		SaleID:       &saleID,
		CustomerID:   sale.CustomerID,
		CustomerName: sale.CustomerName,
		Phone:        orDefault(sale.CustomerPhone, saleDeliveryPhone),
		Address:      orDefault(sale.Address, saleDeliveryAddress),
		City:         orDefault(sale.City, saleDeliveryCity),
		Source:       enum.SourceStore,
		Method:       enum.DeliveryMotoboy,
		Status:       enum.DeliveryPendente,
		ItemsSummary: dispatch.ItemsSummary(items),
		TotalValue:   sale.Total,
		Fee:          sale.DeliveryFee,
		MotoboyName:  sale.MotoboyName,
		PayoutStatus: enum.PayoutPending,
	}
	if err := s.create(ctx, delivery); err != nil {
		return nil, err
	}
	return delivery, nil
}

func (s *DeliveryService) create(ctx context.Context, delivery *entity.Delivery) error {
	now := s.now()
	for i := 0; i < deliveryIDAttempts; i++ {
		id := utils.NewDeliveryID(now.Add(time.Duration(i) * time.Millisecond))
		existing, err := s.deliveryRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			delivery.ID = id
			break
		}
	}
	if delivery.ID == "" {
		return apperror.NewConflictError("Could not allocate a delivery id, try again")
	}

	if err := s.deliveryRepo.Create(ctx, delivery); err != nil {
		return err
	}
	s.log.Info("delivery created",
		zap.String("delivery_id", delivery.ID),
		zap.String("method", delivery.Method.String()),
		zap.String("motoboy", delivery.MotoboyName))
	return nil
}

// GetDelivery retrieves a delivery the viewer is allowed to see
func (s *DeliveryService) GetDelivery(ctx context.Context, id string, viewer dispatch.Viewer) (*entity.Delivery, error) {
	delivery, err := s.deliveryRepo.GetByID(ctx, strings.ToUpper(strings.TrimSpace(id)))
	if err != nil {
		return nil, err
	}
	if delivery == nil || !dispatch.Visible(delivery, viewer) {
		return nil, apperror.NewNotFoundError("Delivery")
	}
	return delivery, nil
}

// UpdateDeliveryInput holds the fields that may change on a delivery.
// Status is a plain overwrite: any status can follow any other.
type UpdateDeliveryInput struct {
	Status       *enum.DeliveryStatus
	Notes        *string
	MotoboyName  *string
	TrackingCode *string
}

// UpdateDelivery applies status, notes, motoboy and tracking changes
func (s *DeliveryService) UpdateDelivery(ctx context.Context, id string, viewer dispatch.Viewer, input *UpdateDeliveryInput) (*entity.Delivery, error) {
	delivery, err := s.GetDelivery(ctx, id, viewer)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, apperror.NewBadRequestError("Invalid delivery status")
		}
		delivery.Status = *input.Status
	}
	if input.Notes != nil {
		delivery.Notes = input.Notes
	}
	if input.MotoboyName != nil {
		delivery.MotoboyName = strings.TrimSpace(*input.MotoboyName)
	}
	if input.TrackingCode != nil {
		delivery.TrackingCode = trimPtr(input.TrackingCode)
	}

	if err := s.deliveryRepo.Update(ctx, delivery); err != nil {
		return nil, err
	}
	return delivery, nil
}

// DeleteDelivery removes a delivery order
func (s *DeliveryService) DeleteDelivery(ctx context.Context, id string) error {
	id = strings.ToUpper(strings.TrimSpace(id))
	delivery, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if delivery == nil {
		return apperror.NewNotFoundError("Delivery")
	}
	return s.deliveryRepo.Delete(ctx, id)
}

// ListDeliveries narrows the query by method and view in SQL, then applies
// the full filter, including role visibility, to the rows.
func (s *DeliveryService) ListDeliveries(ctx context.Context, filter dispatch.Filter, viewer dispatch.Viewer) ([]entity.Delivery, error) {
	params := &repository.DeliveryFilterParams{}
	switch filter.Bucket {
	case dispatch.BucketLocal:
		params.Methods = []enum.DeliveryMethod{enum.DeliveryMotoboy}
	case dispatch.BucketDispatch:
		params.Methods = []enum.DeliveryMethod{enum.DeliveryCorreios, enum.DeliveryJadlog}
	}
	if viewer.Role.SeesOnlyOwnDeliveries() {
		name := viewer.Name
		params.MotoboyName = &name
	}

	deliveries, err := s.deliveryRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return dispatch.Apply(deliveries, filter, viewer), nil
}

// PayoutReport groups delivered motoboy orders per courier
func (s *DeliveryService) PayoutReport(ctx context.Context, status enum.PayoutStatus) ([]dispatch.PayoutLine, error) {
	deliveries, err := s.deliveryRepo.ListPayable(ctx, status, "")
	if err != nil {
		return nil, err
	}
	return dispatch.PayoutReport(deliveries, status), nil
}

// PayoutDeliveries lists the orders still owed to a courier
func (s *DeliveryService) PayoutDeliveries(ctx context.Context, motoboy string) ([]entity.Delivery, error) {
	motoboy = strings.TrimSpace(motoboy)
	if motoboy == "" {
		return nil, apperror.NewBadRequestError("Motoboy is required")
	}
	return s.deliveryRepo.ListPayable(ctx, enum.PayoutPending, motoboy)
}

// PayoutResult reports a settled courier payout
type PayoutResult struct {
	Motoboy string  `json:"motoboy"`
	Count   int64   `json:"count"`
	PaidAt  string  `json:"paid_at"`
	Total   float64 `json:"total"`
}

// MarkPayoutPaid flips every pending delivered order of a courier to paid
func (s *DeliveryService) MarkPayoutPaid(ctx context.Context, motoboy string) (*PayoutResult, error) {
	pending, err := s.PayoutDeliveries(ctx, motoboy)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, apperror.NewUnprocessableError("nothing_to_pay", "No pending deliveries for this courier")
	}

	var total int64
	for _, d := range pending {
		total += d.Fee
	}

	at := s.now()
	count, err := s.deliveryRepo.MarkPaid(ctx, strings.TrimSpace(motoboy), at)
	if err != nil {
		return nil, err
	}

	s.log.Info("courier payout settled",
		zap.String("motoboy", motoboy),
		zap.Int64("deliveries", count),
		zap.String("total", money.Format(total)))

	return &PayoutResult{
		Motoboy: strings.TrimSpace(motoboy),
		Count:   count,
		PaidAt:  at.Format(time.RFC3339),
		Total:   money.ToFloat(total),
	}, nil
}

// WhatsAppLink returns the wa.me contact link for a delivery's customer
func (s *DeliveryService) WhatsAppLink(ctx context.Context, id string, viewer dispatch.Viewer) (string, error) {
	delivery, err := s.GetDelivery(ctx, id, viewer)
	if err != nil {
		return "", err
	}

	storeName := entity.DefaultCompanySettings().Name
	if settings, err := s.settingsRepo.Get(ctx); err == nil && settings != nil && settings.Name != "" {
		storeName = settings.Name
	}

	link, ok := dispatch.WhatsAppLink(delivery.Phone, delivery.CustomerName, storeName)
	if !ok {
		return "", apperror.NewUnprocessableError("phone_missing", "Delivery has no phone number")
	}
	return link, nil
}

// CountActive counts orders waiting to leave or on the road
func (s *DeliveryService) CountActive(ctx context.Context) (int64, error) {
	return s.deliveryRepo.CountByStatus(ctx, enum.DeliveryPendente, enum.DeliveryEmRota)
}

func orDefault(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return s
}
