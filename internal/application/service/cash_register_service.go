package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/internal/domain/repository"
	"github.com/primake/primake-api/pkg/apperror"
	"github.com/primake/primake-api/pkg/money"
	"github.com/primake/primake-api/pkg/pagination"
	"go.uber.org/zap"
)

// CashRegisterService manages drawer sessions and their movements
type CashRegisterService struct {
	registerRepo repository.CashRegisterRepository
	log          *zap.Logger
	now          func() time.Time
}

// NewCashRegisterService creates a new cash register service
func NewCashRegisterService(registerRepo repository.CashRegisterRepository, log *zap.Logger) *CashRegisterService {
	return &CashRegisterService{
		registerRepo: registerRepo,
		log:          log,
		now:          time.Now,
	}
}

// RegisterSummary holds the running totals of a session
type RegisterSummary struct {
	Opening     int64 `json:"-"`
	CashSales   int64 `json:"-"`
	CardSales   int64 `json:"-"` // credit + debit
	PixSales    int64 `json:"-"`
	TotalSales  int64 `json:"-"`
	Supplies    int64 `json:"-"`
	Withdrawals int64 `json:"-"`
	Drawer      int64 `json:"-"` // opening + cash sales + supplies - withdrawals
}

// RegisterSummaryJSON is the API shape of RegisterSummary
type RegisterSummaryJSON struct {
	Opening     float64 `json:"opening"`
	CashSales   float64 `json:"cash_sales"`
	CardSales   float64 `json:"card_sales"`
	PixSales    float64 `json:"pix_sales"`
	TotalSales  float64 `json:"total_sales"`
	Supplies    float64 `json:"supplies"`
	Withdrawals float64 `json:"withdrawals"`
	Drawer      float64 `json:"drawer"`
}

// JSON converts the summary to decimal amounts
func (s RegisterSummary) JSON() RegisterSummaryJSON {
	return RegisterSummaryJSON{
		Opening:     money.ToFloat(s.Opening),
		CashSales:   money.ToFloat(s.CashSales),
		CardSales:   money.ToFloat(s.CardSales),
		PixSales:    money.ToFloat(s.PixSales),
		TotalSales:  money.ToFloat(s.TotalSales),
		Supplies:    money.ToFloat(s.Supplies),
		Withdrawals: money.ToFloat(s.Withdrawals),
		Drawer:      money.ToFloat(s.Drawer),
	}
}

// SummarizeMovements totals a session's ledger. Only cash sales reach the drawer.
func SummarizeMovements(movements []entity.CashMovement) RegisterSummary {
	var s RegisterSummary
	for _, m := range movements {
		switch m.Type {
		case enum.CashOpening:
			s.Opening += m.Amount
		case enum.CashSale:
			switch m.PaymentMethod {
			case enum.CashPaymentCash:
				s.CashSales += m.Amount
			case enum.CashPaymentCredit, enum.CashPaymentDebit:
				s.CardSales += m.Amount
			case enum.CashPaymentPix:
				s.PixSales += m.Amount
			}
		case enum.CashSupply:
			s.Supplies += m.Amount
		case enum.CashWithdrawal:
			s.Withdrawals += m.Amount
		}
	}
	s.TotalSales = s.CashSales + s.CardSales + s.PixSales
	s.Drawer = s.Opening + s.CashSales + s.Supplies - s.Withdrawals
	return s
}

// RegisterView is a session with its ledger and totals
type RegisterView struct {
	Register  *entity.CashRegister  `json:"register"`
	Movements []entity.CashMovement `json:"movements"`
	Summary   RegisterSummaryJSON   `json:"summary"`
}

// OpenRegister starts a session with the given float in the drawer
func (s *CashRegisterService) OpenRegister(ctx context.Context, userID uuid.UUID, openingBalance float64) (*entity.CashRegister, error) {
	if openingBalance < 0 {
		return nil, apperror.NewBadRequestError("Opening balance cannot be negative")
	}

	open, err := s.registerRepo.GetOpen(ctx)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, apperror.ErrCashRegisterAlreadyOpen
	}

	amount := money.FromFloat(openingBalance)
	register := &entity.CashRegister{
		OpenedAt:       s.now(),
		OpenedBy:       userID,
		OpeningBalance: amount,
		Status:         enum.RegisterOpen,
	}
	opening := &entity.CashMovement{
		Type:          enum.CashOpening,
		Description:   "Abertura de Caixa",
		Amount:        amount,
		PaymentMethod: enum.CashPaymentCash,
		CreatedBy:     userID,
	}

	if err := s.registerRepo.Open(ctx, register, opening); err != nil {
		return nil, err
	}

	s.log.Info("cash register opened",
		zap.String("register_id", register.ID.String()),
		zap.String("opening", money.Format(amount)))
	return register, nil
}

// RequireOpen returns the open session or ErrCashRegisterClosed
func (s *CashRegisterService) RequireOpen(ctx context.Context) (*entity.CashRegister, error) {
	register, err := s.registerRepo.GetOpen(ctx)
	if err != nil {
		return nil, err
	}
	if register == nil {
		return nil, apperror.ErrCashRegisterClosed
	}
	return register, nil
}

// CurrentRegister returns the open session with its movements and totals
func (s *CashRegisterService) CurrentRegister(ctx context.Context) (*RegisterView, error) {
	register, err := s.RequireOpen(ctx)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, register)
}

// GetRegister returns any session, open or closed
func (s *CashRegisterService) GetRegister(ctx context.Context, id uuid.UUID) (*RegisterView, error) {
	register, err := s.registerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if register == nil {
		return nil, apperror.NewNotFoundError("Cash register")
	}
	return s.view(ctx, register)
}

func (s *CashRegisterService) view(ctx context.Context, register *entity.CashRegister) (*RegisterView, error) {
	movements, err := s.registerRepo.ListMovements(ctx, register.ID)
	if err != nil {
		return nil, err
	}
	register.Movements = nil
	return &RegisterView{
		Register:  register,
		Movements: movements,
		Summary:   SummarizeMovements(movements).JSON(),
	}, nil
}

// Summary returns the running totals of the open session
func (s *CashRegisterService) Summary(ctx context.Context) (RegisterSummary, error) {
	register, err := s.RequireOpen(ctx)
	if err != nil {
		return RegisterSummary{}, err
	}
	movements, err := s.registerRepo.ListMovements(ctx, register.ID)
	if err != nil {
		return RegisterSummary{}, err
	}
	return SummarizeMovements(movements), nil
}

// MovementInput is a manual withdrawal (sangria) or supply (suprimento)
type MovementInput struct {
	UserID      uuid.UUID
	Type        enum.CashMovementType
	Amount      float64
	Description string
}

// AddMovement records a manual drawer movement. Only withdrawals and supplies
// can be entered by hand; opening and sale movements are written by the system.
func (s *CashRegisterService) AddMovement(ctx context.Context, input *MovementInput) (*entity.CashMovement, error) {
	if input.Type != enum.CashWithdrawal && input.Type != enum.CashSupply {
		return nil, apperror.NewBadRequestError("Only withdrawal or supply movements can be added")
	}
	if input.Amount <= 0 {
		return nil, apperror.NewBadRequestError("Amount must be greater than zero")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		if input.Type == enum.CashWithdrawal {
			description = "Sangria para Cofre/Banco"
		} else {
			description = input.Type.Label()
		}
	}

	register, err := s.RequireOpen(ctx)
	if err != nil {
		return nil, err
	}

	movement := &entity.CashMovement{
		RegisterID:    register.ID,
		Type:          input.Type,
		Description:   description,
		Amount:        money.FromFloat(input.Amount),
		PaymentMethod: enum.CashPaymentCash,
		CreatedBy:     input.UserID,
	}
	if err := s.registerRepo.AddMovement(ctx, movement); err != nil {
		return nil, err
	}
	return movement, nil
}

// RecordSale writes one sale movement per payment part
func (s *CashRegisterService) RecordSale(ctx context.Context, registerID uuid.UUID, sale *entity.Sale, userID uuid.UUID) error {
	for _, part := range sale.Payments {
		saleID := sale.ID
		movement := &entity.CashMovement{
			RegisterID:    registerID,
			Type:          enum.CashSale,
			Description:   "Venda " + sale.ID,
			Amount:        part.Charged,
			PaymentMethod: part.Method.CashMethod(),
			TransactionID: &saleID,
			CreatedBy:     userID,
		}
		if err := s.registerRepo.AddMovement(ctx, movement); err != nil {
			return err
		}
	}
	return nil
}

// CloseInput carries the counted drawer amount
type CloseInput struct {
	UserID         uuid.UUID
	ClosingBalance float64
	Notes          *string
}

// CloseRegister closes the open session. Expected is the computed drawer and
// difference is counted minus expected.
func (s *CashRegisterService) CloseRegister(ctx context.Context, input *CloseInput) (*RegisterView, error) {
	if input.ClosingBalance < 0 {
		return nil, apperror.NewBadRequestError("Closing balance cannot be negative")
	}

	register, err := s.RequireOpen(ctx)
	if err != nil {
		return nil, err
	}
	movements, err := s.registerRepo.ListMovements(ctx, register.ID)
	if err != nil {
		return nil, err
	}
	summary := SummarizeMovements(movements)

	closing := money.FromFloat(input.ClosingBalance)
	expected := summary.Drawer
	difference := closing - expected
	closedAt := s.now()
	closedBy := input.UserID

	register.Status = enum.RegisterClosed
	register.ClosedAt = &closedAt
	register.ClosedBy = &closedBy
	register.ClosingBalance = &closing
	register.ExpectedBalance = &expected
	register.Difference = &difference
	register.Notes = input.Notes

	if err := s.registerRepo.Close(ctx, register); err != nil {
		return nil, err
	}

	s.log.Info("cash register closed",
		zap.String("register_id", register.ID.String()),
		zap.String("expected", money.Format(expected)),
		zap.String("difference", money.Format(difference)))

	return &RegisterView{Register: register, Movements: movements, Summary: summary.JSON()}, nil
}

// ListRegisters lists past and current sessions, newest first
func (s *CashRegisterService) ListRegisters(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.CashRegister], error) {
	registers, total, err := s.registerRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(registers, pag), nil
}
