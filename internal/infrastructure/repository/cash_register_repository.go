package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/enum"
	domainRepo "github.com/primake/primake-api/internal/domain/repository"
	"github.com/primake/primake-api/pkg/pagination"
	"gorm.io/gorm"
)

type cashRegisterRepository struct {
	db *gorm.DB
}

// NewCashRegisterRepository creates a new cash register repository
func NewCashRegisterRepository(db *gorm.DB) domainRepo.CashRegisterRepository {
	return &cashRegisterRepository{db: db}
}

func (r *cashRegisterRepository) Open(ctx context.Context, register *entity.CashRegister, opening *entity.CashMovement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Movements").Create(register).Error; err != nil {
			return err
		}
		opening.RegisterID = register.ID
		return tx.Create(opening).Error
	})
}

func (r *cashRegisterRepository) GetOpen(ctx context.Context) (*entity.CashRegister, error) {
	var register entity.CashRegister
	err := r.db.WithContext(ctx).
		Where("status = ?", enum.RegisterOpen).
		Order("opened_at DESC").
		First(&register).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &register, err
}

func (r *cashRegisterRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CashRegister, error) {
	var register entity.CashRegister
	err := r.db.WithContext(ctx).
		Preload("Movements", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&register, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &register, err
}

func (r *cashRegisterRepository) Close(ctx context.Context, register *entity.CashRegister) error {
	return r.db.WithContext(ctx).Omit("Movements").Save(register).Error
}

func (r *cashRegisterRepository) AddMovement(ctx context.Context, movement *entity.CashMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *cashRegisterRepository) ListMovements(ctx context.Context, registerID uuid.UUID) ([]entity.CashMovement, error) {
	var movements []entity.CashMovement
	err := r.db.WithContext(ctx).
		Where("register_id = ?", registerID).
		Order("created_at ASC").
		Find(&movements).Error
	return movements, err
}

func (r *cashRegisterRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.CashRegister, int64, error) {
	var registers []entity.CashRegister
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.CashRegister{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("opened_at DESC").
		Find(&registers).Error

	return registers, total, err
}
