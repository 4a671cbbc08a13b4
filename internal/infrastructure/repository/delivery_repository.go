package repository

import (
	"context"
	"errors"
	"time"

	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/enum"
	domainRepo "github.com/primake/primake-api/internal/domain/repository"
	"gorm.io/gorm"
)

type deliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository creates a new delivery repository
func NewDeliveryRepository(db *gorm.DB) domainRepo.DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) Create(ctx context.Context, delivery *entity.Delivery) error {
	return r.db.WithContext(ctx).Create(delivery).Error
}

func (r *deliveryRepository) GetByID(ctx context.Context, id string) (*entity.Delivery, error) {
	var delivery entity.Delivery
	err := r.db.WithContext(ctx).First(&delivery, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &delivery, err
}

func (r *deliveryRepository) Update(ctx context.Context, delivery *entity.Delivery) error {
	return r.db.WithContext(ctx).Save(delivery).Error
}

func (r *deliveryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.Delivery{}, "id = ?", id).Error
}

func (r *deliveryRepository) List(ctx context.Context, params *domainRepo.DeliveryFilterParams) ([]entity.Delivery, error) {
	var deliveries []entity.Delivery

	query := r.db.WithContext(ctx).Model(&entity.Delivery{}).
		Scopes(DateRangeScope("created_at", params.From, params.To))

	if len(params.Statuses) > 0 {
		query = query.Where("status IN ?", params.Statuses)
	}

	if len(params.Methods) > 0 {
		query = query.Where("method IN ?", params.Methods)
	}

	if params.MotoboyName != nil {
		query = query.Where("motoboy_name = ?", *params.MotoboyName)
	}

	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}

	err := query.Order("created_at DESC").Find(&deliveries).Error
	return deliveries, err
}

func (r *deliveryRepository) CountByStatus(ctx context.Context, statuses ...enum.DeliveryStatus) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.Delivery{})
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	err := query.Count(&count).Error
	return count, err
}

func payableScope(status enum.PayoutStatus, motoboy string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("status = ? AND method = ? AND payout_status = ?",
			enum.DeliveryEntregue, enum.DeliveryMotoboy, status)
		switch motoboy {
		case "":
			return db
		case entity.UnassignedMotoboy:
			return db.Where("(motoboy_name = '' OR motoboy_name IS NULL)")
		default:
			return db.Where("motoboy_name = ?", motoboy)
		}
	}
}

func (r *deliveryRepository) ListPayable(ctx context.Context, status enum.PayoutStatus, motoboy string) ([]entity.Delivery, error) {
	var deliveries []entity.Delivery
	err := r.db.WithContext(ctx).
		Scopes(payableScope(status, motoboy)).
		Order("created_at DESC").
		Find(&deliveries).Error
	return deliveries, err
}

func (r *deliveryRepository) MarkPaid(ctx context.Context, motoboy string, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Delivery{}).
		Scopes(payableScope(enum.PayoutPending, motoboy)).
		Updates(map[string]interface{}{
			"payout_status": enum.PayoutPaid,
			"paid_at":       at,
		})
	return result.RowsAffected, result.Error
}
