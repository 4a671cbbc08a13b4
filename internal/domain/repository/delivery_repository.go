package repository

import (
	"context"
	"time"

	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/enum"
)

// DeliveryRepository defines the interface for delivery data operations
type DeliveryRepository interface {
	Create(ctx context.Context, delivery *entity.Delivery) error
	GetByID(ctx context.Context, id string) (*entity.Delivery, error)
	Update(ctx context.Context, delivery *entity.Delivery) error
	Delete(ctx context.Context, id string) error
	// List returns deliveries newest first. The params narrow the query in
	// SQL; viewer rules are applied by the caller.
	List(ctx context.Context, params *DeliveryFilterParams) ([]entity.Delivery, error)
	CountByStatus(ctx context.Context, statuses ...enum.DeliveryStatus) (int64, error)
	// ListPayable returns delivered motoboy orders with the given payout status.
	// An empty motoboy returns every courier.
	ListPayable(ctx context.Context, status enum.PayoutStatus, motoboy string) ([]entity.Delivery, error)
	// MarkPaid flips pending payouts of a courier to paid and returns how many changed
	MarkPaid(ctx context.Context, motoboy string, at time.Time) (int64, error)
}

// DeliveryFilterParams contains the SQL side of delivery filtering
type DeliveryFilterParams struct {
	Statuses    []enum.DeliveryStatus
	Methods     []enum.DeliveryMethod
	MotoboyName *string
	From        *time.Time
	To          *time.Time // exclusive
	Limit       int
}
