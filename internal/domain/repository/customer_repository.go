package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/pkg/pagination"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	// List returns customers with page-based pagination
	List(ctx context.Context, params *pagination.PaginationParams, search string, inactive bool) ([]entity.Customer, int64, error)
	// RecordPurchase atomically adds amount to total_spent and stamps last_purchase
	RecordPurchase(ctx context.Context, id uuid.UUID, amount int64, at time.Time) error
}
