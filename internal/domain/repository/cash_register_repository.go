package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/pkg/pagination"
)

// CashRegisterRepository defines the interface for drawer sessions and their ledger
type CashRegisterRepository interface {
	// Open creates the session and its opening movement in one transaction
	Open(ctx context.Context, register *entity.CashRegister, opening *entity.CashMovement) error
	// GetOpen returns the open session, or nil when the drawer is closed
	GetOpen(ctx context.Context) (*entity.CashRegister, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CashRegister, error)
	Close(ctx context.Context, register *entity.CashRegister) error
	AddMovement(ctx context.Context, movement *entity.CashMovement) error
	ListMovements(ctx context.Context, registerID uuid.UUID) ([]entity.CashMovement, error)
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.CashRegister, int64, error)
}
