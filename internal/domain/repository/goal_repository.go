package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/entity"
)

// GoalRepository defines the interface for sales goal data operations
type GoalRepository interface {
	// Upsert writes the goal of a user for a period, replacing any existing one
	Upsert(ctx context.Context, goal *entity.SalesGoal) error
	ListByPeriod(ctx context.Context, period string) ([]entity.SalesGoal, error)
	GetByUserPeriod(ctx context.Context, userID uuid.UUID, period string) (*entity.SalesGoal, error)
}
