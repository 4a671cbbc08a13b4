package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/entity"
	domainRepo "github.com/primake/primake-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type goalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new sales goal repository
func NewGoalRepository(db *gorm.DB) domainRepo.GoalRepository {
	return &goalRepository{db: db}
}

// Upsert relies on the unique (user_id, period) index
func (r *goalRepository) Upsert(ctx context.Context, goal *entity.SalesGoal) error {
	return r.db.WithContext(ctx).
		Omit("User").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "period"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "type", "updated_at"}),
		}).
		Create(goal).Error
}

func (r *goalRepository) ListByPeriod(ctx context.Context, period string) ([]entity.SalesGoal, error) {
	var goals []entity.SalesGoal
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("period = ?", period).
		Find(&goals).Error
	return goals, err
}

func (r *goalRepository) GetByUserPeriod(ctx context.Context, userID uuid.UUID, period string) (*entity.SalesGoal, error) {
	var goal entity.SalesGoal
	err := r.db.WithContext(ctx).First(&goal, "user_id = ? AND period = ?", userID, period).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &goal, err
}
