package request

import (
	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/enum"
)

// SaveGoalRequest sets a user's target for a period
type SaveGoalRequest struct {
	UserID uuid.UUID     `json:"user_id" binding:"required"`
	Amount float64       `json:"amount" binding:"min=0"`
	Type   enum.GoalType `json:"type"`
	Period string        `json:"period"` // YYYY-MM, empty is the current month
}
