package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/pkg/money"
	"gorm.io/gorm"
)

// SalesGoal is a user's target for a period ("2026-10")
type SalesGoal struct {
	ID        uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_goal_user_period" json:"user_id"`
	Period    string        `gorm:"size:7;not null;uniqueIndex:idx_goal_user_period" json:"period"`
	Amount    int64         `gorm:"not null" json:"-"` // Stored in cents
	Type      enum.GoalType `gorm:"default:0" json:"type"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (g SalesGoal) MarshalJSON() ([]byte, error) {
	type Alias SalesGoal
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(g),
		Amount: money.ToFloat(g.Amount),
	})
}

// BeforeCreate generates a UUID before creating a new goal
func (g *SalesGoal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SalesGoal model
func (SalesGoal) TableName() string {
	return "sales_goals"
}
