package request

import "github.com/primake/primake-api/internal/domain/enum"

// CreateUserRequest represents a new staff account
type CreateUserRequest struct {
	Name            string        `json:"name" binding:"required,min=2,max=255"`
	Email           string        `json:"email" binding:"required,email"`
	Password        string        `json:"password" binding:"required,min=6"`
	Role            *enum.Role    `json:"role" binding:"required"`
	DefaultGoal     float64       `json:"default_goal" binding:"min=0"`
	DefaultGoalType enum.GoalType `json:"default_goal_type"`
}

// UpdateUserRequest carries the admin-editable fields of a user
type UpdateUserRequest struct {
	Name            *string        `json:"name" binding:"omitempty,min=2,max=255"`
	Role            *enum.Role     `json:"role"`
	DefaultGoal     *float64       `json:"default_goal" binding:"omitempty,min=0"`
	DefaultGoalType *enum.GoalType `json:"default_goal_type"`
}

// SetActiveRequest deactivates or reactivates an account
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
