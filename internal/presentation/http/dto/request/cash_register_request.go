package request

import "github.com/primake/primake-api/internal/domain/enum"

// OpenRegisterRequest carries the opening float
type OpenRegisterRequest struct {
	OpeningBalance float64 `json:"opening_balance" binding:"min=0"`
}

// MovementRequest is a manual withdrawal or supply
type MovementRequest struct {
	Type        enum.CashMovementType `json:"type"`
	Amount      float64               `json:"amount" binding:"required,gt=0"`
	Description string                `json:"description"`
}

// CloseRegisterRequest carries the counted drawer amount
type CloseRegisterRequest struct {
	ClosingBalance float64 `json:"closing_balance" binding:"min=0"`
	Notes          *string `json:"notes"`
}
