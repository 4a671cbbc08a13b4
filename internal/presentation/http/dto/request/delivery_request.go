package request

import (
	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/enum"
)

// CreateDeliveryRequest represents a manually entered delivery order
type CreateDeliveryRequest struct {
	CustomerID   *uuid.UUID          `json:"customer_id"`
	CustomerName string              `json:"customer_name"`
	Phone        string              `json:"phone"`
	Address      string              `json:"address"`
	City         string              `json:"city"`
	Source       enum.DeliverySource `json:"source"`
	Method       enum.DeliveryMethod `json:"method"`
	ItemsSummary string              `json:"items_summary"`
	TotalValue   float64             `json:"total_value"`
	Fee          float64             `json:"fee"`
	MotoboyName  string              `json:"motoboy_name"`
	TrackingCode *string             `json:"tracking_code"`
	Notes        *string             `json:"notes"`
}

// UpdateDeliveryRequest holds the fields that may change on a delivery
type UpdateDeliveryRequest struct {
	Status       *enum.DeliveryStatus `json:"status"`
	Notes        *string              `json:"notes"`
	MotoboyName  *string              `json:"motoboy_name"`
	TrackingCode *string              `json:"tracking_code"`
}

// DeliveryFilterRequest represents the delivery list tabs and search
type DeliveryFilterRequest struct {
	Search string `form:"search"`
	Method string `form:"method"` // all, local, dispatch
	View   string `form:"view"`   // all, active, history
	Date   string `form:"date"`   // YYYY-MM-DD, history only
}

// PayoutRequest names the courier being paid
type PayoutRequest struct {
	Motoboy string `json:"motoboy" binding:"required"`
}
