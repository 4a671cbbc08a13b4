package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/pkg/money"
)

// UnassignedMotoboy groups deliveries with no courier in payout reports
const UnassignedMotoboy = "Não Atribuído"

// Delivery is a dispatch order, created at sale time or manually
type Delivery struct {
	ID            string              `gorm:"size:32;primary_key" json:"id"` // DEL-123456
	SaleID        *string             `gorm:"size:32;index" json:"sale_id,omitempty"`
	CustomerID    *uuid.UUID          `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CustomerName  string              `gorm:"size:255;not null" json:"customer_name"`
	Phone         string              `gorm:"size:50" json:"phone"`
	Address       string              `gorm:"type:text" json:"address"`
	City          string              `gorm:"size:100" json:"city"`
	Source        enum.DeliverySource `gorm:"default:0" json:"source"`
	Method        enum.DeliveryMethod `gorm:"default:0;index" json:"method"`
	Status        enum.DeliveryStatus `gorm:"default:0;index" json:"status"`
	ItemsSummary  string              `gorm:"size:255" json:"items_summary"`
	TotalValue    int64               `gorm:"default:0" json:"-"` // Stored in cents
	Fee           int64               `gorm:"default:0" json:"-"` // Stored in cents
	MotoboyName   string              `gorm:"size:255;index" json:"motoboy_name,omitempty"`
	TrackingCode  *string             `gorm:"size:100" json:"tracking_code,omitempty"`
	Notes         *string             `gorm:"type:text" json:"notes,omitempty"`
	PayoutStatus  enum.PayoutStatus   `gorm:"default:0;index" json:"payout_status"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
	CreatedAt     time.Time           `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (d Delivery) MarshalJSON() ([]byte, error) {
	type Alias Delivery
	return json.Marshal(&struct {
		Alias
		TotalValue float64 `json:"total_value"`
		Fee        float64 `json:"fee"`
		Archived   bool    `json:"archived"`
	}{
		Alias:      Alias(d),
		TotalValue: money.ToFloat(d.TotalValue),
		Fee:        money.ToFloat(d.Fee),
		Archived:   d.Status.IsTerminal(),
	})
}

// TableName returns the table name for the Delivery model
func (Delivery) TableName() string {
	return "deliveries"
}

// CourierName returns the motoboy name used for payout grouping
func (d *Delivery) CourierName() string {
	if d.MotoboyName == "" {
		return UnassignedMotoboy
	}
	return d.MotoboyName
}
