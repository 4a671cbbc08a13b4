package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/pkg/money"
	"gorm.io/gorm"
)

// CashRegister is a drawer session between opening and closing
type CashRegister struct {
	ID              uuid.UUID               `gorm:"type:uuid;primary_key" json:"id"`
	OpenedAt        time.Time               `gorm:"not null" json:"opened_at"`
	ClosedAt        *time.Time              `json:"closed_at,omitempty"`
	OpenedBy        uuid.UUID               `gorm:"type:uuid;not null" json:"opened_by"`
	ClosedBy        *uuid.UUID              `gorm:"type:uuid" json:"closed_by,omitempty"`
	OpeningBalance  int64                   `gorm:"default:0" json:"-"` // Stored in cents
	ClosingBalance  *int64                  `json:"-"`
	ExpectedBalance *int64                  `json:"-"`
	Difference      *int64                  `json:"-"`
	Status          enum.CashRegisterStatus `gorm:"default:0;index" json:"status"`
	Notes           *string                 `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`

	Movements []CashMovement `gorm:"foreignKey:RegisterID" json:"movements,omitempty"`
}

func optionalFloat(v *int64) *float64 {
	if v == nil {
		return nil
	}
	f := money.ToFloat(*v)
	return &f
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (r CashRegister) MarshalJSON() ([]byte, error) {
	type Alias CashRegister
	return json.Marshal(&struct {
		Alias
		OpeningBalance  float64  `json:"opening_balance"`
		ClosingBalance  *float64 `json:"closing_balance,omitempty"`
		ExpectedBalance *float64 `json:"expected_balance,omitempty"`
		Difference      *float64 `json:"difference,omitempty"`
	}{
		Alias:           Alias(r),
		OpeningBalance:  money.ToFloat(r.OpeningBalance),
		ClosingBalance:  optionalFloat(r.ClosingBalance),
		ExpectedBalance: optionalFloat(r.ExpectedBalance),
		Difference:      optionalFloat(r.Difference),
	})
}

// BeforeCreate generates a UUID before creating a new register session
func (r *CashRegister) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CashRegister model
func (CashRegister) TableName() string {
	return "cash_registers"
}

// IsOpen reports whether the session still accepts sales
func (r *CashRegister) IsOpen() bool {
	return r.Status == enum.RegisterOpen
}

// CashMovement is one ledger entry of a register session
type CashMovement struct {
	ID            uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	RegisterID    uuid.UUID              `gorm:"type:uuid;not null;index" json:"register_id"`
	Type          enum.CashMovementType  `gorm:"not null" json:"type"`
	Description   string                 `gorm:"size:255" json:"description"`
	Amount        int64                  `gorm:"not null" json:"-"` // Stored in cents
	PaymentMethod enum.CashPaymentMethod `gorm:"default:0" json:"payment_method"`
	TransactionID *string                `gorm:"size:32;index" json:"transaction_id,omitempty"`
	CreatedBy     uuid.UUID              `gorm:"type:uuid" json:"created_by"`
	CreatedAt     time.Time              `json:"created_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (m CashMovement) MarshalJSON() ([]byte, error) {
	type Alias CashMovement
	return json.Marshal(&struct {
		Alias
		Amount    float64 `json:"amount"`
		TypeLabel string  `json:"type_label"`
	}{
		Alias:     Alias(m),
		Amount:    money.ToFloat(m.Amount),
		TypeLabel: m.Type.Label(),
	})
}

// BeforeCreate generates a UUID before creating a new movement
func (m *CashMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CashMovement model
func (CashMovement) TableName() string {
	return "cash_movements"
}
