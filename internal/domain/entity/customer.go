package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/primake/primake-api/pkg/money"
	"gorm.io/gorm"
)

// Customer represents a customer in the CRM
type Customer struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Email        *string        `gorm:"size:255" json:"email,omitempty"`
	Phone        *string        `gorm:"size:50;index" json:"phone,omitempty"`
	CPF          *string        `gorm:"size:20;column:cpf" json:"cpf,omitempty"`
	Address      *string        `gorm:"type:text" json:"address,omitempty"`
	City         *string        `gorm:"size:100" json:"city,omitempty"`
	State        *string        `gorm:"size:2" json:"state,omitempty"`
	BirthDate    *time.Time     `gorm:"type:date" json:"birth_date,omitempty"`
	TotalSpent   int64          `gorm:"default:0" json:"-"` // Stored in cents
	LastPurchase *time.Time     `json:"last_purchase,omitempty"`
	IsActive     bool           `gorm:"default:true;index" json:"is_active"`
	Notes        *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Sales []Sale `gorm:"foreignKey:CustomerID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (c Customer) MarshalJSON() ([]byte, error) {
	type Alias Customer
	status := "Active"
	if !c.IsActive {
		status = "Inactive"
	}
	return json.Marshal(&struct {
		Alias
		TotalSpent float64 `json:"total_spent"`
		Status     string  `json:"status"`
	}{
		Alias:      Alias(c),
		TotalSpent: money.ToFloat(c.TotalSpent),
		Status:     status,
	})
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// Snapshot freezes the customer fields printed on receipts and stored with sales.
func (c *Customer) Snapshot() CustomerSnapshot {
	s := CustomerSnapshot{ID: c.ID, Name: c.Name}
	if c.Phone != nil {
		s.Phone = *c.Phone
	}
	if c.Email != nil {
		s.Email = *c.Email
	}
	if c.Address != nil {
		s.Address = *c.Address
	}
	if c.City != nil {
		s.City = *c.City
	}
	return s
}

// CustomerSnapshot is the copy of customer data kept on a sale. It does not
// change when the customer record is later edited.
type CustomerSnapshot struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Phone   string    `json:"phone,omitempty"`
	Email   string    `json:"email,omitempty"`
	Address string    `json:"address,omitempty"`
	City    string    `json:"city,omitempty"`
}
