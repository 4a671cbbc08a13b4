package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/pkg/money"
	"gorm.io/gorm"
)

// DefaultCustomerName is recorded when a sale has no identified customer
const DefaultCustomerName = "Cliente Balcão"

// Sale is the immutable record of a completed checkout. Only status, payment
// label and notes may change afterwards.
type Sale struct {
	ID             string          `gorm:"size:32;primary_key" json:"id"` // TRX-123456
	Date           time.Time       `gorm:"not null;index" json:"date"`
	Type           enum.SaleType   `gorm:"default:0" json:"type"`
	Status         enum.SaleStatus `gorm:"default:0;index" json:"status"`
	SellerID       *uuid.UUID      `gorm:"type:uuid;index" json:"seller_id,omitempty"`
	SellerName     string          `gorm:"size:255" json:"seller_name"`
	CustomerID     *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CustomerName   string          `gorm:"size:255;not null" json:"customer_name"`
	CustomerPhone  string          `gorm:"size:50" json:"customer_phone,omitempty"`
	CustomerEmail  string          `gorm:"size:255" json:"customer_email,omitempty"`
	Address        string          `gorm:"type:text" json:"address,omitempty"`
	City           string          `gorm:"size:100" json:"city,omitempty"`
	SubTotal       int64           `gorm:"not null" json:"-"` // Stored in cents
	DiscountPct    float64         `gorm:"default:0" json:"discount_percent"`
	Discount       int64           `gorm:"default:0" json:"-"` // Stored in cents
	DeliveryFee    int64           `gorm:"default:0" json:"-"` // Stored in cents
	BaseTotal      int64           `gorm:"not null" json:"-"`  // Stored in cents
	Surcharge      int64           `gorm:"default:0" json:"-"` // Stored in cents
	Total          int64           `gorm:"not null" json:"-"`  // Stored in cents
	PaymentLabel   string          `gorm:"size:255" json:"payment_method"`
	Installments   int             `gorm:"default:1" json:"installments"`
	CashReceived   int64           `gorm:"default:0" json:"-"` // Stored in cents
	Change         int64           `gorm:"default:0" json:"-"` // Stored in cents
	IsDelivery     bool            `gorm:"default:false" json:"is_delivery"`
	MotoboyName    string          `gorm:"size:255" json:"motoboy_name,omitempty"`
	Notes          *string         `gorm:"type:text" json:"notes,omitempty"`
	CashRegisterID *uuid.UUID      `gorm:"type:uuid;index" json:"cash_register_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Items    []SaleItem    `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items"`
	Payments []PaymentPart `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"payments"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		SubTotal     float64 `json:"sub_total"`
		Discount     float64 `json:"discount"`
		DeliveryFee  float64 `json:"delivery_fee"`
		BaseTotal    float64 `json:"base_total"`
		Surcharge    float64 `json:"surcharge"`
		Total        float64 `json:"total"`
		CashReceived float64 `json:"cash_received"`
		Change       float64 `json:"change"`
	}{
		Alias:        Alias(s),
		SubTotal:     money.ToFloat(s.SubTotal),
		Discount:     money.ToFloat(s.Discount),
		DeliveryFee:  money.ToFloat(s.DeliveryFee),
		BaseTotal:    money.ToFloat(s.BaseTotal),
		Surcharge:    money.ToFloat(s.Surcharge),
		Total:        money.ToFloat(s.Total),
		CashReceived: money.ToFloat(s.CashReceived),
		Change:       money.ToFloat(s.Change),
	})
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// HasCustomer reports whether an identified customer is attached
func (s *Sale) HasCustomer() bool {
	return s.CustomerID != nil && *s.CustomerID != uuid.Nil
}

// PaidWith reports whether any payment part used the method
func (s *Sale) PaidWith(m enum.PaymentMethod) bool {
	for _, p := range s.Payments {
		if p.Method == m {
			return true
		}
	}
	return false
}

// SaleItem is a product snapshot sold in a sale
type SaleItem struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	SaleID        string     `gorm:"size:32;not null;index" json:"-"`
	ProductID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	VariationID   *uuid.UUID `gorm:"type:uuid" json:"variation_id,omitempty"`
	SKU           string     `gorm:"size:100" json:"sku"`
	Name          string     `gorm:"size:255;not null" json:"name"`
	VariationName string     `gorm:"size:100" json:"variation_name,omitempty"`
	Quantity      int        `gorm:"not null" json:"quantity"`
	UnitPrice     int64      `gorm:"not null" json:"-"` // Stored in cents
	UnitCost      int64      `gorm:"default:0" json:"-"`
	Total         int64      `gorm:"not null" json:"-"` // Stored in cents
	IsBundle      bool       `gorm:"default:false" json:"is_bundle"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (i SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(i),
		UnitPrice: money.ToFloat(i.UnitPrice),
		Total:     money.ToFloat(i.Total),
	})
}

// BeforeCreate generates a UUID before creating a new sale item
func (i *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}

// PaymentPart is one tender of a sale. Amount is the share of the base total
// and Charged adds the credit surcharge when applicable.
type PaymentPart struct {
	ID           uuid.UUID          `gorm:"type:uuid;primary_key" json:"-"`
	SaleID       string             `gorm:"size:32;not null;index" json:"-"`
	Method       enum.PaymentMethod `gorm:"not null" json:"method"`
	Amount       int64              `gorm:"not null" json:"-"` // Stored in cents
	Charged      int64              `gorm:"not null" json:"-"` // Stored in cents
	Installments int                `gorm:"default:1" json:"installments"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p PaymentPart) MarshalJSON() ([]byte, error) {
	type Alias PaymentPart
	return json.Marshal(&struct {
		Alias
		Amount  float64 `json:"amount"`
		Charged float64 `json:"charged"`
	}{
		Alias:   Alias(p),
		Amount:  money.ToFloat(p.Amount),
		Charged: money.ToFloat(p.Charged),
	})
}

// BeforeCreate generates a UUID before creating a new payment part
func (p *PaymentPart) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PaymentPart model
func (PaymentPart) TableName() string {
	return "sale_payments"
}
