package request

import (
	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/enum"
)

// SaleItemRequest is one cart line
type SaleItemRequest struct {
	ProductID   uuid.UUID  `json:"product_id" binding:"required"`
	VariationID *uuid.UUID `json:"variation_id"`
	Quantity    int        `json:"quantity" binding:"required,min=1"`
}

// PaymentPartRequest is one tender of a split payment. The method is always
// named by the client; a missing amount takes the remaining balance.
type PaymentPartRequest struct {
	Method       *enum.PaymentMethod `json:"method" binding:"required"`
	Amount       *float64            `json:"amount" binding:"omitempty,min=0"`
	Installments int                 `json:"installments" binding:"omitempty,min=1"`
}

// CompleteSaleRequest represents a checkout
type CompleteSaleRequest struct {
	CustomerID      *uuid.UUID           `json:"customer_id"`
	Items           []SaleItemRequest    `json:"items" binding:"dive"`
	DiscountPercent float64              `json:"discount_percent"`
	IsDelivery      bool                 `json:"is_delivery"`
	DeliveryFee     float64              `json:"delivery_fee"`
	MotoboyName     string               `json:"motoboy_name"`
	PaymentMethod   *enum.PaymentMethod  `json:"payment_method"`
	Installments    int                  `json:"installments"`
	Payments        []PaymentPartRequest `json:"payments" binding:"dive"`
	CashReceived    *float64             `json:"cash_received"`
	Notes           *string              `json:"notes"`
}

// UpdateSaleRequest holds the only fields that may change after a sale
type UpdateSaleRequest struct {
	Status        *enum.SaleStatus `json:"status"`
	PaymentMethod *string          `json:"payment_method"`
	Notes         *string          `json:"notes"`
}

// SaleFilterRequest represents sale list filters
type SaleFilterRequest struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	CustomerID string `form:"customer_id"`
	SellerID   string `form:"seller_id"`
	StartDate  string `form:"start_date"` // YYYY-MM-DD
	EndDate    string `form:"end_date"`   // YYYY-MM-DD, inclusive
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
	Cursor     string `form:"cursor"`
	Limit      int    `form:"limit"`
	Direction  string `form:"direction"`
}
