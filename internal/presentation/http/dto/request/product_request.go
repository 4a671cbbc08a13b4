package request

import (
	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/enum"
)

// ProductRequest represents a product create or update request. Prices are
// decimal reais.
type ProductRequest struct {
	SKU            string               `json:"sku" binding:"omitempty,max=100"`
	Name           string               `json:"name" binding:"required,min=2,max=255"`
	Category       enum.ProductCategory `json:"category"`
	PriceCost      float64              `json:"price_cost" binding:"min=0"`
	PriceSale      float64              `json:"price_sale" binding:"min=0"`
	PricePromotion *float64             `json:"price_promotion" binding:"omitempty,min=0"`
	IsPromotion    bool                 `json:"is_promotion"`
	Stock          int                  `json:"stock" binding:"min=0"`
	MinStock       int                  `json:"min_stock" binding:"min=0"`
	Unit           string               `json:"unit" binding:"omitempty,max=20"`
	Brand          *string              `json:"brand"`
	Size           *string              `json:"size"`
	Color          *string              `json:"color"`
	Description    *string              `json:"description"`
	Supplier       *string              `json:"supplier"`
	ImageURL       *string              `json:"image_url"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search    string `form:"search"`
	Category  string `form:"category"`
	LowStock  bool   `form:"low_stock"`
	Inactive  bool   `form:"inactive"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}

// AdjustStockRequest adds or removes units from stock
type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// VariationRequest represents a new size or color variant
type VariationRequest struct {
	Name          string   `json:"name" binding:"required"`
	Type          string   `json:"type" binding:"required"`
	Stock         int      `json:"stock" binding:"min=0"`
	SKU           *string  `json:"sku"`
	PriceOverride *float64 `json:"price_override" binding:"omitempty,min=0"`
}

// BundleComponentRequest is one product inside a bundle
type BundleComponentRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// BundleRequest represents a Kit / Combo create or update request
type BundleRequest struct {
	SKU         string                   `json:"sku" binding:"omitempty,max=100"`
	Name        string                   `json:"name" binding:"required,min=2,max=255"`
	PriceSale   float64                  `json:"price_sale" binding:"min=0"`
	Description *string                  `json:"description"`
	ImageURL    *string                  `json:"image_url"`
	Components  []BundleComponentRequest `json:"components" binding:"required,min=1,dive"`
}
