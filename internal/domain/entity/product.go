package entity

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/pkg/money"
	"gorm.io/gorm"
)

// Product represents an item in the catalog. Bundles ("Kit / Combo") are
// products whose stock is derived from their components and never stored.
type Product struct {
	ID             uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	SKU            string               `gorm:"size:100;uniqueIndex;not null" json:"sku"`
	Name           string               `gorm:"size:255;not null" json:"name"`
	Category       enum.ProductCategory `gorm:"default:0;index" json:"category"`
	PriceCost      int64                `gorm:"default:0" json:"-"` // Stored in cents
	PriceSale      int64                `gorm:"default:0" json:"-"` // Stored in cents
	PricePromotion *int64               `json:"-"`                  // Stored in cents
	IsPromotion    bool                 `gorm:"default:false" json:"is_promotion"`
	Stock          int                  `gorm:"default:0;check:stock >= 0" json:"stock"`
	MinStock       int                  `gorm:"default:0" json:"min_stock"`
	Unit           string               `gorm:"size:20;default:'un'" json:"unit"`
	Brand          *string              `gorm:"size:100" json:"brand,omitempty"`
	Size           *string              `gorm:"size:50" json:"size,omitempty"`
	Color          *string              `gorm:"size:50" json:"color,omitempty"`
	Description    *string              `gorm:"type:text" json:"description,omitempty"`
	Supplier       *string              `gorm:"size:255" json:"supplier,omitempty"`
	ImageURL       *string              `gorm:"size:500" json:"image_url,omitempty"`
	IsActive       bool                 `gorm:"default:true;index" json:"is_active"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
	DeletedAt      gorm.DeletedAt       `gorm:"index" json:"-"`

	// Relationships
	BundleComponents []BundleComponent  `gorm:"foreignKey:BundleID" json:"bundle_components,omitempty"`
	Variations       []ProductVariation `gorm:"foreignKey:ProductID" json:"variations,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.SKU = strings.TrimSpace(p.SKU)
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// IsBundle reports whether the product is a kit of other products.
func (p *Product) IsBundle() bool {
	return p.Category == enum.CategoryBundle || len(p.BundleComponents) > 0
}

// IsLowStock reports whether the product is at or below its minimum stock.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

// EffectivePrice returns the unit price charged for the product. The variation
// override wins, then an active promotion, then the sale price.
func (p *Product) EffectivePrice(variation *ProductVariation) int64 {
	if variation != nil && variation.PriceOverride != nil && *variation.PriceOverride > 0 {
		return *variation.PriceOverride
	}
	if p.IsPromotion && p.PricePromotion != nil && *p.PricePromotion > 0 {
		return *p.PricePromotion
	}
	return p.PriceSale
}

// FindVariation returns the variation with the given id, if loaded.
func (p *Product) FindVariation(id uuid.UUID) *ProductVariation {
	for i := range p.Variations {
		if p.Variations[i].ID == id {
			return &p.Variations[i]
		}
	}
	return nil
}

// ProductJSON is a helper struct for JSON marshaling with decimal prices
type ProductJSON struct {
	ID               uuid.UUID            `json:"id"`
	SKU              string               `json:"sku"`
	Name             string               `json:"name"`
	Category         enum.ProductCategory `json:"category"`
	PriceCost        float64              `json:"price_cost"`
	PriceSale        float64              `json:"price_sale"`
	PricePromotion   *float64             `json:"price_promotion,omitempty"`
	IsPromotion      bool                 `json:"is_promotion"`
	Stock            int                  `json:"stock"`
	MinStock         int                  `json:"min_stock"`
	Unit             string               `json:"unit"`
	Brand            *string              `json:"brand,omitempty"`
	Size             *string              `json:"size,omitempty"`
	Color            *string              `json:"color,omitempty"`
	Description      *string              `json:"description,omitempty"`
	Supplier         *string              `json:"supplier,omitempty"`
	ImageURL         *string              `json:"image_url,omitempty"`
	IsActive         bool                 `json:"is_active"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
	BundleComponents []BundleComponent    `json:"bundle_components,omitempty"`
	Variations       []ProductVariation   `json:"variations,omitempty"`
}

// MarshalJSON converts Product to JSON with decimal prices
func (p Product) MarshalJSON() ([]byte, error) {
	out := ProductJSON{
		ID:               p.ID,
		SKU:              p.SKU,
		Name:             p.Name,
		Category:         p.Category,
		PriceCost:        money.ToFloat(p.PriceCost),
		PriceSale:        money.ToFloat(p.PriceSale),
		IsPromotion:      p.IsPromotion,
		Stock:            p.Stock,
		MinStock:         p.MinStock,
		Unit:             p.Unit,
		Brand:            p.Brand,
		Size:             p.Size,
		Color:            p.Color,
		Description:      p.Description,
		Supplier:         p.Supplier,
		ImageURL:         p.ImageURL,
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
		BundleComponents: p.BundleComponents,
		Variations:       p.Variations,
	}
	if p.PricePromotion != nil {
		v := money.ToFloat(*p.PricePromotion)
		out.PricePromotion = &v
	}
	return json.Marshal(out)
}

// BundleComponent is one product (and quantity) that makes up a bundle
type BundleComponent struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"-"`
	BundleID  uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity  int       `gorm:"not null;check:quantity > 0" json:"quantity"`

	Product *Product `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new bundle component
func (b *BundleComponent) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BundleComponent model
func (BundleComponent) TableName() string {
	return "bundle_components"
}

// ProductVariation is a sellable variant such as a size or color
type ProductVariation struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Name          string    `gorm:"size:100;not null" json:"name"` // "P", "Vermelho"
	Type          string    `gorm:"size:50;not null" json:"type"`  // "Tamanho", "Cor"
	Stock         int       `gorm:"default:0;check:stock >= 0" json:"stock"`
	SKU           *string   `gorm:"size:100" json:"sku,omitempty"`
	PriceOverride *int64    `json:"-"` // Stored in cents
	CreatedAt     time.Time `json:"created_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (v ProductVariation) MarshalJSON() ([]byte, error) {
	type Alias ProductVariation
	var override *float64
	if v.PriceOverride != nil {
		f := money.ToFloat(*v.PriceOverride)
		override = &f
	}
	return json.Marshal(&struct {
		Alias
		PriceOverride *float64 `json:"price_override,omitempty"`
	}{
		Alias:         Alias(v),
		PriceOverride: override,
	})
}

// BeforeCreate generates a UUID before creating a new variation
func (v *ProductVariation) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ProductVariation model
func (ProductVariation) TableName() string {
	return "product_variations"
}
