// Package catalog derives the values of bundles ("Kit / Combo") from their
// component products. Bundle stock is never stored.
package catalog

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var (
	ErrNoComponents      = errors.New("bundle must have at least one component")
	ErrInvalidComponent  = errors.New("component quantity must be at least 1")
	ErrNestedBundle      = errors.New("a bundle cannot contain another bundle")
	ErrComponentNotFound = errors.New("component product not found")
)

// Lookup resolves component products by id. Missing products return nil.
type Lookup func(id uuid.UUID) *entity.Product

// FromSlice builds a Lookup over already loaded products.
func FromSlice(products []entity.Product) Lookup {
	byID := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return func(id uuid.UUID) *entity.Product {
		return byID[id]
	}
}

// BundleSummary holds the derived values of a bundle
type BundleSummary struct {
	Stock          int   `json:"stock"`
	CostValue      int64 `json:"cost_value"`
	RealValue      int64 `json:"real_value"`
	Savings        int64 `json:"savings"`
	SavingsPercent int   `json:"savings_percent"`
}

// Stock is the number of complete bundles the component stock can build:
// the minimum over components of floor(stock / quantity). An empty list or a
// missing component yields 0.
func Stock(components []entity.BundleComponent, lookup Lookup) int {
	if len(components) == 0 {
		return 0
	}
	available := math.MaxInt
	for _, c := range components {
		p := lookup(c.ProductID)
		if p == nil || c.Quantity < 1 {
			return 0
		}
		n := p.Stock / c.Quantity
		if n < available {
			available = n
		}
	}
	if available < 0 {
		return 0
	}
	return available
}

// Summarize computes stock, cost, real value and savings for a bundle.
func Summarize(bundle *entity.Product, lookup Lookup) BundleSummary {
	s := BundleSummary{Stock: Stock(bundle.BundleComponents, lookup)}
	for _, c := range bundle.BundleComponents {
		p := lookup(c.ProductID)
		if p == nil {
			continue
		}
		s.CostValue += p.PriceCost * int64(c.Quantity)
		s.RealValue += p.PriceSale * int64(c.Quantity)
	}
	s.Savings = s.RealValue - bundle.PriceSale
	if s.RealValue > 0 {
		s.SavingsPercent = int(decimal.NewFromInt(s.Savings).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(s.RealValue)).
			Round(0).
			IntPart())
	}
	return s
}

// Validate checks a component list before a bundle is saved.
func Validate(components []entity.BundleComponent, lookup Lookup) error {
	if len(components) == 0 {
		return ErrNoComponents
	}
	for _, c := range components {
		if c.Quantity < 1 {
			return ErrInvalidComponent
		}
		p := lookup(c.ProductID)
		if p == nil {
			return fmt.Errorf("%w: %s", ErrComponentNotFound, c.ProductID)
		}
		if p.IsBundle() {
			return fmt.Errorf("%w: %s", ErrNestedBundle, p.Name)
		}
	}
	return nil
}

// StockDemand is the quantity to remove from a product (or one of its
// variations) when an item is sold.
type StockDemand struct {
	ProductID   uuid.UUID
	VariationID *uuid.UUID
	Name        string
	Quantity    int
}

// Demand expands a sold quantity into stock decrements. Bundles decrement
// their components, everything else decrements itself.
func Demand(p *entity.Product, variationID *uuid.UUID, quantity int) []StockDemand {
	if p.IsBundle() && len(p.BundleComponents) > 0 {
		out := make([]StockDemand, 0, len(p.BundleComponents))
		for _, c := range p.BundleComponents {
			name := p.Name
			if c.Product != nil {
				name = c.Product.Name
			}
			out = append(out, StockDemand{
				ProductID: c.ProductID,
				Name:      name,
				Quantity:  c.Quantity * quantity,
			})
		}
		return out
	}
	return []StockDemand{{
		ProductID:   p.ID,
		VariationID: variationID,
		Name:        p.Name,
		Quantity:    quantity,
	}}
}
