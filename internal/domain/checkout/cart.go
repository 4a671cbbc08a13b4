// Package checkout composes sales: the cart, its totals and the split payment
// settlement. Everything here is pure and works on integer cents.
package checkout

import (
	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/entity"
)

// LineItem is a product snapshot in the cart
type LineItem struct {
	Key           string
	ProductID     uuid.UUID
	VariationID   *uuid.UUID
	SKU           string
	Name          string
	VariationName string
	UnitPrice     int64
	UnitCost      int64
	Quantity      int
	IsBundle      bool
}

// Total is the line price times quantity
func (l LineItem) Total() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// LineKey identifies a product+variation pair in the cart
func LineKey(productID uuid.UUID, variationID *uuid.UUID) string {
	if variationID == nil {
		return productID.String()
	}
	return productID.String() + ":" + variationID.String()
}

// Cart accumulates line items in insertion order
type Cart struct {
	items []LineItem
}

func NewCart() *Cart {
	return &Cart{}
}

// AddItem appends a line or increments the existing one by 1
func (c *Cart) AddItem(p *entity.Product, v *entity.ProductVariation) LineItem {
	item, _ := c.Add(p, v, 1)
	return item
}

// Add puts quantity units of a product in the cart
func (c *Cart) Add(p *entity.Product, v *entity.ProductVariation, quantity int) (LineItem, error) {
	if quantity < 1 {
		return LineItem{}, ErrInvalidQuantity
	}

	var variationID *uuid.UUID
	if v != nil {
		id := v.ID
		variationID = &id
	}
	key := LineKey(p.ID, variationID)

	for i := range c.items {
		if c.items[i].Key == key {
			c.items[i].Quantity += quantity
			return c.items[i], nil
		}
	}

	item := LineItem{
		Key:         key,
		ProductID:   p.ID,
		VariationID: variationID,
		SKU:         p.SKU,
		Name:        p.Name,
		UnitPrice:   p.EffectivePrice(v),
		UnitCost:    p.PriceCost,
		Quantity:    quantity,
		IsBundle:    p.IsBundle(),
	}
	if v != nil {
		item.VariationName = v.Name
		if v.SKU != nil && *v.SKU != "" {
			item.SKU = *v.SKU
		}
	}
	c.items = append(c.items, item)
	return item, nil
}

// UpdateQuantity adds delta to a line, never going below 1
func (c *Cart) UpdateQuantity(key string, delta int) (LineItem, error) {
	for i := range c.items {
		if c.items[i].Key == key {
			q := c.items[i].Quantity + delta
			if q < 1 {
				q = 1
			}
			c.items[i].Quantity = q
			return c.items[i], nil
		}
	}
	return LineItem{}, ErrLineNotFound
}

// RemoveItem deletes a line
func (c *Cart) RemoveItem(key string) error {
	for i := range c.items {
		if c.items[i].Key == key {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

// Items returns a copy of the lines
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// SubTotal is Σ(linePrice × quantity)
func (c *Cart) SubTotal() int64 {
	var total int64
	for _, item := range c.items {
		total += item.Total()
	}
	return total
}

// Clear empties the cart after a sale
func (c *Cart) Clear() {
	c.items = nil
}
