package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ProductCategory groups catalog items. CategoryBundle marks a kit whose
// stock is derived from its components.
type ProductCategory int

const (
	CategoryCosmetic   ProductCategory = 0
	CategoryClothing   ProductCategory = 1
	CategoryAccessory  ProductCategory = 2
	CategoryElectronic ProductCategory = 3
	CategoryBundle     ProductCategory = 4
)

var productCategoryLabels = []string{"Cosmético", "Roupa", "Acessório", "Eletrônico", "Kit / Combo"}

func (c ProductCategory) String() string { return label(productCategoryLabels, int(c)) }

func (c ProductCategory) IsValid() bool { return c >= CategoryCosmetic && c <= CategoryBundle }

// ParseProductCategory converts a label such as "Roupa" into a category.
func ParseProductCategory(s string) (ProductCategory, bool) {
	i, ok := parse(productCategoryLabels, s)
	return ProductCategory(i), ok
}

func (c ProductCategory) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ProductCategory) UnmarshalJSON(data []byte) error {
	i, err := decode(productCategoryLabels, data)
	if err != nil {
		return err
	}
	*c = ProductCategory(i)
	return nil
}

func (c ProductCategory) Value() (driver.Value, error) {
	return int64(c), nil
}

func (c *ProductCategory) Scan(value interface{}) error {
	if value == nil {
		*c = CategoryCosmetic
		return nil
	}
	*c = ProductCategory(scan(value))
	return nil
}
