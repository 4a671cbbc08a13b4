package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(name string, stock int, cost, sale int64) entity.Product {
	return entity.Product{ID: uuid.New(), Name: name, Stock: stock, PriceCost: cost, PriceSale: sale}
}

func TestStock(t *testing.T) {
	a := product("Batom", 10, 1000, 2500)
	b := product("Rímel", 3, 1500, 4000)
	lookup := FromSlice([]entity.Product{a, b})

	components := []entity.BundleComponent{
		{ProductID: a.ID, Quantity: 2},
		{ProductID: b.ID, Quantity: 1},
	}
	assert.Equal(t, 3, Stock(components, lookup))

	t.Run("empty list", func(t *testing.T) {
		assert.Equal(t, 0, Stock(nil, lookup))
	})

	t.Run("missing component", func(t *testing.T) {
		missing := append(components, entity.BundleComponent{ProductID: uuid.New(), Quantity: 1})
		assert.Equal(t, 0, Stock(missing, lookup))
	})

	t.Run("floor division", func(t *testing.T) {
		assert.Equal(t, 3, Stock([]entity.BundleComponent{{ProductID: a.ID, Quantity: 3}}, lookup))
	})
}

func TestSummarize(t *testing.T) {
	a := product("Batom", 10, 1000, 2500)
	b := product("Rímel", 3, 1500, 4000)
	bundle := entity.Product{
		Name:      "Kit Make",
		Category:  enum.CategoryBundle,
		PriceSale: 7200,
		BundleComponents: []entity.BundleComponent{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 1},
		},
	}

	s := Summarize(&bundle, FromSlice([]entity.Product{a, b}))
	assert.Equal(t, 3, s.Stock)
	assert.Equal(t, int64(3500), s.CostValue)
	assert.Equal(t, int64(9000), s.RealValue)
	assert.Equal(t, int64(1800), s.Savings)
	assert.Equal(t, 20, s.SavingsPercent)
}

func TestSummarizeZeroRealValue(t *testing.T) {
	bundle := entity.Product{Category: enum.CategoryBundle, PriceSale: 1000}
	s := Summarize(&bundle, FromSlice(nil))
	assert.Equal(t, 0, s.SavingsPercent)
	assert.Equal(t, int64(-1000), s.Savings)
}

func TestValidate(t *testing.T) {
	a := product("Batom", 10, 1000, 2500)
	kit := product("Kit", 0, 0, 0)
	kit.Category = enum.CategoryBundle
	lookup := FromSlice([]entity.Product{a, kit})

	assert.ErrorIs(t, Validate(nil, lookup), ErrNoComponents)
	assert.ErrorIs(t, Validate([]entity.BundleComponent{{ProductID: a.ID, Quantity: 0}}, lookup), ErrInvalidComponent)
	assert.ErrorIs(t, Validate([]entity.BundleComponent{{ProductID: uuid.New(), Quantity: 1}}, lookup), ErrComponentNotFound)
	assert.ErrorIs(t, Validate([]entity.BundleComponent{{ProductID: kit.ID, Quantity: 1}}, lookup), ErrNestedBundle)
	require.NoError(t, Validate([]entity.BundleComponent{{ProductID: a.ID, Quantity: 2}}, lookup))
}

func TestDemand(t *testing.T) {
	a := product("Batom", 10, 1000, 2500)
	bundle := entity.Product{
		ID:       uuid.New(),
		Category: enum.CategoryBundle,
		BundleComponents: []entity.BundleComponent{
			{ProductID: a.ID, Quantity: 2, Product: &a},
		},
	}

	d := Demand(&bundle, nil, 3)
	require.Len(t, d, 1)
	assert.Equal(t, a.ID, d[0].ProductID)
	assert.Equal(t, 6, d[0].Quantity)
	assert.Equal(t, "Batom", d[0].Name)

	v := uuid.New()
	d = Demand(&a, &v, 2)
	require.Len(t, d, 1)
	assert.Equal(t, &v, d[0].VariationID)
	assert.Equal(t, 2, d[0].Quantity)
}
