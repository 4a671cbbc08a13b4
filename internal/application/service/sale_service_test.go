package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/pkg/apperror"
	"github.com/primake/primake-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireReason(t *testing.T, err error, code int, reason string) {
	t.Helper()
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, reason, appErr.Reason)
}

func TestCompleteSale_RegisterClosed(t *testing.T) {
	p := product("Batom", 2500, 5)
	f := newSaleFixture(p)

	_, err := f.service.CompleteSale(context.Background(), &CompleteSaleInput{
		Items:         []SaleItemInput{{ProductID: p.ID, Quantity: 1}},
		PaymentMethod: methodPtr(enum.PaymentPix),
	})
	assert.ErrorIs(t, err, apperror.ErrCashRegisterClosed)
	assert.Empty(t, f.sales.sales)
}

func TestCompleteSale_CashWithDiscount(t *testing.T) {
	p := product("Base Líquida", 5000, 5)
	f := newSaleFixture(p)
	f.openRegister()
	seller := uuid.New()

	result, err := f.service.CompleteSale(context.Background(), &CompleteSaleInput{
		SellerID:        seller,
		SellerName:      "Ana",
		Items:           []SaleItemInput{{ProductID: p.ID, Quantity: 2}},
		DiscountPercent: 10,
		PaymentMethod:   methodPtr(enum.PaymentMoney),
		CashReceived:    floatPtr(100),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Sale)
	assert.Empty(t, result.Warnings)
	assert.NotNil(t, result.Warnings)

	sale := result.Sale
	assert.True(t, strings.HasPrefix(sale.ID, "TRX-"))
	assert.Equal(t, int64(10000), sale.SubTotal)
	assert.Equal(t, int64(1000), sale.Discount)
	assert.Equal(t, int64(9000), sale.BaseTotal)
	assert.Equal(t, int64(0), sale.Surcharge)
	assert.Equal(t, int64(9000), sale.Total)
	assert.Equal(t, int64(10000), sale.CashReceived)
	assert.Equal(t, int64(1000), sale.Change)
	assert.Equal(t, "Dinheiro", sale.PaymentLabel)
	assert.Equal(t, entity.DefaultCustomerName, sale.CustomerName)
	assert.Equal(t, enum.SaleStatusCompleted, sale.Status)
	require.NotNil(t, sale.SellerID)
	assert.Equal(t, seller, *sale.SellerID)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, int64(10000), sale.Items[0].Total)

	assert.Same(t, sale, f.sales.sales[sale.ID])
	assert.Equal(t, 3, f.products.products[p.ID].Stock)

	movements, _ := f.cash.ListMovements(context.Background(), f.register.ID)
	require.Len(t, movements, 1)
	assert.Equal(t, enum.CashSale, movements[0].Type)
	assert.Equal(t, int64(9000), movements[0].Amount)
	assert.Equal(t, enum.CashPaymentCash, movements[0].PaymentMethod)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, EventSaleCompleted, f.publisher.events[0].EventType)
	assert.Equal(t, sale.ID, f.publisher.keys[0])
}

func TestCompleteSale_SplitCreditAndPix(t *testing.T) {
	p := product("Paleta", 10000, 3)
	f := newSaleFixture(p)
	f.openRegister()

	result, err := f.service.CompleteSale(context.Background(), &CompleteSaleInput{
		Items: []SaleItemInput{{ProductID: p.ID, Quantity: 1}},
		Payments: []PaymentPartInput{
			{Method: enum.PaymentCredit, Amount: floatPtr(50), Installments: 3},
			{Method: enum.PaymentPix},
		},
	})
	require.NoError(t, err)

	sale := result.Sale
	assert.Equal(t, int64(10000), sale.BaseTotal)
	assert.Equal(t, int64(250), sale.Surcharge)
	assert.Equal(t, int64(10250), sale.Total)
	assert.Equal(t, "Cartão Crédito (3x) + Pix", sale.PaymentLabel)
	assert.Equal(t, 3, sale.Installments)
	assert.Zero(t, sale.Change)

	require.Len(t, sale.Payments, 2)
	assert.Equal(t, int64(5000), sale.Payments[0].Amount)
	assert.Equal(t, int64(5250), sale.Payments[0].Charged)
	assert.Equal(t, int64(5000), sale.Payments[1].Charged)

	movements, _ := f.cash.ListMovements(context.Background(), f.register.ID)
	require.Len(t, movements, 2)
	assert.Equal(t, enum.CashPaymentCredit, movements[0].PaymentMethod)
	assert.Equal(t, int64(5250), movements[0].Amount)
	assert.Equal(t, enum.CashPaymentPix, movements[1].PaymentMethod)
}

func TestCompleteSale_Rejections(t *testing.T) {
	active := product("Rímel", 10000, 10)
	inactive := product("Antigo", 1000, 10)
	inactive.IsActive = false

	tests := []struct {
		name   string
		input  *CompleteSaleInput
		code   int
		reason string
	}{
		{
			name:   "empty cart",
			input:  &CompleteSaleInput{PaymentMethod: methodPtr(enum.PaymentPix)},
			code:   http.StatusUnprocessableEntity,
			reason: "empty_cart",
		},
		{
			name: "payment short of total",
			input: &CompleteSaleInput{
				Items:    []SaleItemInput{{ProductID: active.ID, Quantity: 1}},
				Payments: []PaymentPartInput{{Method: enum.PaymentMoney, Amount: floatPtr(40)}},
			},
			code:   http.StatusUnprocessableEntity,
			reason: "payment_not_allocated",
		},
		{
			name:   "no payment method",
			input:  &CompleteSaleInput{Items: []SaleItemInput{{ProductID: active.ID, Quantity: 1}}},
			code:   http.StatusUnprocessableEntity,
			reason: "payment_method_required",
		},
		{
			name: "installments on debit",
			input: &CompleteSaleInput{
				Items:         []SaleItemInput{{ProductID: active.ID, Quantity: 1}},
				PaymentMethod: methodPtr(enum.PaymentDebit),
				Installments:  2,
			},
			code:   http.StatusUnprocessableEntity,
			reason: "invalid_installments",
		},
		{
			name: "inactive product",
			input: &CompleteSaleInput{
				Items:         []SaleItemInput{{ProductID: inactive.ID, Quantity: 1}},
				PaymentMethod: methodPtr(enum.PaymentPix),
			},
			code:   http.StatusUnprocessableEntity,
			reason: "product_inactive",
		},
		{
			name: "delivery without customer",
			input: &CompleteSaleInput{
				Items:         []SaleItemInput{{ProductID: active.ID, Quantity: 1}},
				PaymentMethod: methodPtr(enum.PaymentPix),
				IsDelivery:    true,
				MotoboyName:   "Carlos",
			},
			code:   http.StatusUnprocessableEntity,
			reason: "delivery_customer_required",
		},
		{
			name: "cash received below cash part",
			input: &CompleteSaleInput{
				Items:         []SaleItemInput{{ProductID: active.ID, Quantity: 1}},
				PaymentMethod: methodPtr(enum.PaymentMoney),
				CashReceived:  floatPtr(50),
			},
			code:   http.StatusUnprocessableEntity,
			reason: "insufficient_cash",
		},
		{
			name: "unknown product",
			input: &CompleteSaleInput{
				Items:         []SaleItemInput{{ProductID: uuid.New(), Quantity: 1}},
				PaymentMethod: methodPtr(enum.PaymentPix),
			},
			code: http.StatusNotFound,
		},
		{
			name: "delivery without motoboy",
			input: &CompleteSaleInput{
				Items:         []SaleItemInput{{ProductID: active.ID, Quantity: 1}},
				PaymentMethod: methodPtr(enum.PaymentPix),
				IsDelivery:    true,
			},
			code: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSaleFixture(active, inactive)
			f.openRegister()

			_, err := f.service.CompleteSale(context.Background(), tt.input)
			requireReason(t, err, tt.code, tt.reason)
			assert.Empty(t, f.sales.sales)
			assert.Empty(t, f.publisher.events)
		})
	}
}

func TestCompleteSale_DeliveryWithCustomer(t *testing.T) {
	p := product("Perfume", 12000, 2)
	phone := "11999990000"
	address := "Rua das Flores, 10"
	customer := &entity.Customer{ID: uuid.New(), Name: "Maria", Phone: &phone, Address: &address, IsActive: true}

	f := newSaleFixture(p)
	f.openRegister()
	f.customers.customers[customer.ID] = customer

	result, err := f.service.CompleteSale(context.Background(), &CompleteSaleInput{
		CustomerID:    &customer.ID,
		Items:         []SaleItemInput{{ProductID: p.ID, Quantity: 1}},
		IsDelivery:    true,
		DeliveryFee:   8,
		MotoboyName:   "Carlos",
		PaymentMethod: methodPtr(enum.PaymentPix),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	sale := result.Sale
	assert.Equal(t, int64(800), sale.DeliveryFee)
	assert.Equal(t, int64(12800), sale.Total)
	assert.Equal(t, "Maria", sale.CustomerName)
	assert.Equal(t, "Carlos", sale.MotoboyName)

	require.NotNil(t, result.Delivery)
	d := result.Delivery
	assert.True(t, strings.HasPrefix(d.ID, "DEL-"))
	assert.Equal(t, sale.ID, *d.SaleID)
	assert.Equal(t, enum.DeliveryMotoboy, d.Method)
	assert.Equal(t, enum.DeliveryPendente, d.Status)
	assert.Equal(t, enum.SourceStore, d.Source)
	assert.Equal(t, int64(800), d.Fee)
	assert.Equal(t, int64(12800), d.TotalValue)
	assert.Equal(t, "11999990000", d.Phone)
	assert.Equal(t, address, d.Address)
	assert.Equal(t, saleDeliveryCity, d.City)
	assert.Equal(t, "1x Perfume", d.ItemsSummary)

	assert.Equal(t, int64(12800), customer.TotalSpent)
	require.NotNil(t, customer.LastPurchase)
}

func TestCompleteSale_BundleDecrementsComponents(t *testing.T) {
	gloss := product("Gloss", 2000, 10)
	lapis := product("Lápis", 1500, 10)
	kit := product("Kit Boca", 3000, 0)
	kit.Category = enum.CategoryBundle
	kit.BundleComponents = []entity.BundleComponent{
		{ProductID: gloss.ID, Quantity: 2, Product: gloss},
		{ProductID: lapis.ID, Quantity: 1, Product: lapis},
	}

	f := newSaleFixture(gloss, lapis, kit)
	f.openRegister()

	result, err := f.service.CompleteSale(context.Background(), &CompleteSaleInput{
		Items:         []SaleItemInput{{ProductID: kit.ID, Quantity: 2}},
		PaymentMethod: methodPtr(enum.PaymentDebit),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
	assert.True(t, result.Sale.Items[0].IsBundle)

	assert.Equal(t, 6, f.products.products[gloss.ID].Stock)
	assert.Equal(t, 8, f.products.products[lapis.ID].Stock)
	assert.Equal(t, 0, f.products.products[kit.ID].Stock)
}

func TestCompleteSale_VariationStock(t *testing.T) {
	p := product("Esmalte", 1200, 0)
	v := entity.ProductVariation{ID: uuid.New(), ProductID: p.ID, Name: "Vermelho", Type: "Cor", Stock: 4}
	p.Variations = []entity.ProductVariation{v}

	f := newSaleFixture(p)
	f.openRegister()

	result, err := f.service.CompleteSale(context.Background(), &CompleteSaleInput{
		Items:         []SaleItemInput{{ProductID: p.ID, VariationID: &v.ID, Quantity: 3}},
		PaymentMethod: methodPtr(enum.PaymentPix),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, "Vermelho", result.Sale.Items[0].VariationName)
	assert.Equal(t, 1, f.products.products[p.ID].Variations[0].Stock)

	missing := uuid.New()
	_, err = f.service.CompleteSale(context.Background(), &CompleteSaleInput{
		Items:         []SaleItemInput{{ProductID: p.ID, VariationID: &missing, Quantity: 1}},
		PaymentMethod: methodPtr(enum.PaymentPix),
	})
	requireReason(t, err, http.StatusUnprocessableEntity, "")
}

func TestCompleteSale_SideEffectFailuresBecomeWarnings(t *testing.T) {
	p := product("Blush", 3000, 1)
	f := newSaleFixture(p)
	f.openRegister()
	f.publisher.err = errStoreDown
	f.cash.addErr = errStoreDown

	result, err := f.service.CompleteSale(context.Background(), &CompleteSaleInput{
		Items:         []SaleItemInput{{ProductID: p.ID, Quantity: 2}},
		PaymentMethod: methodPtr(enum.PaymentPix),
	})
	require.NoError(t, err)
	require.NotNil(t, f.sales.sales[result.Sale.ID])

	steps := make([]string, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		steps = append(steps, w.Step)
	}
	assert.Equal(t, []string{"stock", "cash_register", "event"}, steps)
	assert.Contains(t, result.Warnings[0].Message, "Blush")
	assert.Equal(t, 1, f.products.products[p.ID].Stock)
}

func TestCompleteSale_RepositoryFailureAborts(t *testing.T) {
	p := product("Primer", 4000, 3)
	f := newSaleFixture(p)
	f.openRegister()
	f.sales.createErr = errStoreDown

	_, err := f.service.CompleteSale(context.Background(), &CompleteSaleInput{
		Items:         []SaleItemInput{{ProductID: p.ID, Quantity: 1}},
		PaymentMethod: methodPtr(enum.PaymentPix),
	})
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, 3, f.products.products[p.ID].Stock)
	assert.Empty(t, f.publisher.events)
}

func TestCompleteSale_SaleIDCollision(t *testing.T) {
	p := product("Sérum", 8000, 3)
	f := newSaleFixture(p)
	f.openRegister()
	taken := utils.NewSaleID(fixedNow)
	f.sales.sales[taken] = &entity.Sale{ID: taken}

	result, err := f.service.CompleteSale(context.Background(), &CompleteSaleInput{
		Items:         []SaleItemInput{{ProductID: p.ID, Quantity: 1}},
		PaymentMethod: methodPtr(enum.PaymentPix),
	})
	require.NoError(t, err)
	assert.NotEqual(t, taken, result.Sale.ID)
	assert.Len(t, f.sales.sales, 2)
}

func TestUpdateSale(t *testing.T) {
	f := newSaleFixture()
	sale := &entity.Sale{ID: "TRX-000001", Status: enum.SaleStatusCompleted, PaymentLabel: "Pix"}
	f.sales.sales[sale.ID] = sale

	cancelled := enum.SaleStatusCancelled
	_, err := f.service.UpdateSale(context.Background(), enum.RoleGerente, sale.ID, &UpdateSaleInput{Status: &cancelled})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	label := "Dinheiro"
	updated, err := f.service.UpdateSale(context.Background(), enum.RoleAdministrador, "trx-000001", &UpdateSaleInput{
		Status:       &cancelled,
		PaymentLabel: &label,
	})
	require.NoError(t, err)
	assert.Equal(t, enum.SaleStatusCancelled, updated.Status)
	assert.Equal(t, "Dinheiro", updated.PaymentLabel)

	empty := "  "
	_, err = f.service.UpdateSale(context.Background(), enum.RoleAdministrador, sale.ID, &UpdateSaleInput{PaymentLabel: &empty})
	requireReason(t, err, http.StatusBadRequest, "")

	_, err = f.service.GetSale(context.Background(), "TRX-999999")
	requireReason(t, err, http.StatusNotFound, "")
}
