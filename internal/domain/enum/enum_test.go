package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleJSON(t *testing.T) {
	raw, err := json.Marshal(RoleMotoboy)
	require.NoError(t, err)
	assert.Equal(t, `"Motoboy"`, string(raw))

	var r Role
	require.NoError(t, json.Unmarshal([]byte(`"vendedor"`), &r))
	assert.Equal(t, RoleVendedor, r)

	require.NoError(t, json.Unmarshal([]byte(`4`), &r))
	assert.Equal(t, RoleCaixa, r)

	assert.Error(t, json.Unmarshal([]byte(`"Vendedora"`), &r))
	assert.Error(t, json.Unmarshal([]byte(`42`), &r))
}

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role        Role
		sales       bool
		editSales   bool
		ownDelivery bool
		ownCommiss  bool
	}{
		{RoleAdministrador, true, true, false, false},
		{RoleGerente, true, false, false, false},
		{RoleVendedor, true, false, false, true},
		{RoleEstoquista, false, false, false, false},
		{RoleCaixa, false, false, false, false},
		{RoleMotoboy, false, false, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			assert.Equal(t, tt.sales, tt.role.IsSalesRole())
			assert.Equal(t, tt.editSales, tt.role.CanEditSales())
			assert.Equal(t, tt.ownDelivery, tt.role.SeesOnlyOwnDeliveries())
			assert.Equal(t, tt.ownCommiss, tt.role.CommissionOnOwnSales())
		})
	}
	assert.Len(t, AllRoles(), 6)
}

func TestDeliveryStatusTerminal(t *testing.T) {
	terminal := map[DeliveryStatus]bool{
		DeliveryPendente:  false,
		DeliveryEmPreparo: false,
		DeliveryEmRota:    false,
		DeliveryEntregue:  true,
		DeliveryCancelado: true,
		DeliveryProblema:  false,
	}
	for s, want := range terminal {
		assert.Equal(t, want, s.IsTerminal(), s.String())
	}

	s, ok := ParseDeliveryStatus("em rota")
	assert.True(t, ok)
	assert.Equal(t, DeliveryEmRota, s)
}

func TestDeliveryMethodBuckets(t *testing.T) {
	assert.True(t, DeliveryMotoboy.IsLocal())
	assert.False(t, DeliveryMotoboy.IsDispatch())
	assert.True(t, DeliveryCorreios.IsDispatch())
	assert.True(t, DeliveryJadlog.IsDispatch())
	assert.False(t, DeliveryRetirada.IsLocal())
	assert.False(t, DeliveryRetirada.IsDispatch())
}

func TestPaymentMethodLabels(t *testing.T) {
	assert.Equal(t, "Cartão Crédito (3x)", PaymentCredit.ReceiptLabel(3))
	assert.Equal(t, "Cartão Crédito (1x)", PaymentCredit.ReceiptLabel(0))
	assert.Equal(t, "Cartão Débito", PaymentDebit.ReceiptLabel(5))
	assert.Equal(t, "Dinheiro", PaymentMoney.ReceiptLabel(1))
	assert.Equal(t, "Pix", PaymentPix.ReceiptLabel(1))

	assert.Equal(t, CashPaymentCash, PaymentMoney.CashMethod())
	assert.Equal(t, CashPaymentPix, PaymentPix.CashMethod())
}

func TestCashLabels(t *testing.T) {
	assert.Equal(t, "Sangria", CashWithdrawal.Label())
	assert.Equal(t, "Suprimento", CashSupply.Label())
	assert.Equal(t, "Cartão de Débito", CashPaymentDebit.Label())

	raw, err := json.Marshal(CashSale)
	require.NoError(t, err)
	assert.Equal(t, `"sale"`, string(raw))
}

func TestCategoryRoundTrip(t *testing.T) {
	var c ProductCategory
	require.NoError(t, json.Unmarshal([]byte(`"Kit / Combo"`), &c))
	assert.Equal(t, CategoryBundle, c)
	assert.Equal(t, "Kit / Combo", c.String())
	assert.Equal(t, "Unknown", ProductCategory(99).String())
}
