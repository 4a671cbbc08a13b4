package checkout

import (
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/pkg/money"
)

// Rules are the store settings that drive totals and settlement
type Rules struct {
	CreditSurchargePercent float64
	ToleranceCents         int64
	MaxInstallments        int
}

// DefaultRules: 5% credit surcharge, 1 cent tolerance, up to 12 installments
func DefaultRules() Rules {
	return Rules{
		CreditSurchargePercent: 5,
		ToleranceCents:         1,
		MaxInstallments:        12,
	}
}

// Adjustments are the sale-level inputs applied on top of the cart
type Adjustments struct {
	DiscountPercent float64
	IsDelivery      bool
	DeliveryFee     int64
}

// Totals is the breakdown of a sale in cents
type Totals struct {
	SubTotal        int64
	DiscountPercent float64
	Discount        int64
	DeliveryFee     int64
	BaseTotal       int64
	Surcharge       int64
	FinalTotal      int64
}

// Part is one allocation of the base total to a payment method
type Part struct {
	Method       enum.PaymentMethod
	Amount       int64
	Installments int
}

// Surcharge is the credit fee added on top of this part
func (p Part) Surcharge(rules Rules) int64 {
	if p.Method != enum.PaymentCredit {
		return 0
	}
	return money.Percent(p.Amount, rules.CreditSurchargePercent)
}

// Charged is what the customer actually pays for this part
func (p Part) Charged(rules Rules) int64 {
	return p.Amount + p.Surcharge(rules)
}

// BaseTotal applies discount and delivery fee to a subtotal. The discount is
// clamped to [0,100] and the fee to >= 0, so the result is never negative.
func BaseTotal(subTotal int64, adj Adjustments) Totals {
	pct := adj.DiscountPercent
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	t := Totals{SubTotal: subTotal, DiscountPercent: pct}
	t.Discount = money.Percent(subTotal, pct)
	if adj.IsDelivery && adj.DeliveryFee > 0 {
		t.DeliveryFee = adj.DeliveryFee
	}
	t.BaseTotal = subTotal - t.Discount + t.DeliveryFee
	if t.BaseTotal < 0 {
		t.BaseTotal = 0
	}
	t.FinalTotal = t.BaseTotal
	return t
}

// Compute runs the full totals pipeline for a cart and its payment parts.
func Compute(cart *Cart, adj Adjustments, parts []Part, rules Rules) (Totals, error) {
	if cart == nil || cart.IsEmpty() {
		return Totals{}, ErrEmptyCart
	}
	t := BaseTotal(cart.SubTotal(), adj)
	t.Surcharge = TotalSurcharge(parts, rules)
	t.FinalTotal = t.BaseTotal + t.Surcharge
	return t, nil
}

// TotalSurcharge sums the credit surcharge of every part
func TotalSurcharge(parts []Part, rules Rules) int64 {
	var s int64
	for _, p := range parts {
		s += p.Surcharge(rules)
	}
	return s
}
