// Package money converts between integer cents, the storage unit, and the
// decimal amounts exchanged with clients.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FromFloat converts a decimal amount (12.5) to cents (1250), rounding half
// away from zero.
func FromFloat(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(hundred).Round(0).IntPart()
}

// ToFloat converts cents to a decimal amount.
func ToFloat(cents int64) float64 {
	f, _ := decimal.New(cents, -2).Float64()
	return f
}

// Format renders cents with two decimals and a dot separator, e.g. "12.50".
func Format(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// BRL renders cents the way receipts print them, e.g. "R$ 1.234,50".
func BRL(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	fixed := Format(cents)
	intPart, frac := fixed[:len(fixed)-3], fixed[len(fixed)-2:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + "R$ " + b.String() + "," + frac
}

// Percent returns pct% of cents, rounded to the nearest cent.
func Percent(cents int64, pct float64) int64 {
	return decimal.NewFromInt(cents).
		Mul(decimal.NewFromFloat(pct)).
		Div(hundred).
		Round(0).
		IntPart()
}

// Rate returns cents × rate (rate given as a fraction, 0.02 = 2%), rounded to the cent.
func Rate(cents int64, rate float64) int64 {
	return decimal.NewFromInt(cents).
		Mul(decimal.NewFromFloat(rate)).
		Round(0).
		IntPart()
}

// Abs returns the absolute value of a cent amount.
func Abs(cents int64) int64 {
	if cents < 0 {
		return -cents
	}
	return cents
}
