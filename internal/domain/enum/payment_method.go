package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentMethod is how a customer tenders (part of) a sale at the counter.
type PaymentMethod int

const (
	PaymentMoney  PaymentMethod = 0
	PaymentCredit PaymentMethod = 1
	PaymentDebit  PaymentMethod = 2
	PaymentPix    PaymentMethod = 3
)

var paymentMethodLabels = []string{"money", "credit", "debit", "pix"}

func (m PaymentMethod) String() string { return label(paymentMethodLabels, int(m)) }

func (m PaymentMethod) IsValid() bool { return m >= PaymentMoney && m <= PaymentPix }

// ParsePaymentMethod converts "money", "credit", "debit" or "pix".
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	i, ok := parse(paymentMethodLabels, s)
	return PaymentMethod(i), ok
}

// ReceiptLabel is the wording printed on the receipt. Installments are only
// shown for credit.
func (m PaymentMethod) ReceiptLabel(installments int) string {
	switch m {
	case PaymentCredit:
		if installments < 1 {
			installments = 1
		}
		return fmt.Sprintf("Cartão Crédito (%dx)", installments)
	case PaymentDebit:
		return "Cartão Débito"
	case PaymentMoney:
		return "Dinheiro"
	case PaymentPix:
		return "Pix"
	}
	return "Pix"
}

// CashMethod maps the counter method onto the cash-register ledger method.
func (m PaymentMethod) CashMethod() CashPaymentMethod {
	switch m {
	case PaymentMoney:
		return CashPaymentCash
	case PaymentCredit:
		return CashPaymentCredit
	case PaymentDebit:
		return CashPaymentDebit
	case PaymentPix:
		return CashPaymentPix
	}
	return CashPaymentPix
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	i, err := decode(paymentMethodLabels, data)
	if err != nil {
		return err
	}
	*m = PaymentMethod(i)
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentMoney
		return nil
	}
	*m = PaymentMethod(scan(value))
	return nil
}
