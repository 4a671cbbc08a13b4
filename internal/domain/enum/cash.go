package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// CashMovementType classifies a cash-register ledger entry
type CashMovementType int

const (
	CashOpening    CashMovementType = 0
	CashSale       CashMovementType = 1
	CashWithdrawal CashMovementType = 2
	CashSupply     CashMovementType = 3
)

var cashMovementTypeLabels = []string{"opening", "sale", "withdrawal", "supply"}

func (t CashMovementType) String() string { return label(cashMovementTypeLabels, int(t)) }

// Label is the Portuguese name shown to operators.
func (t CashMovementType) Label() string {
	switch t {
	case CashOpening:
		return "Abertura"
	case CashSale:
		return "Venda"
	case CashWithdrawal:
		return "Sangria"
	case CashSupply:
		return "Suprimento"
	}
	return t.String()
}

func (t CashMovementType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *CashMovementType) UnmarshalJSON(data []byte) error {
	i, err := decode(cashMovementTypeLabels, data)
	if err != nil {
		return err
	}
	*t = CashMovementType(i)
	return nil
}

func (t CashMovementType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *CashMovementType) Scan(value interface{}) error {
	*t = CashMovementType(scan(value))
	return nil
}

// CashPaymentMethod is the tender recorded on a cash-register movement
type CashPaymentMethod int

const (
	CashPaymentCash   CashPaymentMethod = 0
	CashPaymentCredit CashPaymentMethod = 1
	CashPaymentDebit  CashPaymentMethod = 2
	CashPaymentPix    CashPaymentMethod = 3
)

var cashPaymentMethodLabels = []string{"cash", "credit", "debit", "pix"}

func (m CashPaymentMethod) String() string { return label(cashPaymentMethodLabels, int(m)) }

// Label is the Portuguese name shown to operators.
func (m CashPaymentMethod) Label() string {
	switch m {
	case CashPaymentCash:
		return "Dinheiro"
	case CashPaymentCredit:
		return "Cartão de Crédito"
	case CashPaymentDebit:
		return "Cartão de Débito"
	case CashPaymentPix:
		return "Pix"
	}
	return m.String()
}

func (m CashPaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *CashPaymentMethod) UnmarshalJSON(data []byte) error {
	i, err := decode(cashPaymentMethodLabels, data)
	if err != nil {
		return err
	}
	*m = CashPaymentMethod(i)
	return nil
}

func (m CashPaymentMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *CashPaymentMethod) Scan(value interface{}) error {
	*m = CashPaymentMethod(scan(value))
	return nil
}

// CashRegisterStatus is open or closed
type CashRegisterStatus int

const (
	RegisterOpen   CashRegisterStatus = 0
	RegisterClosed CashRegisterStatus = 1
)

var cashRegisterStatusLabels = []string{"open", "closed"}

func (s CashRegisterStatus) String() string { return label(cashRegisterStatusLabels, int(s)) }

func (s CashRegisterStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *CashRegisterStatus) UnmarshalJSON(data []byte) error {
	i, err := decode(cashRegisterStatusLabels, data)
	if err != nil {
		return err
	}
	*s = CashRegisterStatus(i)
	return nil
}

func (s CashRegisterStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *CashRegisterStatus) Scan(value interface{}) error {
	*s = CashRegisterStatus(scan(value))
	return nil
}
