package checkout

import (
	"strings"

	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// State of a split payment
type State int

const (
	StateNoMethodSelected State = iota
	StateMethodChosen
	StatePartAdded
	StateFullyAllocated
)

func (s State) String() string {
	switch s {
	case StateNoMethodSelected:
		return "NoMethodSelected"
	case StateMethodChosen:
		return "MethodChosen"
	case StatePartAdded:
		return "PartAdded"
	case StateFullyAllocated:
		return "FullyAllocated"
	}
	return "Unknown"
}

// Settlement allocates a base total across one or more payment methods.
// It is not safe for concurrent use.
type Settlement struct {
	rules        Rules
	baseTotal    int64
	state        State
	method       enum.PaymentMethod
	installments int
	parts        []Part
}

func NewSettlement(baseTotal int64, rules Rules) *Settlement {
	return &Settlement{rules: rules, baseTotal: baseTotal, installments: 1}
}

func (s *Settlement) State() State { return s.state }

// Method returns the last selected method
func (s *Settlement) Method() (enum.PaymentMethod, bool) {
	return s.method, s.state != StateNoMethodSelected
}

// SelectMethod chooses the method used by the next part
func (s *Settlement) SelectMethod(m enum.PaymentMethod) error {
	if !m.IsValid() {
		return ErrInvalidPaymentMethod
	}
	s.method = m
	if s.state == StateNoMethodSelected {
		s.state = StateMethodChosen
	}
	return nil
}

// SetInstallments sets the credit installment count for the next part.
func (s *Settlement) SetInstallments(n int) error {
	if err := ValidateInstallments(s.method, n, s.rules); err != nil {
		return err
	}
	s.installments = n
	return nil
}

// Allocated is Σ part amounts
func (s *Settlement) Allocated() int64 {
	var total int64
	for _, p := range s.parts {
		total += p.Amount
	}
	return total
}

// Remaining is the base total not yet covered by any part
func (s *Settlement) Remaining() int64 {
	r := s.baseTotal - s.Allocated()
	if r < 0 {
		return 0
	}
	return r
}

// FinalTotal is the base total plus the surcharge of every credit part
func (s *Settlement) FinalTotal() int64 {
	return s.baseTotal + TotalSurcharge(s.parts, s.rules)
}

// AddPart appends a part for the selected method. A nil amount takes the
// remaining balance.
func (s *Settlement) AddPart(amount *int64) (Part, error) {
	if s.state == StateNoMethodSelected {
		return Part{}, ErrNoPaymentMethod
	}
	value := s.Remaining()
	if amount != nil {
		value = *amount
	}
	if value <= 0 {
		return Part{}, ErrInvalidAmount
	}

	part := Part{Method: s.method, Amount: value, Installments: 1}
	if s.method == enum.PaymentCredit {
		part.Installments = s.installments
	}
	s.parts = append(s.parts, part)

	if s.Allocated() >= s.baseTotal {
		s.state = StateFullyAllocated
	} else {
		s.state = StatePartAdded
	}
	return part, nil
}

// RemovePart drops the part at index i
func (s *Settlement) RemovePart(i int) error {
	if i < 0 || i >= len(s.parts) {
		return ErrLineNotFound
	}
	s.parts = append(s.parts[:i], s.parts[i+1:]...)
	switch {
	case len(s.parts) == 0:
		s.state = StateMethodChosen
	case s.Allocated() >= s.baseTotal:
		s.state = StateFullyAllocated
	default:
		s.state = StatePartAdded
	}
	return nil
}

// Parts returns a copy of the added parts
func (s *Settlement) Parts() []Part {
	out := make([]Part, len(s.parts))
	copy(out, s.parts)
	return out
}

// Confirm validates the allocation and returns the final parts. With no parts,
// a single implicit part covers the full total under the last selected method.
// A successful confirm resets the settlement.
func (s *Settlement) Confirm() ([]Part, error) {
	var parts []Part
	if len(s.parts) == 0 {
		if s.state == StateNoMethodSelected {
			return nil, ErrNoPaymentMethod
		}
		part := Part{Method: s.method, Amount: s.baseTotal, Installments: 1}
		if s.method == enum.PaymentCredit {
			part.Installments = s.installments
		}
		parts = []Part{part}
	} else {
		if err := CheckAllocation(s.parts, s.FinalTotal(), s.rules); err != nil {
			return nil, err
		}
		parts = s.Parts()
	}

	s.Reset()
	return parts, nil
}

// Reset clears every payment state
func (s *Settlement) Reset() {
	s.parts = nil
	s.state = StateNoMethodSelected
	s.method = enum.PaymentMoney
	s.installments = 1
}

// CheckAllocation rejects parts whose charged sum is more than the tolerance
// away from the final total. The boundary itself is accepted.
func CheckAllocation(parts []Part, finalTotal int64, rules Rules) error {
	var charged int64
	for _, p := range parts {
		charged += p.Charged(rules)
	}
	diff := finalTotal - charged
	if diff > rules.ToleranceCents || -diff > rules.ToleranceCents {
		return &AllocationError{Shortfall: diff}
	}
	return nil
}

// ValidateInstallments allows 1..MaxInstallments for credit and only 1 for
// the other methods.
func ValidateInstallments(m enum.PaymentMethod, n int, rules Rules) error {
	if n < 1 {
		return ErrInvalidInstallments
	}
	if m != enum.PaymentCredit {
		if n != 1 {
			return ErrInvalidInstallments
		}
		return nil
	}
	if n > rules.MaxInstallments {
		return ErrInvalidInstallments
	}
	return nil
}

// InstallmentValue divides an amount for display. It does not change totals.
func InstallmentValue(amount int64, n int) (int64, error) {
	if n < 1 || n > DefaultRules().MaxInstallments {
		return 0, ErrInvalidInstallments
	}
	return decimal.NewFromInt(amount).
		Div(decimal.NewFromInt(int64(n))).
		Round(0).
		IntPart(), nil
}

// CashChange returns the change for a cash part and whether the received
// amount is insufficient.
func CashChange(received, partAmount int64) (change int64, insufficient bool) {
	if received < partAmount {
		return 0, true
	}
	return received - partAmount, false
}

// PaymentLabel is the payment method text stored on the sale
func PaymentLabel(parts []Part) string {
	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		labels = append(labels, p.Method.ReceiptLabel(p.Installments))
	}
	return strings.Join(labels, " + ")
}
