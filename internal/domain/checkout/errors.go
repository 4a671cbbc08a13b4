package checkout

import (
	"errors"
	"fmt"

	"github.com/primake/primake-api/pkg/money"
)

var (
	ErrEmptyCart            = errors.New("o carrinho está vazio")
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrLineNotFound         = errors.New("cart line not found")
	ErrNoPaymentMethod      = errors.New("selecione uma forma de pagamento")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidAmount        = errors.New("payment amount must be greater than zero")
	ErrInvalidInstallments  = errors.New("installments must be between 1 and 12 and are only allowed for credit")
	ErrPaymentNotAllocated  = errors.New("payment parts do not match the sale total")
)

// AllocationError reports how far the payment parts are from the final total.
// A positive Shortfall means money is missing, a negative one means excess.
type AllocationError struct {
	Shortfall int64
}

func (e *AllocationError) Error() string {
	if e.Shortfall > 0 {
		return fmt.Sprintf("pagamento incompleto: faltam R$ %s", money.Format(e.Shortfall))
	}
	return fmt.Sprintf("pagamento excede o total em R$ %s", money.Format(-e.Shortfall))
}

func (e *AllocationError) Is(target error) bool {
	return target == ErrPaymentNotAllocated
}
