package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAppError(t *testing.T) {
	wrapped := fmt.Errorf("complete sale: %w", ErrCashRegisterClosed)

	assert.True(t, IsAppError(wrapped))
	got := GetAppError(wrapped)
	assert.Equal(t, http.StatusConflict, got.Code)
	assert.Equal(t, "cash_register_closed", got.Reason)

	plain := GetAppError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, plain.Code)
	assert.Equal(t, "boom", plain.Message)
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, "Product not found", NewNotFoundError("Product").Message)
	assert.Equal(t, http.StatusUnprocessableEntity, NewUnprocessableError("x", "y").Code)
	assert.Equal(t, http.StatusForbidden, NewForbiddenError("no").Code)

	v := NewValidationError([]FieldError{{Field: "sku", Message: "required"}})
	assert.Equal(t, http.StatusUnprocessableEntity, v.Code)
	assert.Len(t, v.Errors, 1)
}
