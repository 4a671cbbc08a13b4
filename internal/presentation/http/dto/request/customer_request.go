package request

// CustomerRequest represents a customer create or update request
type CustomerRequest struct {
	Name      string  `json:"name" binding:"required,min=2,max=255"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone"`
	CPF       *string `json:"cpf"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	State     *string `json:"state" binding:"omitempty,len=2"`
	BirthDate *string `json:"birth_date"` // YYYY-MM-DD
	Notes     *string `json:"notes"`
}
