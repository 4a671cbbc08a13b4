package request

// UpdateSettingsRequest represents the company details printed on receipts
type UpdateSettingsRequest struct {
	Name           string `json:"name" binding:"required"`
	CNPJ           string `json:"cnpj"`
	Email          string `json:"email" binding:"omitempty,email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	City           string `json:"city"`
	Website        string `json:"website"`
	ReceiptMessage string `json:"receipt_message"`
	LogoURL        string `json:"logo_url"`
}
