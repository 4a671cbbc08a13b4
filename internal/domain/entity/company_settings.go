package entity

import "time"

// CompanySettings holds the single row of store details printed on receipts
type CompanySettings struct {
	ID             uint      `gorm:"primary_key" json:"-"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	CNPJ           string    `gorm:"size:30;column:cnpj" json:"cnpj"`
	Email          string    `gorm:"size:255" json:"email"`
	Phone          string    `gorm:"size:50" json:"phone"`
	Address        string    `gorm:"type:text" json:"address"`
	City           string    `gorm:"size:100" json:"city"`
	Website        string    `gorm:"size:255" json:"website"`
	ReceiptMessage string    `gorm:"type:text" json:"receipt_message"`
	LogoURL        string    `gorm:"size:500" json:"logo_url"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName returns the table name for the CompanySettings model
func (CompanySettings) TableName() string {
	return "company_settings"
}

// DefaultCompanySettings is used until an administrator saves the real values
func DefaultCompanySettings() CompanySettings {
	return CompanySettings{
		ID:             1,
		Name:           "PriMake",
		ReceiptMessage: "Obrigado pela preferência!",
	}
}
