package service

import (
	"context"
	"strings"

	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/repository"
	"github.com/primake/primake-api/pkg/apperror"
	"github.com/primake/primake-api/pkg/utils"
)

// SettingsService handles the company details printed on receipts
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
	}
}

// GetSettings retrieves the company settings, falling back to defaults when
// none have been saved
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.CompanySettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		defaults := entity.DefaultCompanySettings()
		return &defaults, nil
	}
	return settings, nil
}

// UpdateSettingsInput represents the input for updating settings
type UpdateSettingsInput struct {
	Name           string
	CNPJ           string
	Email          string
	Phone          string
	Address        string
	City           string
	Website        string
	ReceiptMessage string
	LogoURL        string
}

// UpdateSettings overwrites the company settings
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.CompanySettings, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "Store name is required"}})
	}
	cnpj := strings.TrimSpace(input.CNPJ)
	if cnpj != "" {
		if n := len(utils.DigitsOnly(cnpj)); n != 14 {
			return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "cnpj", Message: "CNPJ must have 14 digits"}})
		}
	}

	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	settings.Name = name
	settings.CNPJ = cnpj
	settings.Email = strings.TrimSpace(input.Email)
	settings.Phone = strings.TrimSpace(input.Phone)
	settings.Address = strings.TrimSpace(input.Address)
	settings.City = strings.TrimSpace(input.City)
	settings.Website = strings.TrimSpace(input.Website)
	settings.ReceiptMessage = strings.TrimSpace(input.ReceiptMessage)
	settings.LogoURL = strings.TrimSpace(input.LogoURL)

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
