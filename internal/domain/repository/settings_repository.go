package repository

import (
	"context"

	"github.com/primake/primake-api/internal/domain/entity"
)

// SettingsRepository defines the interface for company settings data access
type SettingsRepository interface {
	// Get returns the settings row, or nil when none has been saved
	Get(ctx context.Context) (*entity.CompanySettings, error)
	Save(ctx context.Context, settings *entity.CompanySettings) error
}
