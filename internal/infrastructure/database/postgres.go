package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/primake/primake-api/internal/config"
	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Info("connected to PostgreSQL", zap.String("host", cfg.Host), zap.String("database", cfg.Name))
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	err := db.AutoMigrate(
		// People
		&entity.User{},
		&entity.Customer{},

		// Catalog
		&entity.Product{},
		&entity.BundleComponent{},
		&entity.ProductVariation{},

		// Sales
		&entity.Sale{},
		&entity.SaleItem{},
		&entity.PaymentPart{},
		&entity.Delivery{},

		// Cash and goals
		&entity.CashRegister{},
		&entity.CashMovement{},
		&entity.SalesGoal{},

		// System
		&entity.CompanySettings{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

// SeedDefaultData creates the company settings row and, when configured,
// the first administrator account. Existing rows are left untouched.
func SeedDefaultData(db *gorm.DB, admin config.AdminConfig, log *zap.Logger) error {
	var settings entity.CompanySettings
	err := db.First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = entity.DefaultCompanySettings()
		if err := db.Create(&settings).Error; err != nil {
			return fmt.Errorf("failed to seed company settings: %w", err)
		}
		log.Info("company settings seeded", zap.String("name", settings.Name))
	} else if err != nil {
		return err
	}

	if admin.Email == "" || admin.Password == "" {
		log.Debug("admin credentials not configured, skipping admin seed")
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(admin.Email))
	var existing entity.User
	err = db.Where("LOWER(email) = ?", email).First(&existing).Error
	if err == nil {
		log.Debug("admin user already exists", zap.String("email", email))
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := utils.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	name := admin.Name
	if name == "" {
		name = "Administrador"
	}

	user := entity.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     enum.RoleAdministrador,
		Active:   true,
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Info("admin user created", zap.String("email", email))
	return nil
}
