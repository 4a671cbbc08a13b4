package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Logger    LoggerConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Printer   PrinterConfig
	Sales     SalesRules
	Admin     AdminConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret             string
	ExpiryHours        time.Duration
	RefreshExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// AdminConfig seeds the first administrator account on an empty database
type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

type PrinterConfig struct {
	Type      string // none, usb, network
	USBPath   string
	Address   string
	CharWidth int
}

// SalesRules holds the store's commercial constants. They are injected into
// the checkout and commission code instead of living in package globals.
type SalesRules struct {
	CreditSurchargePercent float64
	PaymentToleranceCents  int64
	CommissionThreshold    float64
	CommissionLowRate      float64
	CommissionHighRate     float64
	DaysPerMonth           int
	MaxInstallments        int
}

// DefaultSalesRules returns the rules the store has always operated with.
func DefaultSalesRules() SalesRules {
	return SalesRules{
		CreditSurchargePercent: 5,
		PaymentToleranceCents:  1,
		CommissionThreshold:    3000,
		CommissionLowRate:      0.01,
		CommissionHighRate:     0.02,
		DaysPerMonth:           30,
		MaxInstallments:        12,
	}
}

// Load reads .env when present and the process environment otherwise. The
// returned error only reports an unreadable .env file; the config is usable
// either way.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	envErr := viper.ReadInConfig()

	setDefaults()

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:             viper.GetString("JWT_SECRET"),
			ExpiryHours:        time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			RefreshExpiryHours: time.Duration(viper.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods: splitList(viper.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders: splitList(viper.GetString("CORS_ALLOWED_HEADERS")),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Logger: LoggerConfig{
			Level:    viper.GetString("LOG_LEVEL"),
			Encoding: viper.GetString("LOG_ENCODING"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			TTL:      time.Duration(viper.GetInt("REDIS_TTL_SECONDS")) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: splitList(viper.GetString("KAFKA_BROKERS")),
			Topic:   viper.GetString("KAFKA_SALES_TOPIC"),
		},
		Printer: PrinterConfig{
			Type:      viper.GetString("PRINTER_TYPE"),
			USBPath:   viper.GetString("PRINTER_USB_PATH"),
			Address:   viper.GetString("PRINTER_ADDRESS"),
			CharWidth: viper.GetInt("PRINTER_CHAR_WIDTH"),
		},
		Sales: SalesRules{
			CreditSurchargePercent: viper.GetFloat64("SALES_CREDIT_SURCHARGE_PERCENT"),
			PaymentToleranceCents:  viper.GetInt64("SALES_PAYMENT_TOLERANCE_CENTS"),
			CommissionThreshold:    viper.GetFloat64("SALES_COMMISSION_THRESHOLD"),
			CommissionLowRate:      viper.GetFloat64("SALES_COMMISSION_LOW_RATE"),
			CommissionHighRate:     viper.GetFloat64("SALES_COMMISSION_HIGH_RATE"),
			DaysPerMonth:           viper.GetInt("SALES_DAYS_PER_MONTH"),
			MaxInstallments:        viper.GetInt("SALES_MAX_INSTALLMENTS"),
		},
		Admin: AdminConfig{
			Name:     viper.GetString("ADMIN_NAME"),
			Email:    viper.GetString("ADMIN_EMAIL"),
			Password: viper.GetString("ADMIN_PASSWORD"),
		},
	}, envErr
}

func setDefaults() {
	rules := DefaultSalesRules()

	viper.SetDefault("APP_NAME", "primake-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "primake")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "America/Sao_Paulo")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("CORS_ALLOWED_METHODS", "")
	viper.SetDefault("CORS_ALLOWED_HEADERS", "")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_ENCODING", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_TTL_SECONDS", 300)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_SALES_TOPIC", "primake.sales")
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("PRINTER_CHAR_WIDTH", 48)
	viper.SetDefault("SALES_CREDIT_SURCHARGE_PERCENT", rules.CreditSurchargePercent)
	viper.SetDefault("SALES_PAYMENT_TOLERANCE_CENTS", rules.PaymentToleranceCents)
	viper.SetDefault("SALES_COMMISSION_THRESHOLD", rules.CommissionThreshold)
	viper.SetDefault("SALES_COMMISSION_LOW_RATE", rules.CommissionLowRate)
	viper.SetDefault("SALES_COMMISSION_HIGH_RATE", rules.CommissionHighRate)
	viper.SetDefault("SALES_DAYS_PER_MONTH", rules.DaysPerMonth)
	viper.SetDefault("SALES_MAX_INSTALLMENTS", rules.MaxInstallments)
	viper.SetDefault("ADMIN_NAME", "Administrador")
	viper.SetDefault("ADMIN_EMAIL", "")
	viper.SetDefault("ADMIN_PASSWORD", "")
}

// splitList turns "a, b,c" into []string{"a","b","c"}. Empty input yields nil.
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// IsProduction reports whether the app runs with production settings.
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
