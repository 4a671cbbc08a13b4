package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("APP_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")

	cfg, envErr := Load()
	require.NotNil(t, cfg)
	// no .env next to the package, so only the environment is read
	assert.Error(t, envErr)

	assert.Equal(t, "primake-api", cfg.App.Name)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "none", cfg.Printer.Type)
	assert.Equal(t, 48, cfg.Printer.CharWidth)
	assert.Equal(t, DefaultSalesRules(), cfg.Sales)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"single", "http://localhost:5173", []string{"http://localhost:5173"}},
		{"trims and skips empties", " a, ,b ,c,", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitList(tt.in))
		})
	}
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{
		Host: "db", Port: "5432", Name: "primake", User: "u", Password: "p",
		SSLMode: "disable", Timezone: "America/Sao_Paulo",
	}
	assert.Equal(t,
		"host=db user=u password=p dbname=primake port=5432 sslmode=disable TimeZone=America/Sao_Paulo",
		db.DSN())
}
