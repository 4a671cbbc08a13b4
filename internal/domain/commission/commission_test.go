package commission

import (
	"testing"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateTiers(t *testing.T) {
	rules := DefaultRules()
	tests := []struct {
		name       string
		base       int64
		rate       float64
		commission int64
		shortfall  int64
	}{
		{"zero", 0, 0.01, 0, 300000},
		{"low tier", 150000, 0.01, 1500, 150000},
		{"exactly threshold stays low", 300000, 0.01, 3000, 0},
		{"one cent above goes high", 300001, 0.02, 6000, 0},
		{"high tier", 500000, 0.02, 10000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := Calculate(tt.base, rules)
			assert.Equal(t, tt.rate, tier.Rate)
			assert.Equal(t, tt.commission, tier.Commission)
			assert.Equal(t, tt.shortfall, tier.Shortfall)
			assert.Equal(t, tt.rate == rules.HighRate, tier.HighTier)
		})
	}
}

func TestNormalisation(t *testing.T) {
	rules := DefaultRules()
	assert.Equal(t, int64(300000), ToMonthly(10000, enum.GoalDaily, rules))
	assert.Equal(t, int64(10000), ToMonthly(10000, enum.GoalMonthly, rules))
	assert.Equal(t, int64(10000), ToDaily(300000, rules))
	assert.Equal(t, int64(3333), ToDaily(100000, rules))
}

func TestStoreGoal(t *testing.T) {
	rules := DefaultRules()
	targets := []Target{
		{Role: enum.RoleVendedor, Amount: 500000, Type: enum.GoalMonthly},
		{Role: enum.RoleGerente, Amount: 10000, Type: enum.GoalDaily},
		{Role: enum.RoleAdministrador, Amount: 100000, Type: enum.GoalMonthly},
		{Role: enum.RoleMotoboy, Amount: 999999, Type: enum.GoalMonthly},
		{Role: enum.RoleEstoquista, Amount: 999999, Type: enum.GoalMonthly},
	}
	assert.Equal(t, int64(500000+300000+100000), StoreGoal(targets, rules))
}

func TestBuildProgress(t *testing.T) {
	rules := DefaultRules()
	ana := uuid.New()
	motoboy := uuid.New()
	targets := []Target{
		{UserID: ana, Name: "Ana", Role: enum.RoleVendedor, Amount: 10000, Type: enum.GoalDaily},
		{UserID: motoboy, Name: "João", Role: enum.RoleMotoboy, Amount: 10000, Type: enum.GoalDaily},
	}

	progress := BuildProgress(targets, map[uuid.UUID]int64{ana: 150000}, rules)
	require.Len(t, progress, 1)
	assert.Equal(t, "Ana", progress[0].Name)
	assert.Equal(t, int64(300000), progress[0].MonthlyTarget)
	assert.Equal(t, int64(10000), progress[0].DailyTarget)
	assert.Equal(t, 50.0, progress[0].Percent)

	assert.Equal(t, 0.0, Percent(100, 0))
	assert.Equal(t, 33.3, Percent(1, 3))
}
