package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staff(name string, role enum.Role, goal int64, goalType enum.GoalType) *entity.User {
	return &entity.User{
		ID:              uuid.New(),
		Name:            name,
		Email:           name + "@primake.com.br",
		Role:            role,
		Active:          true,
		DefaultGoal:     goal,
		DefaultGoalType: goalType,
	}
}

func TestCommissionSummary(t *testing.T) {
	ana := staff("ana", enum.RoleVendedor, 0, enum.GoalMonthly)
	svc, _, analytics := newGoalFixture(ana)
	analytics.sellerRevenue[ana.ID] = 250000
	analytics.storeRevenue = 400000

	own, err := svc.CommissionSummary(context.Background(), Viewer{UserID: ana.ID, Role: enum.RoleVendedor}, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-10", own.Period)
	assert.Equal(t, "own", own.Scope)
	assert.Equal(t, 2500.0, own.Base)
	assert.Equal(t, 0.01, own.Rate)
	assert.Equal(t, 25.0, own.Commission)
	assert.False(t, own.HighTier)
	assert.Equal(t, 500.0, own.Shortfall)
	assert.Equal(t, "Tier 1 (1%). Faltam R$ 500,00 p/ 2%", own.Hint)

	store, err := svc.CommissionSummary(context.Background(), Viewer{UserID: uuid.New(), Role: enum.RoleGerente}, "2026-09")
	require.NoError(t, err)
	assert.Equal(t, "2026-09", store.Period)
	assert.Equal(t, "store", store.Scope)
	assert.True(t, store.HighTier)
	assert.Equal(t, 80.0, store.Commission)
	assert.Equal(t, "Tier 2 (2%)", store.Hint)

	_, err = svc.CommissionSummary(context.Background(), Viewer{Role: enum.RoleGerente}, "outubro")
	requireReason(t, err, http.StatusBadRequest, "")
}

func TestCommissionSummary_ThresholdStaysLowTier(t *testing.T) {
	ana := staff("ana", enum.RoleVendedor, 0, enum.GoalMonthly)
	svc, _, analytics := newGoalFixture(ana)
	analytics.sellerRevenue[ana.ID] = 300000

	s, err := svc.CommissionSummary(context.Background(), Viewer{UserID: ana.ID, Role: enum.RoleVendedor}, "")
	require.NoError(t, err)
	assert.False(t, s.HighTier)
	assert.Equal(t, 30.0, s.Commission)
	assert.Zero(t, s.Shortfall)
}

func TestGoals_DefaultsSavedAndCache(t *testing.T) {
	ana := staff("ana", enum.RoleVendedor, 200000, enum.GoalMonthly)
	bruno := staff("bruno", enum.RoleGerente, 0, enum.GoalMonthly)
	caixa := staff("carla", enum.RoleCaixa, 999900, enum.GoalMonthly)
	svc, goals, _ := newGoalFixture(ana, bruno, caixa)
	ctx := context.Background()

	view, err := svc.GetGoals(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-10", view.Period)
	require.Len(t, view.Goals, 2)
	assert.Equal(t, "ana", view.Goals[0].Name)
	assert.True(t, view.Goals[0].IsDefault)
	assert.Equal(t, 2000.0, view.Goals[0].Monthly)
	assert.Equal(t, 2000.0, view.StoreGoal)

	// a change behind the service's back is hidden by the cache
	ana.DefaultGoal = 100
	cached, err := svc.GetGoals(ctx, "2026-10")
	require.NoError(t, err)
	assert.Equal(t, 2000.0, cached.Goals[0].Monthly)

	saved, err := svc.SaveUserGoal(ctx, &SaveGoalInput{UserID: bruno.ID, Amount: 100, Type: enum.GoalDaily})
	require.NoError(t, err)
	assert.Equal(t, "2026-10", saved.Period)
	assert.Equal(t, int64(10000), saved.Amount)
	assert.Len(t, goals.goals, 1)

	view, err = svc.GetGoals(ctx, "2026-10")
	require.NoError(t, err)
	require.Len(t, view.Goals, 2)
	assert.Equal(t, 1.0, view.Goals[0].Monthly)
	assert.False(t, view.Goals[1].IsDefault)
	assert.Equal(t, 3000.0, view.Goals[1].Monthly)
	assert.Equal(t, 100.0, view.Goals[1].Daily)
	assert.Equal(t, 3001.0, view.StoreGoal)
}

func TestSaveUserGoal_Rejections(t *testing.T) {
	caixa := staff("carla", enum.RoleCaixa, 0, enum.GoalMonthly)
	svc, _, _ := newGoalFixture(caixa)
	ctx := context.Background()

	_, err := svc.SaveUserGoal(ctx, &SaveGoalInput{UserID: caixa.ID, Amount: 10})
	requireReason(t, err, http.StatusUnprocessableEntity, "not_sales_role")

	_, err = svc.SaveUserGoal(ctx, &SaveGoalInput{UserID: uuid.New(), Amount: 10})
	requireReason(t, err, http.StatusNotFound, "")

	_, err = svc.SaveUserGoal(ctx, &SaveGoalInput{UserID: caixa.ID, Amount: -1})
	requireReason(t, err, http.StatusBadRequest, "")

	_, err = svc.SaveUserGoal(ctx, &SaveGoalInput{UserID: caixa.ID, Amount: 10, Period: "2026/10"})
	requireReason(t, err, http.StatusBadRequest, "")
}

func TestGoalProgress(t *testing.T) {
	ana := staff("ana", enum.RoleVendedor, 200000, enum.GoalMonthly)
	bruno := staff("bruno", enum.RoleGerente, 100000, enum.GoalMonthly)
	svc, _, analytics := newGoalFixture(ana, bruno)
	analytics.sellerRevenue[ana.ID] = 50000
	analytics.storeRevenue = 150000

	progress, err := svc.GoalProgress(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 3000.0, progress.StoreGoal)
	assert.Equal(t, 1500.0, progress.StoreAchieved)
	assert.Equal(t, 50.0, progress.StorePercent)

	require.Len(t, progress.Users, 2)
	assert.Equal(t, "ana", progress.Users[0].Name)
	assert.Equal(t, 500.0, progress.Users[0].Achieved)
	assert.Equal(t, 25.0, progress.Users[0].Percent)
	assert.Zero(t, progress.Users[1].Achieved)
}
