package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/pkg/apperror"
	"github.com/primake/primake-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuth_LoginRefreshAndPassword(t *testing.T) {
	hash, err := utils.HashPassword("segredo1")
	require.NoError(t, err)
	ana := staff("ana", enum.RoleVendedor, 0, enum.GoalMonthly)
	ana.Password = hash
	users := newFakeUserRepo(ana)

	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	svc := NewAuthService(users, jwtManager, zap.NewNop())
	ctx := context.Background()

	out, err := svc.Login(ctx, &LoginInput{Email: "  ANA@primake.com.br ", Password: "segredo1"})
	require.NoError(t, err)
	assert.Equal(t, ana.ID, out.User.ID)

	claims, err := jwtManager.ValidateAccessToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, enum.RoleVendedor, claims.Role)
	assert.Equal(t, "ana", claims.Name)

	_, err = svc.Login(ctx, &LoginInput{Email: "ana@primake.com.br", Password: "errada"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	_, err = svc.Login(ctx, &LoginInput{Email: "ninguem@primake.com.br", Password: "segredo1"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	// a role change is picked up on refresh
	ana.Role = enum.RoleGerente
	refreshed, err := svc.RefreshToken(ctx, out.RefreshToken)
	require.NoError(t, err)
	claims, err = jwtManager.ValidateAccessToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, enum.RoleGerente, claims.Role)

	_, err = svc.RefreshToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)

	err = svc.ChangePassword(ctx, &ChangePasswordInput{UserID: ana.ID, CurrentPassword: "errada", NewPassword: "novasenha"})
	requireReason(t, err, http.StatusBadRequest, "")
	err = svc.ChangePassword(ctx, &ChangePasswordInput{UserID: ana.ID, CurrentPassword: "segredo1", NewPassword: "123"})
	requireReason(t, err, http.StatusUnprocessableEntity, "")
	require.NoError(t, svc.ChangePassword(ctx, &ChangePasswordInput{UserID: ana.ID, CurrentPassword: "segredo1", NewPassword: "novasenha"}))
	assert.True(t, utils.CheckPasswordHash("novasenha", ana.Password))

	ana.Active = false
	_, err = svc.Login(ctx, &LoginInput{Email: "ana@primake.com.br", Password: "novasenha"})
	assert.ErrorIs(t, err, apperror.ErrUserInactive)
}

func TestUserService(t *testing.T) {
	admin := staff("admin", enum.RoleAdministrador, 0, enum.GoalMonthly)
	users := newFakeUserRepo(admin)
	goals, _, _ := newGoalFixture()
	svc := NewUserService(users, goals)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, &CreateUserInput{
		Name:        " Pedro ",
		Email:       "Pedro@PriMake.com.br",
		Password:    "segredo1",
		Role:        enum.RoleMotoboy,
		DefaultGoal: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, "Pedro", created.Name)
	assert.Equal(t, "pedro@primake.com.br", created.Email)
	assert.True(t, created.Active)
	assert.NotEqual(t, "segredo1", created.Password)

	_, err = svc.CreateUser(ctx, &CreateUserInput{Name: "Outro", Email: "pedro@primake.com.br", Password: "segredo1", Role: enum.RoleCaixa})
	requireReason(t, err, http.StatusConflict, "")

	_, err = svc.CreateUser(ctx, &CreateUserInput{Name: "", Email: "x", Password: "1", Role: enum.Role(42)})
	require.Error(t, err)
	assert.Len(t, apperror.GetAppError(err).Errors, 4)

	motoboys, err := svc.ListMotoboys(ctx)
	require.NoError(t, err)
	require.Len(t, motoboys, 1)
	assert.Equal(t, "Pedro", motoboys[0].Name)

	_, err = svc.SetUserActive(ctx, admin.ID, admin.ID, false)
	requireReason(t, err, http.StatusBadRequest, "")
	require.NoError(t, svc.DeleteUser(ctx, admin.ID, created.ID))
	requireReason(t, svc.DeleteUser(ctx, admin.ID, admin.ID), http.StatusBadRequest, "")

	assert.Len(t, svc.ListRoles(), 6)
}

func TestSettingsService(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo)
	ctx := context.Background()

	defaults, err := svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "PriMake", defaults.Name)
	assert.Nil(t, repo.settings)

	_, err = svc.UpdateSettings(ctx, &UpdateSettingsInput{Name: "PriMake", CNPJ: "123"})
	requireReason(t, err, http.StatusUnprocessableEntity, "")
	_, err = svc.UpdateSettings(ctx, &UpdateSettingsInput{Name: "  "})
	requireReason(t, err, http.StatusUnprocessableEntity, "")

	saved, err := svc.UpdateSettings(ctx, &UpdateSettingsInput{
		Name:           "PriMake Centro",
		CNPJ:           "12.345.678/0001-90",
		ReceiptMessage: " Volte logo ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Volte logo", saved.ReceiptMessage)
	assert.Same(t, saved, repo.settings)
}
