package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCashFixture() (*CashRegisterService, *fakeCashRepo) {
	repo := newFakeCashRepo()
	svc := NewCashRegisterService(repo, zap.NewNop())
	svc.now = fixedClock
	return svc, repo
}

func TestCashRegisterLifecycle(t *testing.T) {
	svc, repo := newCashFixture()
	ctx := context.Background()
	user := uuid.New()

	_, err := svc.CurrentRegister(ctx)
	assert.ErrorIs(t, err, apperror.ErrCashRegisterClosed)

	register, err := svc.OpenRegister(ctx, user, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), register.OpeningBalance)
	assert.True(t, register.IsOpen())

	_, err = svc.OpenRegister(ctx, user, 50)
	assert.ErrorIs(t, err, apperror.ErrCashRegisterAlreadyOpen)

	sale := &entity.Sale{
		ID: "TRX-000100",
		Payments: []entity.PaymentPart{
			{Method: enum.PaymentMoney, Amount: 3000, Charged: 3000},
			{Method: enum.PaymentCredit, Amount: 2000, Charged: 2100},
			{Method: enum.PaymentPix, Amount: 1000, Charged: 1000},
		},
	}
	require.NoError(t, svc.RecordSale(ctx, register.ID, sale, user))

	_, err = svc.AddMovement(ctx, &MovementInput{UserID: user, Type: enum.CashWithdrawal, Amount: 20})
	require.NoError(t, err)
	supply, err := svc.AddMovement(ctx, &MovementInput{UserID: user, Type: enum.CashSupply, Amount: 5, Description: "Troco extra"})
	require.NoError(t, err)
	assert.Equal(t, "Troco extra", supply.Description)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), summary.Opening)
	assert.Equal(t, int64(3000), summary.CashSales)
	assert.Equal(t, int64(2100), summary.CardSales)
	assert.Equal(t, int64(1000), summary.PixSales)
	assert.Equal(t, int64(6100), summary.TotalSales)
	assert.Equal(t, int64(10000+3000+500-2000), summary.Drawer)

	view, err := svc.CloseRegister(ctx, &CloseInput{UserID: user, ClosingBalance: 110})
	require.NoError(t, err)
	assert.Equal(t, enum.RegisterClosed, view.Register.Status)
	assert.Equal(t, int64(11500), *view.Register.ExpectedBalance)
	assert.Equal(t, int64(-500), *view.Register.Difference)
	assert.Len(t, view.Movements, 6)
	assert.Len(t, repo.movements, 6)

	_, err = svc.AddMovement(ctx, &MovementInput{UserID: user, Type: enum.CashSupply, Amount: 5})
	assert.ErrorIs(t, err, apperror.ErrCashRegisterClosed)
}

func TestAddMovement_Rejections(t *testing.T) {
	svc, _ := newCashFixture()
	ctx := context.Background()
	_, err := svc.OpenRegister(ctx, uuid.New(), 0)
	require.NoError(t, err)

	_, err = svc.AddMovement(ctx, &MovementInput{Type: enum.CashSale, Amount: 10})
	requireReason(t, err, http.StatusBadRequest, "")

	_, err = svc.AddMovement(ctx, &MovementInput{Type: enum.CashWithdrawal, Amount: 0})
	requireReason(t, err, http.StatusBadRequest, "")

	_, err = svc.OpenRegister(ctx, uuid.New(), -1)
	requireReason(t, err, http.StatusBadRequest, "")
}
