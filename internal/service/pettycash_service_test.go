package service

import (
	"context"
	"testing"

	"backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPettyCashService(t *testing.T) PettyCashService {
	t.Helper()
	db := newTestDB(t)
	return NewPettyCashService(
		repository.NewPettyCashRepository(db),
		repository.NewAuditRepository(db),
		repository.NewTransactionManager(db),
	)
}

func TestPettyCashFundLifecycle(t *testing.T) {
	svc := newPettyCashService(t)
	ctx := context.Background()

	fund, err := svc.CreateFund(ctx, "", CreateFundRequest{
		Name: "Caja Chica Oficina", Custodian: "María", InitialBalance: "100.00",
	})
	require.NoError(t, err)
	assert.Equal(t, "100.00", fund.Balance)
	assert.True(t, fund.IsActive)

	fund, err = svc.Spend(ctx, "", fund.ID, FundMovementRequest{
		Amount: "40.00", Concept: "Papelería", MovementDate: "2026-03-05",
	})
	require.NoError(t, err)
	assert.Equal(t, "60.00", fund.Balance)

	fund, err = svc.Replenish(ctx, "", fund.ID, FundMovementRequest{
		Amount: "50.00", Concept: "Reposición mensual", MovementDate: "2026-03-31",
	})
	require.NoError(t, err)
	assert.Equal(t, "110.00", fund.Balance)

	movements, total, err := svc.ListMovements(ctx, fund.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, movements, 2)
}

func TestPettyCashSpendCannotOverdraw(t *testing.T) {
	svc := newPettyCashService(t)
	ctx := context.Background()

	fund, err := svc.CreateFund(ctx, "", CreateFundRequest{Name: "Caja Chica", InitialBalance: "100.00"})
	require.NoError(t, err)

	_, err = svc.Spend(ctx, "", fund.ID, FundMovementRequest{
		Amount: "150.00", Concept: "Compra grande", MovementDate: "2026-03-05",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient fund balance")

	// The overdraw attempt leaves no trace.
	funds, err := svc.ListFunds(ctx)
	require.NoError(t, err)
	require.Len(t, funds, 1)
	assert.Equal(t, "100.00", funds[0].Balance)

	_, total, err := svc.ListMovements(ctx, fund.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestPettyCashRejectsBadAmounts(t *testing.T) {
	svc := newPettyCashService(t)
	ctx := context.Background()

	fund, err := svc.CreateFund(ctx, "", CreateFundRequest{Name: "Caja Chica", InitialBalance: "100.00"})
	require.NoError(t, err)

	for _, amount := range []string{"0", "-10", "abc"} {
		_, err := svc.Replenish(ctx, "", fund.ID, FundMovementRequest{
			Amount: amount, MovementDate: "2026-03-05",
		})
		require.Error(t, err, "amount %q", amount)
	}

	_, err = svc.CreateFund(ctx, "", CreateFundRequest{Name: "Otra", InitialBalance: "-5"})
	require.Error(t, err)
}
