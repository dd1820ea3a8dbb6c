package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerMutationsAreAudited(t *testing.T) {
	f := newLedgerFixture(t)
	auditSvc := NewAuditService(repository.NewAuditRepository(f.db))
	ctx := context.Background()

	_, err := f.accounts.CreateAccount(ctx, "", CreateAccountRequest{
		Code: "1.1.06", Name: "Anticipos", Type: model.AccountTypeAsset, AllowPosting: true,
	})
	require.NoError(t, err)

	f.post(t, "2026-01-15", "1.1.01", "4.1", "500.00")

	logs, total, err := auditSvc.GetAuditLogs(ctx, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, logs, 2)

	// Without an authenticated actor the trail attributes to the system.
	assert.Equal(t, "System", logs[0].Username)

	// Action filter narrows the trail.
	logs, total, err = auditSvc.GetAuditLogs(ctx, model.ActionPostEntry, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	assert.Equal(t, "JE-000001", logs[0].EntityID)
}
