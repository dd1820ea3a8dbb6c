package service

import (
	"context"
	"testing"

	"backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAccountUnderExistingParent(t *testing.T) {
	f := newLedgerFixture(t)

	account, err := f.accounts.CreateAccount(context.Background(), "", CreateAccountRequest{
		Code:         "1.1.06",
		Name:         "Anticipos a Suplidores",
		Type:         model.AccountTypeAsset,
		AllowPosting: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "1.1.06", account.Code)
	assert.Equal(t, 3, account.Level)
	assert.Equal(t, model.NormalBalanceDebit, account.NormalBalance)
	assert.Equal(t, "0.00", account.Balance)
	assert.True(t, account.IsActive)
}

func TestCreateAccountDefaultsNormalBalanceFromType(t *testing.T) {
	f := newLedgerFixture(t)

	cases := []struct {
		code     string
		accType  string
		expected string
	}{
		{"1.9", model.AccountTypeAsset, model.NormalBalanceDebit},
		{"2.9", model.AccountTypeLiability, model.NormalBalanceCredit},
		{"3.9", model.AccountTypeEquity, model.NormalBalanceCredit},
		{"4.9", model.AccountTypeIncome, model.NormalBalanceCredit},
		{"5.9", model.AccountTypeCost, model.NormalBalanceDebit},
		{"6.9", model.AccountTypeExpense, model.NormalBalanceDebit},
	}

	for _, tc := range cases {
		account, err := f.accounts.CreateAccount(context.Background(), "", CreateAccountRequest{
			Code: tc.code, Name: "Cuenta " + tc.code, Type: tc.accType, AllowPosting: true,
		})
		require.NoError(t, err)
		assert.Equal(t, tc.expected, account.NormalBalance, "code %s", tc.code)
	}
}

func TestCreateAccountDuplicateCodeIsRejected(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.accounts.CreateAccount(context.Background(), "", CreateAccountRequest{
		Code: "1.1.01", Name: "Otra Caja", Type: model.AccountTypeAsset, AllowPosting: true,
	})

	var dup *DuplicateCodeError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "1.1.01", dup.Code)
}

func TestCreateAccountWithMissingParentIsRejected(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.accounts.CreateAccount(context.Background(), "", CreateAccountRequest{
		Code: "7.1.01", Name: "Huérfana", Type: model.AccountTypeExpense, AllowPosting: true,
	})

	var bad *InvalidHierarchyError
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, "7.1", bad.ParentCode)
}

func TestCreateAccountUnderPostingLeafIsRejected(t *testing.T) {
	f := newLedgerFixture(t)

	// "4.1" is a seeded posting leaf; hanging a child under it would make it
	// both a leaf and a group and double-count its movements in reports.
	_, err := f.accounts.CreateAccount(context.Background(), "", CreateAccountRequest{
		Code: "4.1.01", Name: "Ventas Locales", Type: model.AccountTypeIncome, AllowPosting: true,
	})

	var bad *InvalidHierarchyError
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, "4.1", bad.ParentCode)
	assert.Contains(t, err.Error(), "allows posting")

	// The ledger keeps reporting balanced totals on balanced input.
	f.post(t, "2026-01-15", "1.1.01", "4.1", "100.00")
	report, err := f.statements.TrialBalance(context.Background(), model.TrialBalanceDetail, day(2026, 1, 1), day(2026, 1, 31))
	require.NoError(t, err)
	assert.True(t, report.IsBalanced)
	requireDecEqual(t, "100", report.TotalDebit)
	requireDecEqual(t, "100", report.TotalCredit)
}

func TestCreateRootAccountNeedsNoParent(t *testing.T) {
	f := newLedgerFixture(t)

	account, err := f.accounts.CreateAccount(context.Background(), "", CreateAccountRequest{
		Code: "7", Name: "CUENTAS DE ORDEN", Type: model.AccountTypeAsset,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, account.Level)
	assert.False(t, account.AllowPosting)
}

func TestUpdateAccountRenameAndDeactivate(t *testing.T) {
	f := newLedgerFixture(t)

	name := "Caja General"
	inactive := false
	account, err := f.accounts.UpdateAccount(context.Background(), "", "1.1.01", UpdateAccountRequest{
		Name: &name, IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Caja General", account.Name)
	assert.False(t, account.IsActive)
}

func TestGetAccountByCodeUnknownCode(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.accounts.GetAccountByCode(context.Background(), "9.9.99")

	var unknown *UnknownAccountError
	require.ErrorAs(t, err, &unknown)
}

func TestListAccountsReturnsSeededChart(t *testing.T) {
	f := newLedgerFixture(t)

	accounts, err := f.accounts.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.Len(t, accounts, len(model.DefaultChart))

	// Ordered by code, so the root asset group comes first.
	assert.Equal(t, "1", accounts[0].Code)
}

func TestSeededContraAssetCarriesCreditBalance(t *testing.T) {
	f := newLedgerFixture(t)

	depreciation, err := f.accounts.GetAccountByCode(context.Background(), "1.2.03")
	require.NoError(t, err)
	assert.Equal(t, model.AccountTypeAsset, depreciation.Type)
	assert.Equal(t, model.NormalBalanceCredit, depreciation.NormalBalance)

	// Recording depreciation credits the contra account, so its balance grows.
	f.post(t, "2026-01-31", "6.2", "1.2.03", "80.00")
	requireDecEqual(t, "80", f.balance(t, "1.2.03"))
}

func TestSnapshotPropagatesToAncestors(t *testing.T) {
	f := newLedgerFixture(t)

	f.post(t, "2026-01-15", "1.1.01", "3.1", "750.00")

	snapshot, err := f.accounts.Snapshot(context.Background())
	require.NoError(t, err)

	byCode := make(map[string]AccountResponse, len(snapshot))
	for _, a := range snapshot {
		byCode[a.Code] = a
	}
	assert.Equal(t, "750.00", byCode["1.1.01"].Balance)
	assert.Equal(t, "750.00", byCode["1"].Balance)
	assert.Equal(t, "750.00", byCode["3.1"].Balance)
	assert.Equal(t, "0.00", byCode["2"].Balance)
}

func TestCheckIntegrityPassesOnConsistentLedger(t *testing.T) {
	f := newLedgerFixture(t)

	f.post(t, "2026-01-15", "1.1.01", "4.1", "500.00")
	f.post(t, "2026-02-10", "6.2", "1.1.01", "120.00")

	require.NoError(t, f.accounts.CheckIntegrity(context.Background()))
}

func TestCheckIntegrityDetectsDivergedGroupBalance(t *testing.T) {
	f := newLedgerFixture(t)

	f.post(t, "2026-01-15", "1.1.01", "4.1", "500.00")

	// Corrupt the cached group balance behind the engine's back.
	require.NoError(t, f.db.Model(&model.Account{}).
		Where("code = ?", "1.1").
		Update("balance", "9999").Error)

	err := f.accounts.CheckIntegrity(context.Background())
	var invariant *InternalInvariantError
	require.ErrorAs(t, err, &invariant)
	assert.Contains(t, invariant.Detail, "1.1")
}
