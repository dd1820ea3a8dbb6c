package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// seedActivity posts a small but representative period of activity:
// a capital contribution in January, then a taxed sale and an expense in February.
func seedActivity(t *testing.T, f *ledgerFixture) {
	t.Helper()

	f.post(t, "2026-01-15", "1.1.01", "3.1", "1000.00")

	_, err := f.posting.PostEntry(context.Background(), "", PostEntryRequest{
		EntryDate:   "2026-02-10",
		Description: "Venta a crédito con ITBIS",
		Lines: []JournalLineRequest{
			{AccountID: f.accountID(t, "1.1.03"), DebitAmount: "590.00"},
			{AccountID: f.accountID(t, "4.1"), CreditAmount: "500.00"},
			{AccountID: f.accountID(t, "2.1.02"), CreditAmount: "90.00"},
		},
	})
	require.NoError(t, err)

	f.post(t, "2026-02-20", "6.2", "1.1.01", "200.00")
}

func TestTrialBalanceDetailTotalsBalance(t *testing.T) {
	f := newLedgerFixture(t)
	seedActivity(t, f)

	report, err := f.statements.TrialBalance(context.Background(), model.TrialBalanceDetail, day(2026, 1, 1), day(2026, 12, 31))
	require.NoError(t, err)

	requireDecEqual(t, "1790", report.TotalDebit)
	requireDecEqual(t, "1790", report.TotalCredit)
	assert.True(t, report.IsBalanced)
	assert.Len(t, report.Rows, len(model.DefaultChart))

	byCode := make(map[string]model.StatementRow, len(report.Rows))
	for _, r := range report.Rows {
		byCode[r.Code] = r
	}

	// Group rows carry the rolled-up movement of their descendants.
	requireDecEqual(t, "1590", byCode["1"].MovementDebit)
	requireDecEqual(t, "200", byCode["1"].MovementCredit)
	requireDecEqual(t, "1390", byCode["1"].FinalDebit)
	requireDecEqual(t, "0", byCode["1"].FinalCredit)

	// A credit-normal leaf ends on the credit side.
	requireDecEqual(t, "90", byCode["2.1.02"].FinalCredit)
	requireDecEqual(t, "0", byCode["2.1.02"].FinalDebit)
}

func TestTrialBalanceSummaryHidesDeepLeaves(t *testing.T) {
	f := newLedgerFixture(t)
	seedActivity(t, f)

	report, err := f.statements.TrialBalance(context.Background(), model.TrialBalanceSummary, day(2026, 1, 1), day(2026, 12, 31))
	require.NoError(t, err)

	codes := make(map[string]bool, len(report.Rows))
	for _, r := range report.Rows {
		codes[r.Code] = true
	}

	assert.True(t, codes["1"])
	assert.True(t, codes["1.1"])
	assert.True(t, codes["3.1"]) // level 2 leaf stays
	assert.False(t, codes["1.1.01"])
	assert.False(t, codes["2.1.02"])

	// Collapsing rows never changes the totals.
	requireDecEqual(t, "1790", report.TotalDebit)
	requireDecEqual(t, "1790", report.TotalCredit)
	assert.True(t, report.IsBalanced)
}

func TestTrialBalanceRejectsInvalidMode(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.statements.TrialBalance(context.Background(), "condensed", day(2026, 1, 1), day(2026, 12, 31))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid trial balance mode")
}

func TestTrialBalanceRejectsInvertedRange(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.statements.TrialBalance(context.Background(), model.TrialBalanceDetail, day(2026, 3, 1), day(2026, 1, 1))

	var badRange *InvalidDateRangeError
	require.ErrorAs(t, err, &badRange)
}

func TestBalanceSheetSatisfiesAccountingEquation(t *testing.T) {
	f := newLedgerFixture(t)
	seedActivity(t, f)

	report, err := f.statements.BalanceSheet(context.Background(), day(2026, 2, 28))
	require.NoError(t, err)

	requireDecEqual(t, "1390", report.TotalAssets)
	requireDecEqual(t, "90", report.TotalLiabilities)
	requireDecEqual(t, "1300", report.TotalEquity)
	requireDecEqual(t, "0", report.TotalAssets.Sub(report.TotalLiabilities).Sub(report.TotalEquity))

	// The unclosed period result shows as a synthetic equity line.
	var result *model.BalanceSheetLine
	for i := range report.Equity {
		if report.Equity[i].Name == "Resultado del Ejercicio" {
			result = &report.Equity[i]
		}
	}
	require.NotNil(t, result)
	requireDecEqual(t, "300", result.Balance)
}

func TestBalanceSheetAtHistoricalCutoff(t *testing.T) {
	f := newLedgerFixture(t)
	seedActivity(t, f)

	// Before February's activity only the capital contribution exists.
	report, err := f.statements.BalanceSheet(context.Background(), day(2026, 1, 31))
	require.NoError(t, err)

	requireDecEqual(t, "1000", report.TotalAssets)
	requireDecEqual(t, "0", report.TotalLiabilities)
	requireDecEqual(t, "1000", report.TotalEquity)

	for _, line := range report.Equity {
		assert.NotEqual(t, "Resultado del Ejercicio", line.Name)
	}
}

func TestIncomeStatementForPeriod(t *testing.T) {
	f := newLedgerFixture(t)
	seedActivity(t, f)

	report, err := f.statements.IncomeStatement(context.Background(), day(2026, 2, 1), day(2026, 2, 28))
	require.NoError(t, err)

	requireDecEqual(t, "500", report.TotalIncome)
	requireDecEqual(t, "200", report.TotalExpenses)
	requireDecEqual(t, "300", report.NetIncome)
}

func TestIncomeStatementExcludesOtherPeriods(t *testing.T) {
	f := newLedgerFixture(t)
	seedActivity(t, f)

	report, err := f.statements.IncomeStatement(context.Background(), day(2026, 1, 1), day(2026, 1, 31))
	require.NoError(t, err)

	requireDecEqual(t, "0", report.TotalIncome)
	requireDecEqual(t, "0", report.TotalExpenses)
}

func TestStatementsReflectReversals(t *testing.T) {
	f := newLedgerFixture(t)

	entry := f.post(t, "2026-01-15", "1.1.01", "4.1", "500.00")
	_, err := f.posting.ReverseEntry(context.Background(), "", entry.ID)
	require.NoError(t, err)

	report, err := f.statements.TrialBalance(context.Background(), model.TrialBalanceDetail, day(2026, 1, 1), day(2026, 12, 31))
	require.NoError(t, err)

	// Both entries stay in the movement columns; the ending balances cancel.
	requireDecEqual(t, "1000", report.TotalDebit)
	requireDecEqual(t, "1000", report.TotalCredit)
	assert.True(t, report.IsBalanced)

	byCode := make(map[string]model.StatementRow, len(report.Rows))
	for _, r := range report.Rows {
		byCode[r.Code] = r
	}
	requireDecEqual(t, "0", byCode["1.1.01"].FinalDebit)
	requireDecEqual(t, "0", byCode["1.1.01"].FinalCredit)
}

func TestCashFlowStatementUsesMappings(t *testing.T) {
	f := newLedgerFixture(t)
	seedActivity(t, f)

	require.NoError(t, f.statements.SetCashFlowMapping(context.Background(), "", SetCashFlowMappingRequest{
		AccountCode: "1.1.01", Category: model.CashFlowOperating,
	}))
	require.NoError(t, f.statements.SetCashFlowMapping(context.Background(), "", SetCashFlowMappingRequest{
		AccountCode: "1.1.03", Category: model.CashFlowInvesting,
	}))

	report, err := f.statements.CashFlowStatement(context.Background(), day(2026, 2, 1), day(2026, 2, 28))
	require.NoError(t, err)

	// February: cash paid 200, receivables grew 590.
	requireDecEqual(t, "-200", report.Operating)
	requireDecEqual(t, "590", report.Investing)
	requireDecEqual(t, "0", report.Financing)
	requireDecEqual(t, "390", report.NetCashFlow)
}

func TestSetCashFlowMappingUpsertsCategory(t *testing.T) {
	f := newLedgerFixture(t)

	require.NoError(t, f.statements.SetCashFlowMapping(context.Background(), "", SetCashFlowMappingRequest{
		AccountCode: "1.1.02", Category: model.CashFlowOperating,
	}))
	require.NoError(t, f.statements.SetCashFlowMapping(context.Background(), "", SetCashFlowMappingRequest{
		AccountCode: "1.1.02", Category: model.CashFlowFinancing,
	}))

	mappings, err := f.statements.ListCashFlowMappings(context.Background())
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, "1.1.02", mappings[0].AccountCode)
	assert.Equal(t, model.CashFlowFinancing, mappings[0].Category)
}

func TestSetCashFlowMappingUnknownAccount(t *testing.T) {
	f := newLedgerFixture(t)

	err := f.statements.SetCashFlowMapping(context.Background(), "", SetCashFlowMappingRequest{
		AccountCode: "9.9", Category: model.CashFlowOperating,
	})

	var unknown *UnknownAccountError
	require.ErrorAs(t, err, &unknown)
}
