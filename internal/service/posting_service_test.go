package service

import (
	"context"
	"testing"

	"backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostEntryUpdatesLeafAndAncestorBalances(t *testing.T) {
	f := newLedgerFixture(t)

	entry := f.post(t, "2026-01-15", "1.1.01", "4.1", "500.00")

	assert.Equal(t, "JE-000001", entry.EntryNumber)
	assert.Equal(t, model.EntryStatusPosted, entry.Status)
	assert.Equal(t, "500.00", entry.TotalDebit)
	assert.Equal(t, "500.00", entry.TotalCredit)
	require.Len(t, entry.Lines, 2)

	// The debit-normal cash leaf and every ancestor grow by 500.
	requireDecEqual(t, "500", f.balance(t, "1.1.01"))
	requireDecEqual(t, "500", f.balance(t, "1.1"))
	requireDecEqual(t, "500", f.balance(t, "1"))

	// The credit-normal income leaf grows by 500 as well.
	requireDecEqual(t, "500", f.balance(t, "4.1"))
	requireDecEqual(t, "500", f.balance(t, "4"))
}

func TestPostEntrySequenceNumbersAreOrdered(t *testing.T) {
	f := newLedgerFixture(t)

	first := f.post(t, "2026-01-10", "1.1.01", "3.1", "100.00")
	second := f.post(t, "2026-01-11", "1.1.02", "3.1", "200.00")

	assert.Equal(t, "JE-000001", first.EntryNumber)
	assert.Equal(t, "JE-000002", second.EntryNumber)
}

func TestPostEntryUnbalancedIsRejectedWithoutSideEffects(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.posting.PostEntry(context.Background(), "", PostEntryRequest{
		EntryDate: "2026-01-15",
		Lines: []JournalLineRequest{
			{AccountID: f.accountID(t, "1.1.01"), DebitAmount: "500.00"},
			{AccountID: f.accountID(t, "4.1"), CreditAmount: "400.00"},
		},
	})

	var unbalanced *UnbalancedEntryError
	require.ErrorAs(t, err, &unbalanced)
	requireDecEqual(t, "500", unbalanced.TotalDebit)
	requireDecEqual(t, "400", unbalanced.TotalCredit)

	// Nothing was written.
	requireDecEqual(t, "0", f.balance(t, "1.1.01"))
	requireDecEqual(t, "0", f.balance(t, "4.1"))
	_, total, err := f.posting.ListEntries(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestPostEntryWithinToleranceIsAccepted(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.posting.PostEntry(context.Background(), "", PostEntryRequest{
		EntryDate: "2026-01-15",
		Lines: []JournalLineRequest{
			{AccountID: f.accountID(t, "1.1.01"), DebitAmount: "100.00"},
			{AccountID: f.accountID(t, "4.1"), CreditAmount: "99.99"},
		},
	})
	require.NoError(t, err)
}

func TestPostEntryLineWithBothSidesIsRejected(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.posting.PostEntry(context.Background(), "", PostEntryRequest{
		EntryDate: "2026-01-15",
		Lines: []JournalLineRequest{
			{AccountID: f.accountID(t, "1.1.01"), DebitAmount: "100.00", CreditAmount: "100.00"},
			{AccountID: f.accountID(t, "4.1"), CreditAmount: "100.00"},
		},
	})

	var badLine *UnbalancedLineError
	require.ErrorAs(t, err, &badLine)
	assert.Equal(t, 0, badLine.LineIndex)
}

func TestPostEntryDiscardsZeroAmountLines(t *testing.T) {
	f := newLedgerFixture(t)

	entry, err := f.posting.PostEntry(context.Background(), "", PostEntryRequest{
		EntryDate: "2026-01-15",
		Lines: []JournalLineRequest{
			{AccountID: f.accountID(t, "1.1.01"), DebitAmount: "250.00"},
			{AccountID: f.accountID(t, "1.1.02")}, // no amounts, dropped
			{AccountID: f.accountID(t, "4.1"), CreditAmount: "250.00"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, entry.Lines, 2)
}

func TestPostEntryAllZeroLinesIsRejected(t *testing.T) {
	f := newLedgerFixture(t)

	// Dropping the zero lines leaves nothing to post; an empty POSTED entry
	// must never be created.
	_, err := f.posting.PostEntry(context.Background(), "", PostEntryRequest{
		EntryDate: "2026-01-15",
		Lines: []JournalLineRequest{
			{AccountID: f.accountID(t, "1.1.01")},
			{AccountID: f.accountID(t, "4.1")},
		},
	})

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, err.Error(), "at least two lines")

	// No entry exists and no sequence number was burned.
	_, total, err := f.posting.ListEntries(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	next := f.post(t, "2026-01-16", "1.1.01", "4.1", "100.00")
	assert.Equal(t, "JE-000001", next.EntryNumber)
}

func TestPostEntrySingleSurvivingLineIsRejected(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.posting.PostEntry(context.Background(), "", PostEntryRequest{
		EntryDate: "2026-01-15",
		Lines: []JournalLineRequest{
			{AccountID: f.accountID(t, "1.1.01"), DebitAmount: "100.00"},
			{AccountID: f.accountID(t, "4.1"), CreditAmount: "0.00"}, // dropped
		},
	})

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestPostEntryToGroupAccountIsRejected(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.posting.PostEntry(context.Background(), "", PostEntryRequest{
		EntryDate: "2026-01-15",
		Lines: []JournalLineRequest{
			{AccountID: f.accountID(t, "1.1"), DebitAmount: "100.00"},
			{AccountID: f.accountID(t, "4.1"), CreditAmount: "100.00"},
		},
	})

	var groupErr *PostingToGroupAccountError
	require.ErrorAs(t, err, &groupErr)
	assert.Equal(t, "1.1", groupErr.AccountCode)
}

func TestPostEntryToInactiveAccountIsRejected(t *testing.T) {
	f := newLedgerFixture(t)

	inactive := false
	_, err := f.accounts.UpdateAccount(context.Background(), "", "1.1.02", UpdateAccountRequest{IsActive: &inactive})
	require.NoError(t, err)

	_, err = f.posting.PostEntry(context.Background(), "", PostEntryRequest{
		EntryDate: "2026-01-15",
		Lines: []JournalLineRequest{
			{AccountID: f.accountID(t, "1.1.02"), DebitAmount: "100.00"},
			{AccountID: f.accountID(t, "4.1"), CreditAmount: "100.00"},
		},
	})

	var invalid *InvalidAccountError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "is inactive", invalid.Reason)
}

func TestPostEntryUnknownAccountIsRejected(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.posting.PostEntry(context.Background(), "", PostEntryRequest{
		EntryDate: "2026-01-15",
		Lines: []JournalLineRequest{
			{AccountID: "00000000-0000-0000-0000-000000000001", DebitAmount: "100.00"},
			{AccountID: f.accountID(t, "4.1"), CreditAmount: "100.00"},
		},
	})

	var invalid *InvalidAccountError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "does not exist", invalid.Reason)
}

func TestPostEntryNegativeAmountIsRejected(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.posting.PostEntry(context.Background(), "", PostEntryRequest{
		EntryDate: "2026-01-15",
		Lines: []JournalLineRequest{
			{AccountID: f.accountID(t, "1.1.01"), DebitAmount: "-100.00"},
			{AccountID: f.accountID(t, "4.1"), CreditAmount: "-100.00"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be negative")
}

func TestPostEntryDuplicateEntryNumberIsRejected(t *testing.T) {
	f := newLedgerFixture(t)

	req := PostEntryRequest{
		EntryNumber: "MANUAL-001",
		EntryDate:   "2026-01-15",
		Lines: []JournalLineRequest{
			{AccountID: f.accountID(t, "1.1.01"), DebitAmount: "100.00"},
			{AccountID: f.accountID(t, "4.1"), CreditAmount: "100.00"},
		},
	}

	_, err := f.posting.PostEntry(context.Background(), "", req)
	require.NoError(t, err)

	_, err = f.posting.PostEntry(context.Background(), "", req)
	var dup *DuplicateEntryNumberError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "MANUAL-001", dup.EntryNumber)
}

func TestReverseEntryCancelsBalancesAndLinksOriginal(t *testing.T) {
	f := newLedgerFixture(t)

	original := f.post(t, "2026-01-15", "1.1.01", "4.1", "500.00")

	reversal, err := f.posting.ReverseEntry(context.Background(), "", original.ID)
	require.NoError(t, err)

	assert.Equal(t, model.EntryStatusPosted, reversal.Status)
	require.NotNil(t, reversal.ReversesEntryID)
	assert.Equal(t, original.ID, *reversal.ReversesEntryID)
	assert.Equal(t, "500.00", reversal.TotalDebit)
	assert.Equal(t, "500.00", reversal.TotalCredit)

	// Balances are back to zero on the leaves and every ancestor.
	requireDecEqual(t, "0", f.balance(t, "1.1.01"))
	requireDecEqual(t, "0", f.balance(t, "1"))
	requireDecEqual(t, "0", f.balance(t, "4.1"))
	requireDecEqual(t, "0", f.balance(t, "4"))

	// The original is marked, not rewritten.
	got, err := f.posting.GetEntry(context.Background(), original.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EntryStatusReversed, got.Status)
	assert.Equal(t, "500.00", got.TotalDebit)
}

func TestReverseEntryRejectsNonPostedEntries(t *testing.T) {
	f := newLedgerFixture(t)

	original := f.post(t, "2026-01-15", "1.1.01", "4.1", "500.00")

	_, err := f.posting.ReverseEntry(context.Background(), "", original.ID)
	require.NoError(t, err)

	// A REVERSED entry cannot be reversed again.
	_, err = f.posting.ReverseEntry(context.Background(), "", original.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only POSTED entries can be reversed")
}

func TestListEntriesPaginates(t *testing.T) {
	f := newLedgerFixture(t)

	f.post(t, "2026-01-10", "1.1.01", "3.1", "100.00")
	f.post(t, "2026-01-11", "1.1.01", "3.1", "200.00")
	f.post(t, "2026-01-12", "1.1.01", "3.1", "300.00")

	entries, total, err := f.posting.ListEntries(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, entries, 2)
}
