package service

import (
	"context"
	"fmt"
	"testing"

	"backend/internal/database"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema and the
// default chart of accounts seeded.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(db))
	return db
}

// ledgerFixture wires the full repository/service stack over a test database.
type ledgerFixture struct {
	db          *gorm.DB
	accountRepo repository.AccountRepository
	journalRepo repository.JournalRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager

	accounts   AccountService
	posting    PostingService
	statements StatementService
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	db := newTestDB(t)
	accountRepo := repository.NewAccountRepository(db)
	journalRepo := repository.NewJournalRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	cashFlowRepo := repository.NewCashFlowMappingRepository(db)
	txManager := repository.NewTransactionManager(db)

	return &ledgerFixture{
		db:          db,
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		accounts:    NewAccountService(accountRepo, auditRepo, nil),
		posting:     NewPostingService(accountRepo, journalRepo, auditRepo, txManager, nil),
		statements:  NewStatementService(accountRepo, journalRepo, cashFlowRepo, auditRepo),
	}
}

// accountID looks up the seeded account with the given code.
func (f *ledgerFixture) accountID(t *testing.T, code string) string {
	t.Helper()
	account, err := f.accountRepo.FindByCode(context.Background(), code)
	require.NoError(t, err)
	return account.ID.String()
}

// balance returns the cached balance of the account with the given code.
func (f *ledgerFixture) balance(t *testing.T, code string) decimal.Decimal {
	t.Helper()
	account, err := f.accountRepo.FindByCode(context.Background(), code)
	require.NoError(t, err)
	return account.Balance
}

// post posts a simple two-line entry: debit one leaf, credit another.
func (f *ledgerFixture) post(t *testing.T, date, debitCode, creditCode, amount string) JournalEntryResponse {
	t.Helper()
	entry, err := f.posting.PostEntry(context.Background(), "", PostEntryRequest{
		EntryDate:   date,
		Description: fmt.Sprintf("%s -> %s", creditCode, debitCode),
		Lines: []JournalLineRequest{
			{AccountID: f.accountID(t, debitCode), DebitAmount: amount},
			{AccountID: f.accountID(t, creditCode), CreditAmount: amount},
		},
	})
	require.NoError(t, err)
	return entry
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// requireDecEqual compares decimals by value, not representation.
func requireDecEqual(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	require.True(t, dec(expected).Equal(actual), "expected %s, got %s", expected, actual.String())
}
