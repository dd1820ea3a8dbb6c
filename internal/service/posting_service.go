package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type JournalLineRequest struct {
	AccountID    string `json:"account_id" binding:"required"`
	Description  string `json:"description"`
	DebitAmount  string `json:"debit_amount"`  // Decimal string, empty = 0
	CreditAmount string `json:"credit_amount"` // Decimal string, empty = 0
}

type PostEntryRequest struct {
	EntryNumber string               `json:"entry_number"`                  // Optional: generated from the sequence when empty
	EntryDate   string               `json:"entry_date" binding:"required"` // YYYY-MM-DD
	Description string               `json:"description"`
	Reference   string               `json:"reference"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

type JournalLineResponse struct {
	AccountID    string `json:"account_id"`
	AccountCode  string `json:"account_code,omitempty"`
	Description  string `json:"description"`
	DebitAmount  string `json:"debit_amount"`
	CreditAmount string `json:"credit_amount"`
}

type JournalEntryResponse struct {
	ID              string                `json:"id"`
	EntryNumber     string                `json:"entry_number"`
	EntryDate       string                `json:"entry_date"`
	Description     string                `json:"description"`
	Reference       string                `json:"reference"`
	Status          string                `json:"status"`
	TotalDebit      string                `json:"total_debit"`
	TotalCredit     string                `json:"total_credit"`
	ReversesEntryID *string               `json:"reverses_entry_id,omitempty"`
	Lines           []JournalLineResponse `json:"lines"`
}

// --- Interface ---

type PostingService interface {
	// PostEntry validates a set of journal lines and applies them exactly once:
	// zero-amount lines are discarded, the remainder must each carry exactly one
	// side, reference posting-allowed active accounts, and balance within the
	// tolerance. The entry and every balance delta commit atomically.
	PostEntry(ctx context.Context, userID string, req PostEntryRequest) (JournalEntryResponse, error)
	// ReverseEntry creates a new balanced entry with every line's debit/credit
	// swapped, linked to the original, and marks the original REVERSED. The
	// original is never rewound in place.
	ReverseEntry(ctx context.Context, userID string, entryID string) (JournalEntryResponse, error)
	GetEntry(ctx context.Context, entryID string) (JournalEntryResponse, error)
	ListEntries(ctx context.Context, page, limit int) ([]JournalEntryResponse, int64, error)
}

type postingService struct {
	accountRepo repository.AccountRepository
	journalRepo repository.JournalRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	hub         *ws.Hub

	// Single writer per ledger: postings touch shared ancestor accounts, so
	// two concurrent postings must never interleave their delta walks.
	mu sync.Mutex
}

func NewPostingService(
	accountRepo repository.AccountRepository,
	journalRepo repository.JournalRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) PostingService {
	return &postingService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		hub:         hub,
	}
}

// --- Implementation ---

// postingLine is a validated journal line bound to its target account.
type postingLine struct {
	account     model.Account
	description string
	debit       decimal.Decimal
	credit      decimal.Decimal
}

func (s *postingService) PostEntry(ctx context.Context, userID string, req PostEntryRequest) (JournalEntryResponse, error) {
	entryDate, err := time.Parse("2006-01-02", req.EntryDate)
	if err != nil {
		return JournalEntryResponse{}, validationErrorf("invalid entry_date '%s': expected YYYY-MM-DD", req.EntryDate)
	}

	lines, totalDebit, totalCredit, err := s.validateLines(ctx, req.Lines)
	if err != nil {
		return JournalEntryResponse{}, err
	}

	if totalDebit.Sub(totalCredit).Abs().GreaterThan(model.BalanceTolerance) {
		return JournalEntryResponse{}, &UnbalancedEntryError{TotalDebit: totalDebit, TotalCredit: totalCredit}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var entry *model.JournalEntry
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		entryNumber := req.EntryNumber
		if entryNumber == "" {
			entryNumber, err = s.journalRepo.NextEntryNumber(txCtx)
			if err != nil {
				return err
			}
		} else {
			exists, err := s.journalRepo.ExistsEntryNumber(txCtx, entryNumber)
			if err != nil {
				return fmt.Errorf("failed to check entry number: %w", err)
			}
			if exists {
				return &DuplicateEntryNumberError{EntryNumber: entryNumber}
			}
		}

		entry = &model.JournalEntry{
			EntryNumber: entryNumber,
			EntryDate:   entryDate,
			Description: req.Description,
			Reference:   req.Reference,
			Status:      model.EntryStatusPosted,
			TotalDebit:  totalDebit,
			TotalCredit: totalCredit,
		}
		for _, l := range lines {
			entry.Lines = append(entry.Lines, model.JournalEntryLine{
				AccountID:    l.account.ID,
				Description:  l.description,
				DebitAmount:  l.debit,
				CreditAmount: l.credit,
			})
		}

		if err := s.journalRepo.Create(txCtx, entry); err != nil {
			return fmt.Errorf("failed to create journal entry: %w", err)
		}

		return s.applyDeltas(txCtx, lines)
	})
	if err != nil {
		return JournalEntryResponse{}, err
	}

	s.writeAuditLog(ctx, userID, model.ActionPostEntry, entry.EntryNumber, req.Description, req)
	s.broadcast("entry_posted", map[string]interface{}{
		"entry_number": entry.EntryNumber,
		"entry_date":   entry.EntryDate.Format("2006-01-02"),
		"total":        entry.TotalDebit.StringFixed(2),
	})

	return toJournalEntryResponse(*entry), nil
}

func (s *postingService) ReverseEntry(ctx context.Context, userID string, entryID string) (JournalEntryResponse, error) {
	id, err := uuid.Parse(entryID)
	if err != nil {
		return JournalEntryResponse{}, validationErrorf("invalid entry id '%s'", entryID)
	}

	original, err := s.journalRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return JournalEntryResponse{}, &UnknownEntryError{EntryID: entryID}
		}
		return JournalEntryResponse{}, fmt.Errorf("failed to fetch journal entry: %w", err)
	}

	if original.Status != model.EntryStatusPosted {
		return JournalEntryResponse{}, validationErrorf("only POSTED entries can be reversed (status is %s)", original.Status)
	}

	accountIDs := make([]uuid.UUID, 0, len(original.Lines))
	for _, l := range original.Lines {
		accountIDs = append(accountIDs, l.AccountID)
	}
	accountsByID, err := s.fetchAccounts(ctx, accountIDs)
	if err != nil {
		return JournalEntryResponse{}, err
	}

	var lines []postingLine
	for _, l := range original.Lines {
		account, ok := accountsByID[l.AccountID]
		if !ok {
			return JournalEntryResponse{}, &UnknownAccountError{AccountID: l.AccountID.String()}
		}
		// Swap sides: the reversal cancels the original's effect.
		lines = append(lines, postingLine{
			account:     account,
			description: l.Description,
			debit:       l.CreditAmount,
			credit:      l.DebitAmount,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var reversal *model.JournalEntry
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		entryNumber, err := s.journalRepo.NextEntryNumber(txCtx)
		if err != nil {
			return err
		}

		reversal = &model.JournalEntry{
			EntryNumber:     entryNumber,
			EntryDate:       time.Now().UTC().Truncate(24 * time.Hour),
			Description:     "Reversal of " + original.EntryNumber,
			Reference:       original.Reference,
			Status:          model.EntryStatusPosted,
			TotalDebit:      original.TotalCredit,
			TotalCredit:     original.TotalDebit,
			ReversesEntryID: &original.ID,
		}
		for _, l := range lines {
			reversal.Lines = append(reversal.Lines, model.JournalEntryLine{
				AccountID:    l.account.ID,
				Description:  l.description,
				DebitAmount:  l.debit,
				CreditAmount: l.credit,
			})
		}

		if err := s.journalRepo.Create(txCtx, reversal); err != nil {
			return fmt.Errorf("failed to create reversal entry: %w", err)
		}

		if err := s.applyDeltas(txCtx, lines); err != nil {
			return err
		}

		original.Status = model.EntryStatusReversed
		if err := s.journalRepo.Save(txCtx, original); err != nil {
			return fmt.Errorf("failed to mark entry reversed: %w", err)
		}
		return nil
	})
	if err != nil {
		return JournalEntryResponse{}, err
	}

	s.writeAuditLog(ctx, userID, model.ActionReverseEntry, reversal.EntryNumber, "Reversal of "+original.EntryNumber,
		map[string]string{"original_entry": original.EntryNumber})
	s.broadcast("entry_reversed", map[string]interface{}{
		"entry_number":   reversal.EntryNumber,
		"original_entry": original.EntryNumber,
	})

	return toJournalEntryResponse(*reversal), nil
}

func (s *postingService) GetEntry(ctx context.Context, entryID string) (JournalEntryResponse, error) {
	id, err := uuid.Parse(entryID)
	if err != nil {
		return JournalEntryResponse{}, validationErrorf("invalid entry id '%s'", entryID)
	}

	entry, err := s.journalRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return JournalEntryResponse{}, &UnknownEntryError{EntryID: entryID}
		}
		return JournalEntryResponse{}, fmt.Errorf("failed to fetch journal entry: %w", err)
	}

	return toJournalEntryResponse(*entry), nil
}

func (s *postingService) ListEntries(ctx context.Context, page, limit int) ([]JournalEntryResponse, int64, error) {
	entries, total, err := s.journalRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list journal entries: %w", err)
	}

	res := make([]JournalEntryResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, toJournalEntryResponse(e))
	}
	return res, total, nil
}

// --- Helpers ---

// validateLines drops zero lines, enforces the one-side rule and resolves each
// line's account, returning the surviving lines plus raw totals.
func (s *postingService) validateLines(ctx context.Context, reqLines []JournalLineRequest) ([]postingLine, decimal.Decimal, decimal.Decimal, error) {
	type parsedLine struct {
		index     int
		accountID uuid.UUID
		desc      string
		debit     decimal.Decimal
		credit    decimal.Decimal
	}

	var parsed []parsedLine
	for i, l := range reqLines {
		debit, err := parseAmount(l.DebitAmount)
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, validationErrorf("line %d: invalid debit_amount: %v", i+1, err)
		}
		credit, err := parseAmount(l.CreditAmount)
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, validationErrorf("line %d: invalid credit_amount: %v", i+1, err)
		}
		if debit.IsNegative() || credit.IsNegative() {
			return nil, decimal.Zero, decimal.Zero, validationErrorf("line %d: amounts must not be negative", i+1)
		}

		// Lines with neither side are discarded before balancing.
		if debit.IsZero() && credit.IsZero() {
			continue
		}
		if debit.IsPositive() && credit.IsPositive() {
			return nil, decimal.Zero, decimal.Zero, &UnbalancedLineError{LineIndex: i, Debit: debit, Credit: credit}
		}

		accountID, err := uuid.Parse(l.AccountID)
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, &InvalidAccountError{LineIndex: i, AccountID: l.AccountID, Reason: "is not a valid account id"}
		}

		parsed = append(parsed, parsedLine{index: i, accountID: accountID, desc: l.Description, debit: debit, credit: credit})
	}

	// Zero lines were discarded above; what remains must still form a real
	// double entry or the engine would mint empty POSTED entries.
	if len(parsed) < 2 {
		return nil, decimal.Zero, decimal.Zero, validationErrorf("entry requires at least two lines with amounts (got %d)", len(parsed))
	}

	accountIDs := make([]uuid.UUID, 0, len(parsed))
	for _, p := range parsed {
		accountIDs = append(accountIDs, p.accountID)
	}
	accountsByID, err := s.fetchAccounts(ctx, accountIDs)
	if err != nil {
		return nil, decimal.Zero, decimal.Zero, err
	}

	var lines []postingLine
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, p := range parsed {
		account, ok := accountsByID[p.accountID]
		if !ok {
			return nil, decimal.Zero, decimal.Zero, &InvalidAccountError{LineIndex: p.index, AccountID: p.accountID.String(), Reason: "does not exist"}
		}
		if !account.IsActive {
			return nil, decimal.Zero, decimal.Zero, &InvalidAccountError{LineIndex: p.index, AccountID: account.Code, Reason: "is inactive"}
		}
		if !account.AllowPosting {
			return nil, decimal.Zero, decimal.Zero, &PostingToGroupAccountError{LineIndex: p.index, AccountCode: account.Code}
		}

		lines = append(lines, postingLine{account: account, description: p.desc, debit: p.debit, credit: p.credit})
		totalDebit = totalDebit.Add(p.debit)
		totalCredit = totalCredit.Add(p.credit)
	}

	return lines, totalDebit, totalCredit, nil
}

// applyDeltas walks each line's account and ancestor chain, adding the signed
// delta to every cached balance. Runs inside the posting transaction.
func (s *postingService) applyDeltas(txCtx context.Context, lines []postingLine) error {
	for _, l := range lines {
		delta := l.account.SignedDelta(l.debit, l.credit)
		if delta.IsZero() {
			continue
		}
		codes := append([]string{l.account.Code}, model.AncestorCodes(l.account.Code)...)
		if err := s.accountRepo.AddToBalances(txCtx, codes, delta); err != nil {
			return fmt.Errorf("failed to apply balance delta to account '%s': %w", l.account.Code, err)
		}
	}
	return nil
}

func (s *postingService) fetchAccounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Account, error) {
	accounts, err := s.accountRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	byID := make(map[uuid.UUID]model.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}
	return byID, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func toJournalEntryResponse(e model.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		ID:          e.ID.String(),
		EntryNumber: e.EntryNumber,
		EntryDate:   e.EntryDate.Format("2006-01-02"),
		Description: e.Description,
		Reference:   e.Reference,
		Status:      e.Status,
		TotalDebit:  e.TotalDebit.StringFixed(2),
		TotalCredit: e.TotalCredit.StringFixed(2),
	}
	if e.ReversesEntryID != nil {
		id := e.ReversesEntryID.String()
		resp.ReversesEntryID = &id
	}
	for _, l := range e.Lines {
		line := JournalLineResponse{
			AccountID:    l.AccountID.String(),
			Description:  l.Description,
			DebitAmount:  l.DebitAmount.StringFixed(2),
			CreditAmount: l.CreditAmount.StringFixed(2),
		}
		if l.Account != nil {
			line.AccountCode = l.Account.Code
		}
		resp.Lines = append(resp.Lines, line)
	}
	return resp
}

func (s *postingService) writeAuditLog(ctx context.Context, userID, action, entityID, entityName string, details interface{}) {
	writeAuditLog(ctx, s.auditRepo, userID, action, entityID, entityName, details)
}

// broadcast pushes a ledger event to connected dashboard clients, best-effort.
func (s *postingService) broadcast(event string, data map[string]interface{}) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(ws.LedgerEvent{Event: event, Data: data})
	if err != nil {
		return
	}
	s.hub.Broadcast <- payload
}
