package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type SetCashFlowMappingRequest struct {
	AccountCode string `json:"account_code" binding:"required"`
	Category    string `json:"category" binding:"required,oneof=OPERATING INVESTING FINANCING"`
}

type CashFlowMappingResponse struct {
	AccountCode string `json:"account_code"`
	AccountName string `json:"account_name"`
	Category    string `json:"category"`
}

// --- Interface ---

// StatementService derives read-only views over the account tree for a cutoff
// date or range. Cutoffs are achieved by aggregating postings dated on/before
// the cutoff (the model keeps no point-in-time balance store); the cached
// account balances are only authoritative for "now".
type StatementService interface {
	TrialBalance(ctx context.Context, mode string, from, to time.Time) (model.TrialBalanceReport, error)
	BalanceSheet(ctx context.Context, asOf time.Time) (model.BalanceSheetReport, error)
	IncomeStatement(ctx context.Context, from, to time.Time) (model.IncomeStatementReport, error)
	CashFlowStatement(ctx context.Context, from, to time.Time) (model.CashFlowReport, error)
	SetCashFlowMapping(ctx context.Context, userID string, req SetCashFlowMappingRequest) error
	ListCashFlowMappings(ctx context.Context) ([]CashFlowMappingResponse, error)
}

type statementService struct {
	accountRepo  repository.AccountRepository
	journalRepo  repository.JournalRepository
	cashFlowRepo repository.CashFlowMappingRepository
	auditRepo    repository.AuditRepository
}

func NewStatementService(
	accountRepo repository.AccountRepository,
	journalRepo repository.JournalRepository,
	cashFlowRepo repository.CashFlowMappingRepository,
	auditRepo repository.AuditRepository,
) StatementService {
	return &statementService{
		accountRepo:  accountRepo,
		journalRepo:  journalRepo,
		cashFlowRepo: cashFlowRepo,
		auditRepo:    auditRepo,
	}
}

// --- Implementation ---

// ledgerView holds per-code aggregates for a report window: raw period
// movement and the ending signed balance, both rolled up into group accounts.
type ledgerView struct {
	accounts       []model.Account
	movementDebit  map[string]decimal.Decimal
	movementCredit map[string]decimal.Decimal
	endingBalance  map[string]decimal.Decimal
}

func (s *statementService) TrialBalance(ctx context.Context, mode string, from, to time.Time) (model.TrialBalanceReport, error) {
	if mode != model.TrialBalanceDetail && mode != model.TrialBalanceSummary {
		return model.TrialBalanceReport{}, validationErrorf("invalid trial balance mode '%s': expected detail or summary", mode)
	}
	if to.Before(from) {
		return model.TrialBalanceReport{}, &InvalidDateRangeError{From: from.Format("2006-01-02"), To: to.Format("2006-01-02")}
	}

	view, err := s.buildView(ctx, from, to)
	if err != nil {
		return model.TrialBalanceReport{}, err
	}

	report := model.TrialBalanceReport{Mode: mode, From: from, To: to}
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero

	for _, a := range view.accounts {
		// Totals come from leaves only; group rows repeat rolled-up numbers.
		if a.AllowPosting {
			totalDebit = totalDebit.Add(view.movementDebit[a.Code])
			totalCredit = totalCredit.Add(view.movementCredit[a.Code])
		}

		if mode == model.TrialBalanceSummary && a.AllowPosting && a.Level > 2 {
			continue
		}

		finalDebit, finalCredit := a.BalanceSides(view.endingBalance[a.Code])
		report.Rows = append(report.Rows, model.StatementRow{
			Code:           a.Code,
			Name:           a.Name,
			Level:          a.Level,
			AllowPosting:   a.AllowPosting,
			MovementDebit:  view.movementDebit[a.Code],
			MovementCredit: view.movementCredit[a.Code],
			FinalDebit:     finalDebit,
			FinalCredit:    finalCredit,
		})
	}

	report.TotalDebit = totalDebit
	report.TotalCredit = totalCredit
	report.IsBalanced = totalDebit.Sub(totalCredit).Abs().LessThanOrEqual(model.BalanceTolerance)
	return report, nil
}

func (s *statementService) BalanceSheet(ctx context.Context, asOf time.Time) (model.BalanceSheetReport, error) {
	view, err := s.buildView(ctx, time.Time{}, asOf)
	if err != nil {
		return model.BalanceSheetReport{}, err
	}

	report := model.BalanceSheetReport{AsOf: asOf}
	netIncome := decimal.Zero

	for _, a := range view.accounts {
		balance := view.endingBalance[a.Code]
		line := model.BalanceSheetLine{Code: a.Code, Name: a.Name, Level: a.Level, Balance: balance.Abs()}

		switch a.Type {
		case model.AccountTypeAsset:
			report.Assets = append(report.Assets, line)
			if a.AllowPosting {
				report.TotalAssets = report.TotalAssets.Add(balance)
			}
		case model.AccountTypeLiability:
			report.Liabilities = append(report.Liabilities, line)
			if a.AllowPosting {
				report.TotalLiabilities = report.TotalLiabilities.Add(balance)
			}
		case model.AccountTypeEquity:
			report.Equity = append(report.Equity, line)
			if a.AllowPosting {
				report.TotalEquity = report.TotalEquity.Add(balance)
			}
		case model.AccountTypeIncome:
			if a.AllowPosting {
				netIncome = netIncome.Add(balance)
			}
		case model.AccountTypeExpense, model.AccountTypeCost:
			if a.AllowPosting {
				netIncome = netIncome.Sub(balance)
			}
		}
	}

	// Unclosed period result belongs to equity; without it the accounting
	// equation only holds on a ledger with no income or expense activity.
	if !netIncome.IsZero() {
		report.Equity = append(report.Equity, model.BalanceSheetLine{
			Code:    "",
			Name:    "Resultado del Ejercicio",
			Level:   1,
			Balance: netIncome.Abs(),
		})
		report.TotalEquity = report.TotalEquity.Add(netIncome)
	}

	return report, nil
}

func (s *statementService) IncomeStatement(ctx context.Context, from, to time.Time) (model.IncomeStatementReport, error) {
	if to.Before(from) {
		return model.IncomeStatementReport{}, &InvalidDateRangeError{From: from.Format("2006-01-02"), To: to.Format("2006-01-02")}
	}

	view, err := s.buildView(ctx, from, to)
	if err != nil {
		return model.IncomeStatementReport{}, err
	}

	report := model.IncomeStatementReport{From: from, To: to}

	for _, a := range view.accounts {
		// Period activity in the account's normal direction.
		amount := a.SignedDelta(view.movementDebit[a.Code], view.movementCredit[a.Code])
		line := model.BalanceSheetLine{Code: a.Code, Name: a.Name, Level: a.Level, Balance: amount}

		switch a.Type {
		case model.AccountTypeIncome:
			report.Income = append(report.Income, line)
			if a.AllowPosting {
				report.TotalIncome = report.TotalIncome.Add(amount)
			}
		case model.AccountTypeExpense, model.AccountTypeCost:
			report.Expenses = append(report.Expenses, line)
			if a.AllowPosting {
				report.TotalExpenses = report.TotalExpenses.Add(amount)
			}
		}
	}

	report.NetIncome = report.TotalIncome.Sub(report.TotalExpenses)
	return report, nil
}

func (s *statementService) CashFlowStatement(ctx context.Context, from, to time.Time) (model.CashFlowReport, error) {
	if to.Before(from) {
		return model.CashFlowReport{}, &InvalidDateRangeError{From: from.Format("2006-01-02"), To: to.Format("2006-01-02")}
	}

	mappings, err := s.cashFlowRepo.ListAll(ctx)
	if err != nil {
		return model.CashFlowReport{}, fmt.Errorf("failed to load cash flow mappings: %w", err)
	}

	view, err := s.buildView(ctx, from, to)
	if err != nil {
		return model.CashFlowReport{}, err
	}

	byID := make(map[string]model.Account, len(view.accounts))
	for _, a := range view.accounts {
		byID[a.ID.String()] = a
	}

	report := model.CashFlowReport{From: from, To: to}
	for _, m := range mappings {
		account, ok := byID[m.AccountID.String()]
		if !ok {
			continue // mapping for an inactive account
		}
		amount := account.SignedDelta(view.movementDebit[account.Code], view.movementCredit[account.Code])
		switch m.Category {
		case model.CashFlowOperating:
			report.Operating = report.Operating.Add(amount)
		case model.CashFlowInvesting:
			report.Investing = report.Investing.Add(amount)
		case model.CashFlowFinancing:
			report.Financing = report.Financing.Add(amount)
		}
	}

	report.NetCashFlow = report.Operating.Add(report.Investing).Add(report.Financing)
	return report, nil
}

func (s *statementService) SetCashFlowMapping(ctx context.Context, userID string, req SetCashFlowMappingRequest) error {
	account, err := s.accountRepo.FindByCode(ctx, req.AccountCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &UnknownAccountError{AccountID: req.AccountCode}
		}
		return fmt.Errorf("failed to fetch account: %w", err)
	}

	mapping := model.CashFlowMapping{AccountID: account.ID, Category: req.Category}
	if err := s.cashFlowRepo.Upsert(ctx, &mapping); err != nil {
		return fmt.Errorf("failed to save cash flow mapping: %w", err)
	}

	writeAuditLog(ctx, s.auditRepo, userID, model.ActionSetCashFlowMapping, account.Code, account.Name, req)
	return nil
}

func (s *statementService) ListCashFlowMappings(ctx context.Context) ([]CashFlowMappingResponse, error) {
	mappings, err := s.cashFlowRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cash flow mappings: %w", err)
	}

	res := make([]CashFlowMappingResponse, 0, len(mappings))
	for _, m := range mappings {
		r := CashFlowMappingResponse{Category: m.Category}
		if m.Account != nil {
			r.AccountCode = m.Account.Code
			r.AccountName = m.Account.Name
		}
		res = append(res, r)
	}
	return res, nil
}

// --- Helpers ---

// buildView aggregates the period movement [from, to] and the ending signed
// balance through to, rolling leaf sums up into every ancestor so group rows
// carry correct aggregates. A zero from means "since the beginning".
func (s *statementService) buildView(ctx context.Context, from, to time.Time) (*ledgerView, error) {
	accounts, err := s.accountRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	byID := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID.String()] = a
	}

	view := &ledgerView{
		accounts:       accounts,
		movementDebit:  make(map[string]decimal.Decimal, len(accounts)),
		movementCredit: make(map[string]decimal.Decimal, len(accounts)),
		endingBalance:  make(map[string]decimal.Decimal, len(accounts)),
	}

	var period []repository.AccountMovement
	if from.IsZero() {
		period, err = s.journalRepo.MovementsThrough(ctx, to)
	} else {
		period, err = s.journalRepo.MovementsBetween(ctx, from, to)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate period movements: %w", err)
	}

	for _, m := range period {
		account, ok := byID[m.AccountID.String()]
		if !ok {
			continue
		}
		for _, code := range append([]string{account.Code}, model.AncestorCodes(account.Code)...) {
			view.movementDebit[code] = view.movementDebit[code].Add(m.Debit)
			view.movementCredit[code] = view.movementCredit[code].Add(m.Credit)
		}
	}

	cumulative, err := s.journalRepo.MovementsThrough(ctx, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate cumulative movements: %w", err)
	}
	for _, m := range cumulative {
		account, ok := byID[m.AccountID.String()]
		if !ok {
			continue
		}
		balance := account.SignedDelta(m.Debit, m.Credit)
		for _, code := range append([]string{account.Code}, model.AncestorCodes(account.Code)...) {
			view.endingBalance[code] = view.endingBalance[code].Add(balance)
		}
	}

	return view, nil
}
