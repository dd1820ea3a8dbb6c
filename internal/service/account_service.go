package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateAccountRequest struct {
	Code          string `json:"code" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Type          string `json:"type" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE COST"`
	NormalBalance string `json:"normal_balance" binding:"omitempty,oneof=DEBIT CREDIT"` // defaults from type
	AllowPosting  bool   `json:"allow_posting"`
}

type UpdateAccountRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
}

type AccountResponse struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	NormalBalance string `json:"normal_balance"`
	AllowPosting  bool   `json:"allow_posting"`
	Level         int    `json:"level"`
	Balance       string `json:"balance"`
	IsActive      bool   `json:"is_active"`
	CreatedAt     string `json:"created_at"`
}

// --- Interface ---

type AccountService interface {
	CreateAccount(ctx context.Context, userID string, req CreateAccountRequest) (AccountResponse, error)
	UpdateAccount(ctx context.Context, userID string, code string, req UpdateAccountRequest) (AccountResponse, error)
	GetAccountByCode(ctx context.Context, code string) (AccountResponse, error)
	ListAccounts(ctx context.Context) ([]AccountResponse, error)
	// Snapshot returns the current cached balance of every account. The model
	// keeps no historical balances; a balance "as of" a past date is derived by
	// replaying postings dated on/before that date (see StatementService).
	Snapshot(ctx context.Context) ([]AccountResponse, error)
	// CheckIntegrity verifies that every group account's cached balance equals
	// the sum of its descendant leaves. A divergence is a bug in the engine,
	// reported as InternalInvariantError, never silently corrected.
	CheckIntegrity(ctx context.Context) error
}

type accountService struct {
	accountRepo repository.AccountRepository
	auditRepo   repository.AuditRepository
	hub         *ws.Hub
}

func NewAccountService(accountRepo repository.AccountRepository, auditRepo repository.AuditRepository, hub *ws.Hub) AccountService {
	return &accountService{accountRepo: accountRepo, auditRepo: auditRepo, hub: hub}
}

// --- Implementation ---

func (s *accountService) CreateAccount(ctx context.Context, userID string, req CreateAccountRequest) (AccountResponse, error) {
	if _, err := s.accountRepo.FindByCode(ctx, req.Code); err == nil {
		return AccountResponse{}, &DuplicateCodeError{Code: req.Code}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AccountResponse{}, fmt.Errorf("failed to check account code: %w", err)
	}

	if parentCode := model.ParentCode(req.Code); parentCode != "" {
		parent, err := s.accountRepo.FindByCode(ctx, parentCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return AccountResponse{}, &InvalidHierarchyError{Code: req.Code, ParentCode: parentCode}
			}
			return AccountResponse{}, fmt.Errorf("failed to check parent account: %w", err)
		}
		// An account is either a leaf or a group. Hanging children under a
		// posting-allowed account would double-count its own movements against
		// the rolled-up descendant movements.
		if parent.AllowPosting {
			return AccountResponse{}, &InvalidHierarchyError{
				Code:       req.Code,
				ParentCode: parentCode,
				Reason:     "allows posting and cannot hold child accounts",
			}
		}
	}

	normalBalance := req.NormalBalance
	if normalBalance == "" {
		normalBalance = model.NormalBalanceForType(req.Type)
	}

	account := model.Account{
		Code:          req.Code,
		Name:          req.Name,
		Type:          req.Type,
		NormalBalance: normalBalance,
		AllowPosting:  req.AllowPosting,
		Level:         model.CodeLevel(req.Code),
		Balance:       decimal.Zero,
		IsActive:      true,
	}

	if err := s.accountRepo.Create(ctx, &account); err != nil {
		return AccountResponse{}, fmt.Errorf("failed to create account: %w", err)
	}

	s.writeAuditLog(ctx, userID, model.ActionCreateAccount, account.Code, account.Name, req)
	s.broadcast("account_created", map[string]interface{}{
		"code": account.Code,
		"name": account.Name,
	})

	return toAccountResponse(account), nil
}

func (s *accountService) UpdateAccount(ctx context.Context, userID string, code string, req UpdateAccountRequest) (AccountResponse, error) {
	account, err := s.accountRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AccountResponse{}, &UnknownAccountError{AccountID: code}
		}
		return AccountResponse{}, fmt.Errorf("failed to fetch account: %w", err)
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return AccountResponse{}, fmt.Errorf("failed to update account: %w", err)
	}

	s.writeAuditLog(ctx, userID, model.ActionUpdateAccount, account.Code, account.Name, req)

	return toAccountResponse(*account), nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (AccountResponse, error) {
	account, err := s.accountRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AccountResponse{}, &UnknownAccountError{AccountID: code}
		}
		return AccountResponse{}, fmt.Errorf("failed to fetch account: %w", err)
	}
	return toAccountResponse(*account), nil
}

func (s *accountService) ListAccounts(ctx context.Context) ([]AccountResponse, error) {
	accounts, err := s.accountRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	res := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		res = append(res, toAccountResponse(a))
	}
	return res, nil
}

func (s *accountService) Snapshot(ctx context.Context) ([]AccountResponse, error) {
	return s.ListAccounts(ctx)
}

func (s *accountService) CheckIntegrity(ctx context.Context) error {
	accounts, err := s.accountRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	// Sum every leaf into each of its ancestors, then compare against the
	// cached group balances.
	expected := make(map[string]decimal.Decimal, len(accounts))
	for _, a := range accounts {
		if !a.AllowPosting {
			continue
		}
		for _, ancestor := range model.AncestorCodes(a.Code) {
			expected[ancestor] = expected[ancestor].Add(a.Balance)
		}
	}

	for _, a := range accounts {
		if a.AllowPosting {
			continue
		}
		if !a.Balance.Equal(expected[a.Code]) {
			return &InternalInvariantError{
				Detail: fmt.Sprintf("group account '%s' cached balance %s != descendant sum %s",
					a.Code, a.Balance.StringFixed(2), expected[a.Code].StringFixed(2)),
			}
		}
	}

	return nil
}

// --- Helpers ---

func toAccountResponse(a model.Account) AccountResponse {
	return AccountResponse{
		ID:            a.ID.String(),
		Code:          a.Code,
		Name:          a.Name,
		Type:          a.Type,
		NormalBalance: a.NormalBalance,
		AllowPosting:  a.AllowPosting,
		Level:         a.Level,
		Balance:       a.Balance.StringFixed(2),
		IsActive:      a.IsActive,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
}

func (s *accountService) writeAuditLog(ctx context.Context, userID, action, entityID, entityName string, details interface{}) {
	writeAuditLog(ctx, s.auditRepo, userID, action, entityID, entityName, details)
}

func (s *accountService) broadcast(event string, data map[string]interface{}) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(ws.LedgerEvent{Event: event, Data: data})
	if err != nil {
		return
	}
	s.hub.Broadcast <- payload
}

// writeAuditLog records an action best-effort: a failed audit write never
// fails the operation itself.
func writeAuditLog(ctx context.Context, repo repository.AuditRepository, userID, action, entityID, entityName string, details interface{}) {
	detailsJSON, _ := json.Marshal(details)

	entry := model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(detailsJSON),
	}

	if userID != "" {
		if parsed, err := uuid.Parse(userID); err == nil {
			entry.UserID = &parsed
		}
	}

	_ = repo.Log(ctx, &entry)
}
