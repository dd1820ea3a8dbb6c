package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateFundRequest struct {
	Name           string `json:"name" binding:"required"`
	Custodian      string `json:"custodian"`
	InitialBalance string `json:"initial_balance"` // Decimal string, empty = 0
}

type FundMovementRequest struct {
	Amount       string `json:"amount" binding:"required"` // Decimal string, > 0
	Concept      string `json:"concept"`
	MovementDate string `json:"movement_date" binding:"required"` // YYYY-MM-DD
}

type FundResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Custodian string `json:"custodian"`
	Balance   string `json:"balance"`
	IsActive  bool   `json:"is_active"`
}

type MovementResponse struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Amount       string `json:"amount"`
	Concept      string `json:"concept"`
	MovementDate string `json:"movement_date"`
}

// --- Interface ---

// PettyCashService keeps a simple sub-ledger of sums per fund, independent of
// the journal: replenishments add, expenses subtract, never below zero.
type PettyCashService interface {
	CreateFund(ctx context.Context, userID string, req CreateFundRequest) (FundResponse, error)
	ListFunds(ctx context.Context) ([]FundResponse, error)
	Replenish(ctx context.Context, userID string, fundID string, req FundMovementRequest) (FundResponse, error)
	Spend(ctx context.Context, userID string, fundID string, req FundMovementRequest) (FundResponse, error)
	ListMovements(ctx context.Context, fundID string, page, limit int) ([]MovementResponse, int64, error)
}

type pettyCashService struct {
	pettyCashRepo repository.PettyCashRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager

	mu sync.Mutex
}

func NewPettyCashService(
	pettyCashRepo repository.PettyCashRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) PettyCashService {
	return &pettyCashService{pettyCashRepo: pettyCashRepo, auditRepo: auditRepo, txManager: txManager}
}

// --- Implementation ---

func (s *pettyCashService) CreateFund(ctx context.Context, userID string, req CreateFundRequest) (FundResponse, error) {
	balance := decimal.Zero
	if req.InitialBalance != "" {
		var err error
		balance, err = decimal.NewFromString(req.InitialBalance)
		if err != nil {
			return FundResponse{}, fmt.Errorf("invalid initial_balance: %w", err)
		}
		if balance.IsNegative() {
			return FundResponse{}, fmt.Errorf("initial_balance must not be negative")
		}
	}

	fund := model.PettyCashFund{
		Name:      req.Name,
		Custodian: req.Custodian,
		Balance:   balance,
		IsActive:  true,
	}

	if err := s.pettyCashRepo.CreateFund(ctx, &fund); err != nil {
		return FundResponse{}, fmt.Errorf("failed to create petty cash fund: %w", err)
	}

	writeAuditLog(ctx, s.auditRepo, userID, model.ActionCreatePettyFund, fund.ID.String(), fund.Name, req)

	return toFundResponse(fund), nil
}

func (s *pettyCashService) ListFunds(ctx context.Context) ([]FundResponse, error) {
	funds, err := s.pettyCashRepo.ListFunds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list petty cash funds: %w", err)
	}

	res := make([]FundResponse, 0, len(funds))
	for _, f := range funds {
		res = append(res, toFundResponse(f))
	}
	return res, nil
}

func (s *pettyCashService) Replenish(ctx context.Context, userID string, fundID string, req FundMovementRequest) (FundResponse, error) {
	return s.move(ctx, userID, fundID, model.PettyCashReplenish, req)
}

func (s *pettyCashService) Spend(ctx context.Context, userID string, fundID string, req FundMovementRequest) (FundResponse, error) {
	return s.move(ctx, userID, fundID, model.PettyCashExpense, req)
}

func (s *pettyCashService) ListMovements(ctx context.Context, fundID string, page, limit int) ([]MovementResponse, int64, error) {
	id, err := uuid.Parse(fundID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid fund id: %w", err)
	}

	movements, total, err := s.pettyCashRepo.ListMovements(ctx, id, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list movements: %w", err)
	}

	res := make([]MovementResponse, 0, len(movements))
	for _, m := range movements {
		res = append(res, MovementResponse{
			ID:           m.ID.String(),
			Type:         m.Type,
			Amount:       m.Amount.StringFixed(2),
			Concept:      m.Concept,
			MovementDate: m.MovementDate.Format("2006-01-02"),
		})
	}
	return res, total, nil
}

// --- Helpers ---

func (s *pettyCashService) move(ctx context.Context, userID string, fundID string, movementType string, req FundMovementRequest) (FundResponse, error) {
	id, err := uuid.Parse(fundID)
	if err != nil {
		return FundResponse{}, fmt.Errorf("invalid fund id: %w", err)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return FundResponse{}, fmt.Errorf("invalid amount: %w", err)
	}
	if !amount.IsPositive() {
		return FundResponse{}, fmt.Errorf("amount must be greater than 0")
	}

	movementDate, err := time.Parse("2006-01-02", req.MovementDate)
	if err != nil {
		return FundResponse{}, fmt.Errorf("invalid movement_date format (expected YYYY-MM-DD): %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var fund *model.PettyCashFund
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		fund, err = s.pettyCashRepo.FindFundByID(txCtx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("petty cash fund not found")
			}
			return fmt.Errorf("failed to fetch fund: %w", err)
		}
		if !fund.IsActive {
			return fmt.Errorf("petty cash fund '%s' is inactive", fund.Name)
		}

		delta := amount
		if movementType == model.PettyCashExpense {
			if fund.Balance.LessThan(amount) {
				return fmt.Errorf("insufficient fund balance: %s available, %s requested",
					fund.Balance.StringFixed(2), amount.StringFixed(2))
			}
			delta = amount.Neg()
		}

		movement := model.PettyCashMovement{
			FundID:       fund.ID,
			Type:         movementType,
			Amount:       amount,
			Concept:      req.Concept,
			MovementDate: movementDate,
		}
		if err := s.pettyCashRepo.CreateMovement(txCtx, &movement); err != nil {
			return fmt.Errorf("failed to record movement: %w", err)
		}

		if err := s.pettyCashRepo.AddToFundBalance(txCtx, fund.ID, delta); err != nil {
			return fmt.Errorf("failed to update fund balance: %w", err)
		}

		fund.Balance = fund.Balance.Add(delta)
		return nil
	})
	if err != nil {
		return FundResponse{}, err
	}

	writeAuditLog(ctx, s.auditRepo, userID, model.ActionPettyCashMovement, fund.ID.String(), fund.Name, req)

	return toFundResponse(*fund), nil
}

func toFundResponse(f model.PettyCashFund) FundResponse {
	return FundResponse{
		ID:        f.ID.String(),
		Name:      f.Name,
		Custodian: f.Custodian,
		Balance:   f.Balance.StringFixed(2),
		IsActive:  f.IsActive,
	}
}
