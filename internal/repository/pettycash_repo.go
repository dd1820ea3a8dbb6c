package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PettyCashRepository interface {
	CreateFund(ctx context.Context, fund *model.PettyCashFund) error
	FindFundByID(ctx context.Context, id uuid.UUID) (*model.PettyCashFund, error)
	ListFunds(ctx context.Context) ([]model.PettyCashFund, error)
	AddToFundBalance(ctx context.Context, fundID uuid.UUID, delta decimal.Decimal) error
	CreateMovement(ctx context.Context, movement *model.PettyCashMovement) error
	ListMovements(ctx context.Context, fundID uuid.UUID, page, limit int) ([]model.PettyCashMovement, int64, error)
}

type pettyCashRepository struct {
	db *gorm.DB
}

func NewPettyCashRepository(db *gorm.DB) PettyCashRepository {
	return &pettyCashRepository{db: db}
}

func (r *pettyCashRepository) CreateFund(ctx context.Context, fund *model.PettyCashFund) error {
	return GetDB(ctx, r.db).Create(fund).Error
}

func (r *pettyCashRepository) FindFundByID(ctx context.Context, id uuid.UUID) (*model.PettyCashFund, error) {
	var fund model.PettyCashFund
	if err := GetDB(ctx, r.db).First(&fund, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &fund, nil
}

func (r *pettyCashRepository) ListFunds(ctx context.Context) ([]model.PettyCashFund, error) {
	var funds []model.PettyCashFund
	if err := GetDB(ctx, r.db).Order("name asc").Find(&funds).Error; err != nil {
		return nil, err
	}
	return funds, nil
}

func (r *pettyCashRepository) AddToFundBalance(ctx context.Context, fundID uuid.UUID, delta decimal.Decimal) error {
	return GetDB(ctx, r.db).Model(&model.PettyCashFund{}).
		Where("id = ?", fundID).
		Update("balance", gorm.Expr("balance + ?", delta)).Error
}

func (r *pettyCashRepository) CreateMovement(ctx context.Context, movement *model.PettyCashMovement) error {
	return GetDB(ctx, r.db).Create(movement).Error
}

func (r *pettyCashRepository) ListMovements(ctx context.Context, fundID uuid.UUID, page, limit int) ([]model.PettyCashMovement, int64, error) {
	var movements []model.PettyCashMovement
	var total int64

	db := GetDB(ctx, r.db).Model(&model.PettyCashMovement{}).Where("fund_id = ?", fundID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("movement_date desc, created_at desc").Offset(offset).Limit(limit).Find(&movements).Error; err != nil {
		return nil, 0, err
	}

	return movements, total, nil
}
