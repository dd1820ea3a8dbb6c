package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountRepository is the data access layer for the chart of accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	Save(ctx context.Context, account *model.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	FindByCode(ctx context.Context, code string) (*model.Account, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Account, error)
	ListAll(ctx context.Context) ([]model.Account, error)
	ListActive(ctx context.Context) ([]model.Account, error)
	Count(ctx context.Context) (int64, error)
	// AddToBalances adds delta to the cached balance of every account whose
	// code is in codes (a leaf and its ancestor chain) in a single update.
	AddToBalances(ctx context.Context, codes []string, delta decimal.Decimal) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	return GetDB(ctx, r.db).Create(account).Error
}

func (r *accountRepository) Save(ctx context.Context, account *model.Account) error {
	return GetDB(ctx, r.db).Save(account).Error
}

func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var account model.Account
	if err := GetDB(ctx, r.db).First(&account, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindByCode(ctx context.Context, code string) (*model.Account, error) {
	var account model.Account
	if err := GetDB(ctx, r.db).First(&account, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Account, error) {
	var accounts []model.Account
	if err := GetDB(ctx, r.db).Where("id IN ?", ids).Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepository) ListAll(ctx context.Context) ([]model.Account, error) {
	var accounts []model.Account
	if err := GetDB(ctx, r.db).Order("code asc").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepository) ListActive(ctx context.Context) ([]model.Account, error) {
	var accounts []model.Account
	if err := GetDB(ctx, r.db).Where("is_active = ?", true).Order("code asc").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&model.Account{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *accountRepository) AddToBalances(ctx context.Context, codes []string, delta decimal.Decimal) error {
	return GetDB(ctx, r.db).Model(&model.Account{}).
		Where("code IN ?", codes).
		Update("balance", gorm.Expr("balance + ?", delta)).Error
}
