package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CashFlowMappingRepository interface {
	Upsert(ctx context.Context, mapping *model.CashFlowMapping) error
	ListAll(ctx context.Context) ([]model.CashFlowMapping, error)
	DeleteByAccount(ctx context.Context, accountID uuid.UUID) error
}

type cashFlowMappingRepository struct {
	db *gorm.DB
}

func NewCashFlowMappingRepository(db *gorm.DB) CashFlowMappingRepository {
	return &cashFlowMappingRepository{db: db}
}

func (r *cashFlowMappingRepository) Upsert(ctx context.Context, mapping *model.CashFlowMapping) error {
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"category", "updated_at"}),
	}).Create(mapping).Error
}

func (r *cashFlowMappingRepository) ListAll(ctx context.Context) ([]model.CashFlowMapping, error) {
	var mappings []model.CashFlowMapping
	if err := GetDB(ctx, r.db).Preload("Account").Find(&mappings).Error; err != nil {
		return nil, err
	}
	return mappings, nil
}

func (r *cashFlowMappingRepository) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("account_id = ?", accountID).Delete(&model.CashFlowMapping{}).Error
}
