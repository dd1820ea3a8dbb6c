package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PettyCashMovementType enum constants
const (
	PettyCashReplenish = "REPLENISH"
	PettyCashExpense   = "EXPENSE"
)

// PettyCashFund is a simple sub-ledger of sums: the fund balance is a running
// total of replenishments minus expenses, independent of the journal.
type PettyCashFund struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Custodian string          `gorm:"type:varchar(255)" json:"custodian"`
	Balance   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"balance"`
	IsActive  bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (f *PettyCashFund) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// PettyCashMovement records one replenishment or expense against a fund.
type PettyCashMovement struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	FundID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"fund_id"`
	Fund         *PettyCashFund  `gorm:"foreignKey:FundID" json:"-"`
	Type         string          `gorm:"type:varchar(20);not null" json:"type"` // REPLENISH or EXPENSE
	Amount       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Concept      string          `gorm:"type:text" json:"concept"`
	MovementDate time.Time       `gorm:"type:date;not null;index" json:"movement_date"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (m *PettyCashMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
