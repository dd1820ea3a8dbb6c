package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EntryStatus enum constants
const (
	EntryStatusDraft    = "DRAFT"
	EntryStatusPosted   = "POSTED"
	EntryStatusReversed = "REVERSED"
)

// BalanceTolerance is the maximum accepted difference between total debits and
// total credits of an entry (and of a trial balance).
var BalanceTolerance = decimal.NewFromFloat(0.01)

// JournalEntry is the unit of posting. Once POSTED its lines are immutable and
// its balance deltas have been applied exactly once; REVERSED means a later
// inverse entry (ReversesEntryID on that entry) cancelled its effect.
type JournalEntry struct {
	ID              uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	EntryNumber     string             `gorm:"type:varchar(30);uniqueIndex;not null" json:"entry_number"`
	EntryDate       time.Time          `gorm:"type:date;not null;index" json:"entry_date"`
	Description     string             `gorm:"type:text" json:"description"`
	Reference       string             `gorm:"type:varchar(100)" json:"reference"`
	Status          string             `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	TotalDebit      decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0" json:"total_debit"`
	TotalCredit     decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0" json:"total_credit"`
	ReversesEntryID *uuid.UUID         `gorm:"type:uuid;index" json:"reverses_entry_id,omitempty"`
	Lines           []JournalEntryLine `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE" json:"lines"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func (e *JournalEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// JournalEntryLine is one side of a double entry. Exactly one of DebitAmount /
// CreditAmount is strictly positive; the other is zero.
type JournalEntryLine struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	EntryID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"entry_id"`
	AccountID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"account_id"`
	Account      *Account        `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Description  string          `gorm:"type:text" json:"description"`
	DebitAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"debit_amount"`
	CreditAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"credit_amount"`
}

func (l *JournalEntryLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// EntrySequence backs entry number generation: a persisted per-ledger counter
// incremented inside the posting transaction, so numbers are unique and ordered.
type EntrySequence struct {
	Name      string `gorm:"type:varchar(30);primaryKey" json:"name"`
	NextValue int64  `gorm:"not null;default:0" json:"next_value"`
}

// SequenceJournal is the sequence row name for journal entry numbers.
const SequenceJournal = "journal"
