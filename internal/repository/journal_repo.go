package repository

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountMovement is the aggregated posting activity of one account over a
// date range, straight debit/credit sums before any sign interpretation.
type AccountMovement struct {
	AccountID uuid.UUID
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// JournalRepository is the data access layer for journal entries and their lines.
type JournalRepository interface {
	Create(ctx context.Context, entry *model.JournalEntry) error
	Save(ctx context.Context, entry *model.JournalEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.JournalEntry, error)
	FindByEntryNumber(ctx context.Context, entryNumber string) (*model.JournalEntry, error)
	ExistsEntryNumber(ctx context.Context, entryNumber string) (bool, error)
	List(ctx context.Context, page, limit int) ([]model.JournalEntry, int64, error)
	// NextEntryNumber increments the persisted journal sequence and returns the
	// formatted number. Must run inside the posting transaction so a rollback
	// releases the number together with the entry.
	NextEntryNumber(ctx context.Context) (string, error)
	// MovementsThrough aggregates posted line sums per account with entry dates
	// on/before the cutoff. Historical balances are replays of these sums; the
	// model keeps no point-in-time balance store.
	MovementsThrough(ctx context.Context, cutoff time.Time) ([]AccountMovement, error)
	// MovementsBetween aggregates posted line sums per account within [from, to].
	MovementsBetween(ctx context.Context, from, to time.Time) ([]AccountMovement, error)
}

type journalRepository struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) JournalRepository {
	return &journalRepository{db: db}
}

func (r *journalRepository) Create(ctx context.Context, entry *model.JournalEntry) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *journalRepository) Save(ctx context.Context, entry *model.JournalEntry) error {
	return GetDB(ctx, r.db).Save(entry).Error
}

func (r *journalRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.JournalEntry, error) {
	var entry model.JournalEntry
	if err := GetDB(ctx, r.db).Preload("Lines").Preload("Lines.Account").First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *journalRepository) FindByEntryNumber(ctx context.Context, entryNumber string) (*model.JournalEntry, error) {
	var entry model.JournalEntry
	if err := GetDB(ctx, r.db).Preload("Lines").First(&entry, "entry_number = ?", entryNumber).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *journalRepository) ExistsEntryNumber(ctx context.Context, entryNumber string) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.JournalEntry{}).
		Where("entry_number = ?", entryNumber).Count(&count).Error
	return count > 0, err
}

func (r *journalRepository) List(ctx context.Context, page, limit int) ([]model.JournalEntry, int64, error) {
	var entries []model.JournalEntry
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.JournalEntry{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Lines").Order("entry_date desc, entry_number desc").
		Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *journalRepository) NextEntryNumber(ctx context.Context) (string, error) {
	db := GetDB(ctx, r.db)

	res := db.Model(&model.EntrySequence{}).
		Where("name = ?", model.SequenceJournal).
		Update("next_value", gorm.Expr("next_value + 1"))
	if res.Error != nil {
		return "", fmt.Errorf("failed to advance journal sequence: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if err := db.Create(&model.EntrySequence{Name: model.SequenceJournal, NextValue: 1}).Error; err != nil {
			return "", fmt.Errorf("failed to initialize journal sequence: %w", err)
		}
		return fmt.Sprintf("JE-%06d", 1), nil
	}

	var seq model.EntrySequence
	if err := db.First(&seq, "name = ?", model.SequenceJournal).Error; err != nil {
		return "", fmt.Errorf("failed to read journal sequence: %w", err)
	}
	return fmt.Sprintf("JE-%06d", seq.NextValue), nil
}

func (r *journalRepository) MovementsThrough(ctx context.Context, cutoff time.Time) ([]AccountMovement, error) {
	return r.aggregate(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("journal_entries.entry_date <= ?", cutoff)
	})
}

func (r *journalRepository) MovementsBetween(ctx context.Context, from, to time.Time) ([]AccountMovement, error) {
	return r.aggregate(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("journal_entries.entry_date >= ? AND journal_entries.entry_date <= ?", from, to)
	})
}

func (r *journalRepository) aggregate(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]AccountMovement, error) {
	var rows []struct {
		AccountID uuid.UUID
		Debit     decimal.Decimal
		Credit    decimal.Decimal
	}

	q := GetDB(ctx, r.db).Table("journal_entry_lines").
		Select("journal_entry_lines.account_id as account_id, COALESCE(SUM(journal_entry_lines.debit_amount), 0) as debit, COALESCE(SUM(journal_entry_lines.credit_amount), 0) as credit").
		Joins("JOIN journal_entries ON journal_entries.id = journal_entry_lines.entry_id").
		Where("journal_entries.status IN ?", []string{model.EntryStatusPosted, model.EntryStatusReversed}).
		Group("journal_entry_lines.account_id")

	if err := scope(q).Scan(&rows).Error; err != nil {
		return nil, err
	}

	movements := make([]AccountMovement, 0, len(rows))
	for _, row := range rows {
		movements = append(movements, AccountMovement{AccountID: row.AccountID, Debit: row.Debit, Credit: row.Credit})
	}
	return movements, nil
}
