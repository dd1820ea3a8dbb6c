package database

import (
	"errors"
	"log"

	"backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// Migrate runs the schema migration for all ledger models
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.AuditLog{},
		&model.Account{},
		&model.JournalEntry{},
		&model.JournalEntryLine{},
		&model.EntrySequence{},
		&model.CashFlowMapping{},
		&model.PettyCashFund{},
		&model.PettyCashMovement{},
	)
}

// Seed installs the default chart of accounts when the accounts table is empty
// and makes sure the journal entry sequence row exists. Safe to call on every
// startup.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Account{}).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		accounts := make([]model.Account, 0, len(model.DefaultChart))
		for _, entry := range model.DefaultChart {
			normalBalance := entry.NormalBalance
			if normalBalance == "" {
				normalBalance = model.NormalBalanceForType(entry.Type)
			}
			accounts = append(accounts, model.Account{
				Code:          entry.Code,
				Name:          entry.Name,
				Type:          entry.Type,
				NormalBalance: normalBalance,
				AllowPosting:  entry.AllowPosting,
				Level:         model.CodeLevel(entry.Code),
				IsActive:      true,
			})
		}
		if err := db.Create(&accounts).Error; err != nil {
			return err
		}
		log.Printf("Seeded default chart of accounts (%d accounts)", len(accounts))
	}

	// NextValue holds the last issued number; the posting transaction
	// increments before reading, so a fresh ledger starts at JE-000001.
	var seq model.EntrySequence
	err := db.Where("name = ?", model.SequenceJournal).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(&model.EntrySequence{Name: model.SequenceJournal, NextValue: 0}).Error
	}
	return err
}
