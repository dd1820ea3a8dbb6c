package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountType enum constants
const (
	AccountTypeAsset     = "ASSET"
	AccountTypeLiability = "LIABILITY"
	AccountTypeEquity    = "EQUITY"
	AccountTypeIncome    = "INCOME"
	AccountTypeExpense   = "EXPENSE"
	AccountTypeCost      = "COST"
)

// NormalBalance enum constants
const (
	NormalBalanceDebit  = "DEBIT"
	NormalBalanceCredit = "CREDIT"
)

// CodeDelimiter separates hierarchy segments in an account code, e.g. "1.1.02".
const CodeDelimiter = "."

// Account is a node in the chart of accounts. Balance is a cached aggregate:
// postings add their signed delta to the leaf and to every ancestor, so a group
// account's balance always equals the sum of its descendant leaves without
// recomputation on read.
type Account struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Code          string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"code"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	Type          string          `gorm:"type:varchar(20);not null;index" json:"type"`           // ASSET, LIABILITY, EQUITY, INCOME, EXPENSE, COST
	NormalBalance string          `gorm:"type:varchar(10);not null" json:"normal_balance"`       // DEBIT or CREDIT, fixed at creation
	AllowPosting  bool            `gorm:"not null;default:false" json:"allow_posting"`           // true = leaf, false = group/header
	Level         int             `gorm:"not null" json:"level"`                                 // depth in the hierarchy, root = 1
	Balance       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"balance"`  // cached signed balance
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// ParentCode returns the code of the implied parent ("1.1.02" -> "1.1"),
// or "" for a root-level code.
func ParentCode(code string) string {
	i := strings.LastIndex(code, CodeDelimiter)
	if i < 0 {
		return ""
	}
	return code[:i]
}

// CodeLevel returns the hierarchy depth implied by a code (root = 1).
func CodeLevel(code string) int {
	return strings.Count(code, CodeDelimiter) + 1
}

// AncestorCodes returns every ancestor code of the given code, nearest first.
// "1.1.02" -> ["1.1", "1"].
func AncestorCodes(code string) []string {
	var ancestors []string
	for p := ParentCode(code); p != ""; p = ParentCode(p) {
		ancestors = append(ancestors, p)
	}
	return ancestors
}

// SignedDelta translates a raw debit/credit pair into the signed balance delta
// for this account. This is the single place the sign convention lives: a
// debit-normal account grows with debits and shrinks with credits, a
// credit-normal account the other way around. Reports must interpret Balance
// through NormalBalance instead of re-deriving sign from Type.
func (a *Account) SignedDelta(debit, credit decimal.Decimal) decimal.Decimal {
	if a.NormalBalance == NormalBalanceDebit {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// BalanceSides splits a signed balance into the debit/credit pair shown on
// reports: exactly one side carries abs(balance), on the normal side when the
// balance has its expected sign and on the opposite side otherwise.
func (a *Account) BalanceSides(balance decimal.Decimal) (debit, credit decimal.Decimal) {
	if balance.IsZero() {
		return decimal.Zero, decimal.Zero
	}
	onNormalSide := balance.IsPositive()
	if (a.NormalBalance == NormalBalanceDebit) == onNormalSide {
		return balance.Abs(), decimal.Zero
	}
	return decimal.Zero, balance.Abs()
}

// NormalBalanceForType returns the conventional normal balance for an account type.
func NormalBalanceForType(accountType string) string {
	switch accountType {
	case AccountTypeAsset, AccountTypeExpense, AccountTypeCost:
		return NormalBalanceDebit
	default:
		return NormalBalanceCredit
	}
}
