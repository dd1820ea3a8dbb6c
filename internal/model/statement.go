package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TrialBalanceMode enum constants
const (
	TrialBalanceDetail  = "detail"
	TrialBalanceSummary = "summary"
)

// StatementRow is one account line of a trial balance. MovementDebit/Credit are
// the period's raw posting totals; FinalDebit/FinalCredit show which side the
// ending balance actually sits on (exactly one is nonzero for a nonzero balance).
type StatementRow struct {
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Level          int             `json:"level"`
	AllowPosting   bool            `json:"allow_posting"`
	MovementDebit  decimal.Decimal `json:"movement_debit"`
	MovementCredit decimal.Decimal `json:"movement_credit"`
	FinalDebit     decimal.Decimal `json:"final_debit"`
	FinalCredit    decimal.Decimal `json:"final_credit"`
}

// TrialBalanceReport lists StatementRows plus the aggregate totals row.
type TrialBalanceReport struct {
	Mode        string          `json:"mode"`
	From        time.Time       `json:"from"`
	To          time.Time       `json:"to"`
	Rows        []StatementRow  `json:"rows"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	IsBalanced  bool            `json:"is_balanced"`
}

// BalanceSheetLine is one account within a balance sheet section, showing the
// absolute balance on the side implied by the account's normal balance.
type BalanceSheetLine struct {
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Level   int             `json:"level"`
	Balance decimal.Decimal `json:"balance"`
}

// BalanceSheetReport partitions the chart into the three balance sheet sections.
// TotalAssets == TotalLiabilities + TotalEquity whenever every posting balanced.
type BalanceSheetReport struct {
	AsOf             time.Time          `json:"as_of"`
	Assets           []BalanceSheetLine `json:"assets"`
	Liabilities      []BalanceSheetLine `json:"liabilities"`
	Equity           []BalanceSheetLine `json:"equity"`
	TotalAssets      decimal.Decimal    `json:"total_assets"`
	TotalLiabilities decimal.Decimal    `json:"total_liabilities"`
	TotalEquity      decimal.Decimal    `json:"total_equity"`
}

// IncomeStatementReport partitions into income vs expense (+cost) activity for
// a period.
type IncomeStatementReport struct {
	From          time.Time          `json:"from"`
	To            time.Time          `json:"to"`
	Income        []BalanceSheetLine `json:"income"`
	Expenses      []BalanceSheetLine `json:"expenses"`
	TotalIncome   decimal.Decimal    `json:"total_income"`
	TotalExpenses decimal.Decimal    `json:"total_expenses"`
	NetIncome     decimal.Decimal    `json:"net_income"`
}

// CashFlowCategory enum constants
const (
	CashFlowOperating = "OPERATING"
	CashFlowInvesting = "INVESTING"
	CashFlowFinancing = "FINANCING"
)

// CashFlowMapping assigns an account to a cash flow category. The statement
// builder does not own the categorization rule; it only honors this injected
// configuration.
type CashFlowMapping struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"account_id"`
	Account   *Account  `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Category  string    `gorm:"type:varchar(20);not null" json:"category"` // OPERATING, INVESTING, FINANCING
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *CashFlowMapping) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// CashFlowReport exposes the three category totals and their sum for a period.
type CashFlowReport struct {
	From        time.Time       `json:"from"`
	To          time.Time       `json:"to"`
	Operating   decimal.Decimal `json:"operating"`
	Investing   decimal.Decimal `json:"investing"`
	Financing   decimal.Decimal `json:"financing"`
	NetCashFlow decimal.Decimal `json:"net_cash_flow"`
}
