package service

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Validation errors are recoverable by the caller: handlers map them to 4xx
// responses carrying enough detail for an actionable message. Invariant
// violations (InternalInvariantError) mean the engine itself is wrong; they
// surface as 500 and are never silently corrected.

// DuplicateCodeError reports an attempt to create an account with a code that
// already exists.
type DuplicateCodeError struct {
	Code string
}

func (e *DuplicateCodeError) Error() string {
	return fmt.Sprintf("account code '%s' already exists", e.Code)
}

// InvalidHierarchyError reports an account code whose implied parent does not
// exist or cannot hold children.
type InvalidHierarchyError struct {
	Code       string
	ParentCode string
	Reason     string
}

func (e *InvalidHierarchyError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "does not exist"
	}
	return fmt.Sprintf("account code '%s' requires parent '%s', which %s", e.Code, e.ParentCode, reason)
}

// ValidationError reports a malformed request value outside the dedicated
// taxonomy above (parse failures, bad identifiers, rejected amounts). Handlers
// map it to 400 like the typed errors.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// UnknownAccountError reports a reference to an account that does not exist.
type UnknownAccountError struct {
	AccountID string
}

func (e *UnknownAccountError) Error() string {
	return fmt.Sprintf("account '%s' does not exist", e.AccountID)
}

// InvalidAccountError reports a journal line aimed at an account that cannot
// receive it (missing, unknown or inactive).
type InvalidAccountError struct {
	LineIndex int
	AccountID string
	Reason    string
}

func (e *InvalidAccountError) Error() string {
	return fmt.Sprintf("line %d: account '%s' %s", e.LineIndex+1, e.AccountID, e.Reason)
}

// PostingToGroupAccountError reports a journal line aimed at a group/header
// account instead of a posting-allowed leaf.
type PostingToGroupAccountError struct {
	LineIndex   int
	AccountCode string
}

func (e *PostingToGroupAccountError) Error() string {
	return fmt.Sprintf("line %d: account '%s' is a group account and does not allow posting", e.LineIndex+1, e.AccountCode)
}

// UnbalancedLineError reports a journal line carrying both a debit and a credit.
type UnbalancedLineError struct {
	LineIndex int
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

func (e *UnbalancedLineError) Error() string {
	return fmt.Sprintf("line %d: a line must have exactly one of debit (%s) or credit (%s)",
		e.LineIndex+1, e.Debit.StringFixed(2), e.Credit.StringFixed(2))
}

// UnbalancedEntryError reports an entry whose debit and credit totals differ
// by more than the accepted tolerance.
type UnbalancedEntryError struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("entry is not balanced: total debit %s != total credit %s",
		e.TotalDebit.StringFixed(2), e.TotalCredit.StringFixed(2))
}

// UnknownEntryError reports a reference to a journal entry that does not exist.
type UnknownEntryError struct {
	EntryID string
}

func (e *UnknownEntryError) Error() string {
	return fmt.Sprintf("journal entry '%s' does not exist", e.EntryID)
}

// DuplicateEntryNumberError reports a caller-supplied entry number that is
// already taken.
type DuplicateEntryNumberError struct {
	EntryNumber string
}

func (e *DuplicateEntryNumberError) Error() string {
	return fmt.Sprintf("entry number '%s' already exists", e.EntryNumber)
}

// InvalidDateRangeError reports a report range where the end precedes the start.
type InvalidDateRangeError struct {
	From string
	To   string
}

func (e *InvalidDateRangeError) Error() string {
	return fmt.Sprintf("invalid date range: 'to' (%s) must not precede 'from' (%s)", e.To, e.From)
}

// InvalidPeriodError reports a tax period that is not a well-formed year-month.
type InvalidPeriodError struct {
	Period string
}

func (e *InvalidPeriodError) Error() string {
	return fmt.Sprintf("invalid period '%s': expected YYYY-MM", e.Period)
}

// InternalInvariantError signals a bug in the engine (e.g. an ancestor balance
// diverging from the sum of its descendants). Programming-fault class, not a
// validation failure.
type InternalInvariantError struct {
	Detail string
}

func (e *InternalInvariantError) Error() string {
	return "ledger invariant violated: " + e.Detail
}
