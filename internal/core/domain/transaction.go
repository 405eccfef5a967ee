package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates the direction of money for a ledger transaction.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// IsValid reports whether t is income or expense.
func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// TransactionStatus is the lifecycle state of a transaction. Only completed
// transactions affect account balances.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// IsValid reports whether s belongs to the closed status set.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Transaction is a single income or expense line against one account.
type Transaction struct {
	TransactionID   string            `json:"transactionID"`
	CompanyID       string            `json:"companyID"`
	Date            time.Time         `json:"date"`
	Description     string            `json:"description"`
	Amount          decimal.Decimal   `json:"amount"` // Always positive; sign comes from TransactionType
	TransactionType TransactionType   `json:"transactionType"`
	Status          TransactionStatus `json:"status"`
	AccountID       string            `json:"accountID"`
	CategoryID      string            `json:"categoryID"`
	Recurring       bool              `json:"recurring"`
	Notes           string            `json:"notes"`
	SaleID          *string           `json:"saleID,omitempty"` // Set when mirrored from a sale
	AuditFields
}

// Validate checks the invariants of a transaction independent of storage.
func (t *Transaction) Validate() error {
	if !t.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", t.Amount.String())
	}
	if err := CheckMoney("amount", t.Amount); err != nil {
		return err
	}
	if !t.TransactionType.IsValid() {
		return fmt.Errorf("unknown transaction type '%s'", t.TransactionType)
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("unknown transaction status '%s'", t.Status)
	}
	if t.AccountID == "" {
		return fmt.Errorf("account is required")
	}
	if t.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	return nil
}

// IsCompleted reports whether the transaction currently affects its account balance.
func (t *Transaction) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// BalanceEffect describes what the reconciler must do for a transaction write.
// Reverse always refers to the previous persisted state, Apply to the new one.
type BalanceEffect struct {
	Reverse bool
	Apply   bool
}

// IsNoop reports whether the write leaves every balance untouched.
func (e BalanceEffect) IsNoop() bool {
	return !e.Reverse && !e.Apply
}

type statusTransition struct {
	from TransactionStatus
	to   TransactionStatus
}

// transitionEffects is the closed transition table for transaction statuses.
// completed->completed is resolved by PlanBalanceEffect depending on whether the
// economic fields changed.
var transitionEffects = map[statusTransition]BalanceEffect{
	{StatusPending, StatusPending}:     {},
	{StatusPending, StatusCompleted}:   {Apply: true},
	{StatusPending, StatusFailed}:      {},
	{StatusCompleted, StatusPending}:   {Reverse: true},
	{StatusCompleted, StatusCompleted}: {Reverse: true, Apply: true},
	{StatusCompleted, StatusFailed}:    {Reverse: true},
	{StatusFailed, StatusPending}:      {},
	{StatusFailed, StatusCompleted}:    {Apply: true},
	{StatusFailed, StatusFailed}:       {},
}

// PlanBalanceEffect returns the balance effect of moving from prev to next.
// A nil prev means the transaction is being created, a nil next means it is being deleted.
func PlanBalanceEffect(prev, next *Transaction) (BalanceEffect, error) {
	switch {
	case prev == nil && next == nil:
		return BalanceEffect{}, nil
	case prev == nil:
		if !next.Status.IsValid() {
			return BalanceEffect{}, fmt.Errorf("unknown transaction status '%s'", next.Status)
		}
		return BalanceEffect{Apply: next.IsCompleted()}, nil
	case next == nil:
		return BalanceEffect{Reverse: prev.IsCompleted()}, nil
	}

	effect, ok := transitionEffects[statusTransition{from: prev.Status, to: next.Status}]
	if !ok {
		return BalanceEffect{}, fmt.Errorf("transition from '%s' to '%s' is not allowed", prev.Status, next.Status)
	}
	if prev.IsCompleted() && next.IsCompleted() && !economicChange(prev, next) {
		return BalanceEffect{}, nil
	}
	return effect, nil
}

// economicChange reports whether any field that feeds the balance differs.
func economicChange(prev, next *Transaction) bool {
	return !prev.Amount.Equal(next.Amount) ||
		prev.TransactionType != next.TransactionType ||
		prev.AccountID != next.AccountID
}
