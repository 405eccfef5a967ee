package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType classifies where the money of an account is held.
type AccountType string

const (
	Bank       AccountType = "bank"
	Cash       AccountType = "cash"
	Credit     AccountType = "credit"
	Investment AccountType = "investment"
	Other      AccountType = "other"
)

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Bank, Cash, Credit, Investment, Other:
		return true
	}
	return false
}

// Account represents a ledger account owned by a company.
// Balance is mutated only by the balance reconciler.
type Account struct {
	AccountID      string          `json:"accountID"`
	CompanyID      string          `json:"companyID"`
	Name           string          `json:"name"`
	AccountType    AccountType     `json:"accountType"`
	CurrencyCode   string          `json:"currencyCode"`
	InitialBalance decimal.Decimal `json:"initialBalance"` // Balance before any completed transaction
	Balance        decimal.Decimal `json:"balance"`
	IsActive       bool            `json:"isActive"`
	AuditFields
}

// BalanceDrift compares a stored balance with the balance obtained by replay.
type BalanceDrift struct {
	AccountID       string          `json:"accountID"`
	StoredBalance   decimal.Decimal `json:"storedBalance"`
	ReplayedBalance decimal.Decimal `json:"replayedBalance"`
	Drift           decimal.Decimal `json:"drift"` // Stored minus replayed
}

// HasDrift reports whether stored and replayed balances disagree.
func (d BalanceDrift) HasDrift() bool {
	return !d.Drift.IsZero()
}
