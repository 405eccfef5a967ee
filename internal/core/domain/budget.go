package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetType is the period a budget covers.
type BudgetType string

const (
	BudgetAnnual    BudgetType = "annual"
	BudgetMonthly   BudgetType = "monthly"
	BudgetQuarterly BudgetType = "quarterly"
	BudgetProject   BudgetType = "project"
)

// BudgetStatus is the lifecycle state of a budget.
type BudgetStatus string

const (
	BudgetActive   BudgetStatus = "active"
	BudgetDraft    BudgetStatus = "draft"
	BudgetArchived BudgetStatus = "archived"
)

// IsValid reports whether t is a known budget type.
func (t BudgetType) IsValid() bool {
	switch t {
	case BudgetAnnual, BudgetMonthly, BudgetQuarterly, BudgetProject:
		return true
	}
	return false
}

// IsValid reports whether s is a known budget status.
func (s BudgetStatus) IsValid() bool {
	switch s {
	case BudgetActive, BudgetDraft, BudgetArchived:
		return true
	}
	return false
}

// BudgetTotalsTolerance is the largest accepted difference between the supplied
// total and the sum of item amounts when a budget is created.
var BudgetTotalsTolerance = decimal.NewFromFloat(0.01)

// Budget groups planned and actual spend. TotalBudget and TotalSpent always track
// the current item set.
type Budget struct {
	BudgetID    string          `json:"budgetID"`
	CompanyID   string          `json:"companyID"`
	Name        string          `json:"name"`
	BudgetType  BudgetType      `json:"budgetType"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     time.Time       `json:"endDate"`
	Status      BudgetStatus    `json:"status"`
	TotalBudget decimal.Decimal `json:"totalBudget"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
	Items       []BudgetItem    `json:"items"`
	AuditFields
}

// BudgetItem is a line of planned versus actual spend.
type BudgetItem struct {
	ItemID     string          `json:"itemID"`
	BudgetID   string          `json:"budgetID"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Spent      decimal.Decimal `json:"spent"`
	CategoryID *string         `json:"categoryID,omitempty"`
	Notes      string          `json:"notes"`
	AuditFields
}

// SumItems returns the planned and spent totals of items.
func SumItems(items []BudgetItem) (total, spent decimal.Decimal) {
	total, spent = decimal.Zero, decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
		spent = spent.Add(item.Spent)
	}
	return total, spent
}

// WithinTolerance reports whether the item amounts match the supplied total.
func WithinTolerance(items []BudgetItem, suppliedTotal decimal.Decimal) bool {
	total, _ := SumItems(items)
	return total.Sub(suppliedTotal).Abs().LessThanOrEqual(BudgetTotalsTolerance)
}
