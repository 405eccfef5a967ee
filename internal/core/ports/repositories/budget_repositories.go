package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BudgetReader defines read operations for budgets and their items
type BudgetReader interface {
	// FindBudgetByID retrieves a budget header without items.
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)

	// ListBudgets retrieves a paginated list of budget headers for a company.
	ListBudgets(ctx context.Context, companyID string, limit int, offset int) ([]domain.Budget, error)

	// ListItems retrieves every item of a budget.
	ListItems(ctx context.Context, budgetID string) ([]domain.BudgetItem, error)
}

// BudgetWriter defines write operations for budget headers
type BudgetWriter interface {
	// SaveBudget persists a new budget header.
	SaveBudget(ctx context.Context, budget domain.Budget) error

	// UpdateBudget replaces the descriptive fields of a budget header. Totals are not touched.
	UpdateBudget(ctx context.Context, budget domain.Budget) error

	// UpdateBudgetTotals overwrites the stored totals of a budget.
	UpdateBudgetTotals(ctx context.Context, budgetID string, totalBudget, totalSpent decimal.Decimal, userID string, now time.Time) error

	// DeleteBudget removes a budget together with its items.
	DeleteBudget(ctx context.Context, budgetID string) error
}

// BudgetItemWriter defines write operations for budget items
type BudgetItemWriter interface {
	// SaveItem persists a new item.
	SaveItem(ctx context.Context, item domain.BudgetItem) error

	// UpdateItem replaces the fields of an existing item, including its category link.
	UpdateItem(ctx context.Context, item domain.BudgetItem) error

	// DeleteItem removes an item from its budget.
	DeleteItem(ctx context.Context, budgetID string, itemID string) error
}

// BudgetRepositoryFacade combines all budget-related repository interfaces
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
	BudgetItemWriter
}
