package services

import (
	"context"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	"github.com/SscSPs/fin_consistency_engine/internal/dto"
)

// BudgetReaderSvc defines read operations for budgets
type BudgetReaderSvc interface {
	// GetBudgetByID returns the budget header with its items.
	GetBudgetByID(ctx context.Context, companyID string, budgetID string) (*domain.Budget, error)
	ListBudgets(ctx context.Context, companyID string, limit int, offset int) ([]domain.Budget, error)
}

// BudgetWriterSvc defines write operations for budget headers
type BudgetWriterSvc interface {
	// CreateBudget rejects item sets whose amounts differ from the supplied total by more than the tolerance.
	CreateBudget(ctx context.Context, companyID string, req dto.CreateBudgetRequest, userID string) (*domain.Budget, error)
	UpdateBudget(ctx context.Context, companyID string, budgetID string, req dto.UpdateBudgetRequest, userID string) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, companyID string, budgetID string, userID string) error
}

// BudgetAggregatorSvc keeps budget totals equal to the sums over the current items.
type BudgetAggregatorSvc interface {
	UpsertItem(ctx context.Context, companyID string, budgetID string, req dto.BudgetItemRequest, userID string) (*domain.Budget, error)
	RemoveItem(ctx context.Context, companyID string, budgetID string, itemID string, userID string) (*domain.Budget, error)
	ResyncTotals(ctx context.Context, budgetID string, userID string) (*domain.Budget, error)
}

// BudgetSvcFacade combines all budget-related service interfaces
type BudgetSvcFacade interface {
	BudgetReaderSvc
	BudgetWriterSvc
	BudgetAggregatorSvc
}
