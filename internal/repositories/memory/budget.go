package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/fin_consistency_engine/internal/apperrors"
	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (s *Store) SaveBudget(ctx context.Context, budget domain.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.budgets[budget.BudgetID]; exists {
		return fmt.Errorf("budget %s: %w", budget.BudgetID, apperrors.ErrDuplicate)
	}
	budget.Items = nil
	s.budgets[budget.BudgetID] = budget
	s.items[budget.BudgetID] = make(map[string]domain.BudgetItem)
	return nil
}

// UpdateBudget keeps the stored totals; only UpdateBudgetTotals writes them.
func (s *Store) UpdateBudget(ctx context.Context, budget domain.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, exists := s.budgets[budget.BudgetID]
	if !exists {
		return fmt.Errorf("budget %s: %w", budget.BudgetID, apperrors.ErrNotFound)
	}
	budget.Items = nil
	budget.TotalBudget = current.TotalBudget
	budget.TotalSpent = current.TotalSpent
	s.budgets[budget.BudgetID] = budget
	return nil
}

func (s *Store) UpdateBudgetTotals(ctx context.Context, budgetID string, totalBudget, totalSpent decimal.Decimal, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	budget, exists := s.budgets[budgetID]
	if !exists {
		return fmt.Errorf("budget %s: %w", budgetID, apperrors.ErrNotFound)
	}
	budget.TotalBudget = totalBudget
	budget.TotalSpent = totalSpent
	budget.Touch(userID, now)
	s.budgets[budgetID] = budget
	return nil
}

func (s *Store) DeleteBudget(ctx context.Context, budgetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.budgets[budgetID]; !exists {
		return fmt.Errorf("budget %s: %w", budgetID, apperrors.ErrNotFound)
	}
	delete(s.budgets, budgetID)
	delete(s.items, budgetID)
	return nil
}

func (s *Store) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	budget, ok := s.budgets[budgetID]
	if !ok {
		return nil, fmt.Errorf("budget %s: %w", budgetID, apperrors.ErrNotFound)
	}
	return &budget, nil
}

func (s *Store) ListBudgets(ctx context.Context, companyID string, limit int, offset int) ([]domain.Budget, error) {
	s.mu.RLock()
	rows := make([]domain.Budget, 0)
	for _, budget := range s.budgets {
		if budget.CompanyID == companyID {
			rows = append(rows, budget)
		}
	}
	s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].StartDate.Equal(rows[j].StartDate) {
			return rows[i].StartDate.After(rows[j].StartDate)
		}
		return rows[i].BudgetID < rows[j].BudgetID
	})
	return page(rows, limit, offset), nil
}

// ListItems returns items oldest first.
func (s *Store) ListItems(ctx context.Context, budgetID string) ([]domain.BudgetItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.BudgetItem, 0, len(s.items[budgetID]))
	for _, item := range s.items[budgetID] {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ItemID < items[j].ItemID
	})
	return items, nil
}

func (s *Store) SaveItem(ctx context.Context, item domain.BudgetItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok := s.items[item.BudgetID]
	if !ok {
		return fmt.Errorf("budget %s: %w", item.BudgetID, apperrors.ErrNotFound)
	}
	if _, exists := items[item.ItemID]; exists {
		return fmt.Errorf("budget item %s: %w", item.ItemID, apperrors.ErrDuplicate)
	}
	items[item.ItemID] = item
	return nil
}

func (s *Store) UpdateItem(ctx context.Context, item domain.BudgetItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok := s.items[item.BudgetID]
	if !ok {
		return fmt.Errorf("budget %s: %w", item.BudgetID, apperrors.ErrNotFound)
	}
	if _, exists := items[item.ItemID]; !exists {
		return fmt.Errorf("budget item %s: %w", item.ItemID, apperrors.ErrNotFound)
	}
	items[item.ItemID] = item
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, budgetID string, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok := s.items[budgetID]
	if !ok {
		return fmt.Errorf("budget %s: %w", budgetID, apperrors.ErrNotFound)
	}
	if _, exists := items[itemID]; !exists {
		return fmt.Errorf("budget item %s: %w", itemID, apperrors.ErrNotFound)
	}
	delete(items, itemID)
	return nil
}
