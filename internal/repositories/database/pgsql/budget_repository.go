package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/fin_consistency_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const budgetColumns = `budget_id, company_id, name, budget_type, start_date, end_date, status, total_budget, total_spent,
	created_at, created_by, last_updated_at, last_updated_by`

const budgetItemColumns = `item_id, budget_id, name, amount, spent, category_id, notes,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxBudgetRepository struct {
	BaseRepository
}

func newPgxBudgetRepository(pool *pgxpool.Pool, retry RetryConfig) *PgxBudgetRepository {
	return &PgxBudgetRepository{BaseRepository: newBaseRepository(pool, retry)}
}

var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

func scanBudget(row rowScanner) (domain.Budget, error) {
	var b domain.Budget
	var budgetType, status string
	err := row.Scan(
		&b.BudgetID,
		&b.CompanyID,
		&b.Name,
		&budgetType,
		&b.StartDate,
		&b.EndDate,
		&status,
		&b.TotalBudget,
		&b.TotalSpent,
		&b.CreatedAt,
		&b.CreatedBy,
		&b.LastUpdatedAt,
		&b.LastUpdatedBy,
	)
	b.BudgetType = domain.BudgetType(budgetType)
	b.Status = domain.BudgetStatus(status)
	return b, err
}

func scanBudgetItem(row rowScanner) (domain.BudgetItem, error) {
	var i domain.BudgetItem
	err := row.Scan(
		&i.ItemID,
		&i.BudgetID,
		&i.Name,
		&i.Amount,
		&i.Spent,
		&i.CategoryID,
		&i.Notes,
		&i.CreatedAt,
		&i.CreatedBy,
		&i.LastUpdatedAt,
		&i.LastUpdatedBy,
	)
	return i, err
}

func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, b domain.Budget) error {
	query := `INSERT INTO budgets (` + budgetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`

	_, err := r.Pool.Exec(ctx, query,
		b.BudgetID,
		b.CompanyID,
		b.Name,
		string(b.BudgetType),
		b.StartDate,
		b.EndDate,
		string(b.Status),
		b.TotalBudget,
		b.TotalSpent,
		b.CreatedAt,
		b.CreatedBy,
		b.LastUpdatedAt,
		b.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("budget %s", b.BudgetID))
	}
	return nil
}

// UpdateBudget leaves total_budget and total_spent alone.
func (r *PgxBudgetRepository) UpdateBudget(ctx context.Context, b domain.Budget) error {
	query := `UPDATE budgets
		SET name = $2, budget_type = $3, start_date = $4, end_date = $5, status = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE budget_id = $1;`

	tag, err := r.Pool.Exec(ctx, query,
		b.BudgetID,
		b.Name,
		string(b.BudgetType),
		b.StartDate,
		b.EndDate,
		string(b.Status),
		b.LastUpdatedAt,
		b.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("budget %s", b.BudgetID))
	}
	return expectOneRow(tag, fmt.Sprintf("budget %s", b.BudgetID))
}

func (r *PgxBudgetRepository) UpdateBudgetTotals(ctx context.Context, budgetID string, totalBudget, totalSpent decimal.Decimal, userID string, now time.Time) error {
	query := `UPDATE budgets
		SET total_budget = $2, total_spent = $3, last_updated_at = $4, last_updated_by = $5
		WHERE budget_id = $1;`

	tag, err := r.Pool.Exec(ctx, query, budgetID, totalBudget, totalSpent, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update totals of budget %s: %w", budgetID, err)
	}
	return expectOneRow(tag, fmt.Sprintf("budget %s", budgetID))
}

// DeleteBudget relies on ON DELETE CASCADE for the items.
func (r *PgxBudgetRepository) DeleteBudget(ctx context.Context, budgetID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM budgets WHERE budget_id = $1;`, budgetID)
	if err != nil {
		return fmt.Errorf("failed to delete budget %s: %w", budgetID, err)
	}
	return expectOneRow(tag, fmt.Sprintf("budget %s", budgetID))
}

func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE budget_id = $1;`

	var budget domain.Budget
	err := r.withReadRetry(ctx, func(ctx context.Context) error {
		var scanErr error
		budget, scanErr = scanBudget(r.Pool.QueryRow(ctx, query, budgetID))
		if scanErr != nil {
			return notFoundOr(scanErr, fmt.Sprintf("budget %s", budgetID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *PgxBudgetRepository) ListBudgets(ctx context.Context, companyID string, limit int, offset int) ([]domain.Budget, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + budgetColumns + ` FROM budgets
		WHERE company_id = $1
		ORDER BY start_date DESC, budget_id
		LIMIT $2 OFFSET $3;`

	var budgets []domain.Budget
	err := r.withReadRetry(ctx, func(ctx context.Context) error {
		rows, err := r.Pool.Query(ctx, query, companyID, limit, offset)
		if err != nil {
			return fmt.Errorf("failed to query budgets for company %s: %w", companyID, err)
		}
		defer rows.Close()

		budgets = []domain.Budget{}
		for rows.Next() {
			b, err := scanBudget(rows)
			if err != nil {
				return fmt.Errorf("failed to scan budget row: %w", err)
			}
			budgets = append(budgets, b)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return budgets, nil
}

func (r *PgxBudgetRepository) ListItems(ctx context.Context, budgetID string) ([]domain.BudgetItem, error) {
	query := `SELECT ` + budgetItemColumns + ` FROM budget_items
		WHERE budget_id = $1
		ORDER BY created_at, item_id;`

	var items []domain.BudgetItem
	err := r.withReadRetry(ctx, func(ctx context.Context) error {
		rows, err := r.Pool.Query(ctx, query, budgetID)
		if err != nil {
			return fmt.Errorf("failed to query items of budget %s: %w", budgetID, err)
		}
		defer rows.Close()

		items = []domain.BudgetItem{}
		for rows.Next() {
			item, err := scanBudgetItem(rows)
			if err != nil {
				return fmt.Errorf("failed to scan budget item row: %w", err)
			}
			items = append(items, item)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PgxBudgetRepository) SaveItem(ctx context.Context, item domain.BudgetItem) error {
	query := `INSERT INTO budget_items (` + budgetItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`

	_, err := r.Pool.Exec(ctx, query,
		item.ItemID,
		item.BudgetID,
		item.Name,
		item.Amount,
		item.Spent,
		item.CategoryID,
		item.Notes,
		item.CreatedAt,
		item.CreatedBy,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("budget item %s", item.ItemID))
	}
	return nil
}

// UpdateItem writes category_id as given, so a nil CategoryID clears the link.
func (r *PgxBudgetRepository) UpdateItem(ctx context.Context, item domain.BudgetItem) error {
	query := `UPDATE budget_items
		SET name = $3, amount = $4, spent = $5, category_id = $6, notes = $7,
			last_updated_at = $8, last_updated_by = $9
		WHERE item_id = $1 AND budget_id = $2;`

	tag, err := r.Pool.Exec(ctx, query,
		item.ItemID,
		item.BudgetID,
		item.Name,
		item.Amount,
		item.Spent,
		item.CategoryID,
		item.Notes,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("budget item %s", item.ItemID))
	}
	return expectOneRow(tag, fmt.Sprintf("budget item %s", item.ItemID))
}

func (r *PgxBudgetRepository) DeleteItem(ctx context.Context, budgetID string, itemID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM budget_items WHERE item_id = $1 AND budget_id = $2;`, itemID, budgetID)
	if err != nil {
		return fmt.Errorf("failed to delete budget item %s: %w", itemID, err)
	}
	return expectOneRow(tag, fmt.Sprintf("budget item %s", itemID))
}
