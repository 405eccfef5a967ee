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

const accountColumns = `account_id, company_id, name, account_type, currency_code, initial_balance, balance, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool, retry RetryConfig) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: newBaseRepository(pool, retry)}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row rowScanner) (domain.Account, error) {
	var a domain.Account
	var accountType string
	err := row.Scan(
		&a.AccountID,
		&a.CompanyID,
		&a.Name,
		&accountType,
		&a.CurrencyCode,
		&a.InitialBalance,
		&a.Balance,
		&a.IsActive,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	a.AccountType = domain.AccountType(accountType)
	return a, err
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`

	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.CompanyID,
		account.Name,
		string(account.AccountType),
		account.CurrencyCode,
		account.InitialBalance,
		account.Balance,
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("account %s", account.AccountID))
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	var account domain.Account
	err := r.withReadRetry(ctx, func(ctx context.Context) error {
		var scanErr error
		account, scanErr = scanAccount(r.Pool.QueryRow(ctx, query, accountID))
		if scanErr != nil {
			return notFoundOr(scanErr, fmt.Sprintf("account %s", accountID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ListAccounts retrieves a paginated list of active accounts for a company, oldest first.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE is_active = TRUE AND company_id = $1
		ORDER BY created_at, account_id
		LIMIT $2 OFFSET $3;`

	var accounts []domain.Account
	err := r.withReadRetry(ctx, func(ctx context.Context) error {
		rows, err := r.Pool.Query(ctx, query, companyID, limit, offset)
		if err != nil {
			return fmt.Errorf("failed to query accounts for company %s: %w", companyID, err)
		}
		defer rows.Close()

		accounts = []domain.Account{}
		for rows.Next() {
			account, err := scanAccount(rows)
			if err != nil {
				return fmt.Errorf("failed to scan account row for company %s: %w", companyID, err)
			}
			accounts = append(accounts, account)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// FindDefaultAccount prefers the oldest active bank account, then cash, then any active account.
func (r *PgxAccountRepository) FindDefaultAccount(ctx context.Context, companyID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE is_active = TRUE AND company_id = $1
		ORDER BY CASE account_type WHEN 'bank' THEN 0 WHEN 'cash' THEN 1 ELSE 2 END, created_at, account_id
		LIMIT 1;`

	var account domain.Account
	err := r.withReadRetry(ctx, func(ctx context.Context) error {
		var scanErr error
		account, scanErr = scanAccount(r.Pool.QueryRow(ctx, query, companyID))
		if scanErr != nil {
			return notFoundOr(scanErr, fmt.Sprintf("default account for company %s", companyID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// AdjustBalance adds delta in a single statement so concurrent adjustments never lose an update.
func (r *PgxAccountRepository) AdjustBalance(ctx context.Context, accountID string, delta decimal.Decimal, userID string, now time.Time) error {
	query := `UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;`

	tag, err := r.Pool.Exec(ctx, query, accountID, delta, now, userID)
	if err != nil {
		return fmt.Errorf("failed to adjust balance of account %s: %w", accountID, err)
	}
	return expectOneRow(tag, fmt.Sprintf("account %s", accountID))
}

// SetBalance overwrites the stored balance.
func (r *PgxAccountRepository) SetBalance(ctx context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	query := `UPDATE accounts
		SET balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;`

	tag, err := r.Pool.Exec(ctx, query, accountID, balance, now, userID)
	if err != nil {
		return fmt.Errorf("failed to set balance of account %s: %w", accountID, err)
	}
	return expectOneRow(tag, fmt.Sprintf("account %s", accountID))
}
