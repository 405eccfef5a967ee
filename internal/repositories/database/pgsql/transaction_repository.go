package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/fin_consistency_engine/internal/apperrors"
	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/fin_consistency_engine/internal/core/ports/repositories"
	"github.com/SscSPs/fin_consistency_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `transaction_id, company_id, txn_date, description, amount, transaction_type, status,
	account_id, category_id, recurring, notes, sale_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool, retry RetryConfig) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: newBaseRepository(pool, retry)}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var t domain.Transaction
	var txnType, status string
	err := row.Scan(
		&t.TransactionID,
		&t.CompanyID,
		&t.Date,
		&t.Description,
		&t.Amount,
		&txnType,
		&status,
		&t.AccountID,
		&t.CategoryID,
		&t.Recurring,
		&t.Notes,
		&t.SaleID,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	t.TransactionType = domain.TransactionType(txnType)
	t.Status = domain.TransactionStatus(status)
	return t, err
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()
	txns := []domain.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txns, nil
}

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`

	_, err := r.Pool.Exec(ctx, query,
		txn.TransactionID,
		txn.CompanyID,
		txn.Date,
		txn.Description,
		txn.Amount,
		string(txn.TransactionType),
		string(txn.Status),
		txn.AccountID,
		txn.CategoryID,
		txn.Recurring,
		txn.Notes,
		txn.SaleID,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("transaction %s", txn.TransactionID))
	}
	return nil
}

// UpdateTransaction replaces the mutable fields. Company, sale link and creation audit stay as stored.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	query := `UPDATE transactions
		SET txn_date = $2, description = $3, amount = $4, transaction_type = $5, status = $6,
			account_id = $7, category_id = $8, recurring = $9, notes = $10,
			last_updated_at = $11, last_updated_by = $12
		WHERE transaction_id = $1;`

	tag, err := r.Pool.Exec(ctx, query,
		txn.TransactionID,
		txn.Date,
		txn.Description,
		txn.Amount,
		string(txn.TransactionType),
		string(txn.Status),
		txn.AccountID,
		txn.CategoryID,
		txn.Recurring,
		txn.Notes,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("transaction %s", txn.TransactionID))
	}
	return expectOneRow(tag, fmt.Sprintf("transaction %s", txn.TransactionID))
}

func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	return expectOneRow(tag, fmt.Sprintf("transaction %s", transactionID))
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	return r.findOne(ctx, fmt.Sprintf("transaction %s", transactionID), query, transactionID)
}

func (r *PgxTransactionRepository) FindTransactionBySaleID(ctx context.Context, companyID string, saleID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE company_id = $1 AND sale_id = $2;`
	return r.findOne(ctx, fmt.Sprintf("transaction for sale %s", saleID), query, companyID, saleID)
}

func (r *PgxTransactionRepository) findOne(ctx context.Context, what, query string, args ...any) (*domain.Transaction, error) {
	var txn domain.Transaction
	err := r.withReadRetry(ctx, func(ctx context.Context) error {
		var scanErr error
		txn, scanErr = scanTransaction(r.Pool.QueryRow(ctx, query, args...))
		if scanErr != nil {
			return notFoundOr(scanErr, what)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// ListTransactions uses keyset pagination over (txn_date, created_at, transaction_id), newest first.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE company_id = $1`
	args := []any{companyID}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
		}
		query += ` AND (txn_date, created_at, transaction_id) < ($2, $3, $4)`
		args = append(args, cursor.Date, cursor.CreatedAt, cursor.ID)
	}
	query += fmt.Sprintf(` ORDER BY txn_date DESC, created_at DESC, transaction_id DESC LIMIT $%d;`, len(args)+1)
	// One extra row tells us whether another page exists.
	args = append(args, limit+1)

	var txns []domain.Transaction
	err := r.withReadRetry(ctx, func(ctx context.Context) error {
		rows, err := r.Pool.Query(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to query transactions for company %s: %w", companyID, err)
		}
		txns, err = collectTransactions(rows)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	if len(txns) <= limit {
		return txns, nil, nil
	}
	txns = txns[:limit]
	last := txns[len(txns)-1]
	token := pagination.EncodeToken(pagination.Cursor{Date: last.Date, CreatedAt: last.CreatedAt, ID: last.TransactionID})
	return txns, &token, nil
}

func (r *PgxTransactionRepository) ListCompletedByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE account_id = $1 AND status = 'completed'
		ORDER BY txn_date, created_at, transaction_id;`

	var txns []domain.Transaction
	err := r.withReadRetry(ctx, func(ctx context.Context) error {
		rows, err := r.Pool.Query(ctx, query, accountID)
		if err != nil {
			return fmt.Errorf("failed to query completed transactions for account %s: %w", accountID, err)
		}
		txns, err = collectTransactions(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txns, nil
}
