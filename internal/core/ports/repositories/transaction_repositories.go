package repositories

import (
	"context"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
)

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionBySaleID retrieves the transaction mirrored from a sale, scoped to a company.
	FindTransactionBySaleID(ctx context.Context, companyID string, saleID string) (*domain.Transaction, error)

	// ListTransactions retrieves a page of transactions for a company, newest first.
	// It returns the transactions, a token for the next page, and an error.
	ListTransactions(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// ListCompletedByAccount retrieves every completed transaction referencing an account.
	ListCompletedByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// SaveTransaction persists a new transaction.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransaction replaces the mutable fields of an existing transaction.
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error

	// DeleteTransaction removes a transaction.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
