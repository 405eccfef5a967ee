package services

import (
	"context"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	"github.com/SscSPs/fin_consistency_engine/internal/dto"
)

// TransactionReaderSvc defines read operations for ledger transactions
type TransactionReaderSvc interface {
	GetTransactionByID(ctx context.Context, companyID string, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns a page of transactions and the token for the next page.
	ListTransactions(ctx context.Context, companyID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error)
}

// TransactionWriterSvc defines write operations for ledger transactions.
// Every write drives the balance reconciler; reconciliation failures are logged, not returned.
type TransactionWriterSvc interface {
	CreateTransaction(ctx context.Context, companyID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, companyID string, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, companyID string, transactionID string, userID string) error
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
