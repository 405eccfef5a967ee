package services

import (
	"context"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	"github.com/SscSPs/fin_consistency_engine/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account scoped to a company.
	GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts for a given company.
	ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account whose balance starts at its initial balance.
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)
}

// AccountCalculatorSvc exposes the replay escape hatch to callers scoped by company.
type AccountCalculatorSvc interface {
	// RecomputeBalance resets the stored balance to the replayed value.
	RecomputeBalance(ctx context.Context, companyID string, accountID string, userID string) (*domain.Account, error)

	// GetBalanceDrift compares the stored balance with the replayed value without writing.
	GetBalanceDrift(ctx context.Context, companyID string, accountID string) (*domain.BalanceDrift, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountCalculatorSvc
}
