package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of active accounts for a given company.
	ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error)

	// FindDefaultAccount returns the account used when a caller does not name one:
	// the oldest active bank account, then cash, then any active account.
	FindDefaultAccount(ctx context.Context, companyID string) (*domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountBalanceWriter defines the only operations allowed to touch a stored balance.
type AccountBalanceWriter interface {
	// AdjustBalance atomically adds delta to the stored balance of a single account.
	AdjustBalance(ctx context.Context, accountID string, delta decimal.Decimal, userID string, now time.Time) error

	// SetBalance overwrites the stored balance. Used only by the replay path.
	SetBalance(ctx context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountBalanceWriter
}
