package pgsql

import (
	portsrepo "github.com/SscSPs/fin_consistency_engine/internal/core/ports/repositories"
	"github.com/SscSPs/fin_consistency_engine/internal/platform/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool, cfg *config.Config) portsrepo.RepositoryProvider {
	retry := RetryConfig{
		MaxAttempts:     cfg.ReadRetryMaxAttempts,
		InitialInterval: cfg.ReadRetryInitialInterval,
	}

	return portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(dbPool, retry),
		TransactionRepo: newPgxTransactionRepository(dbPool, retry),
		ScheduleRepo:    newPgxRecurringScheduleRepository(dbPool, retry),
		BudgetRepo:      newPgxBudgetRepository(dbPool, retry),
	}
}
