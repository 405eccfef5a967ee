package services

import (
	portsrepo "github.com/SscSPs/fin_consistency_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fin_consistency_engine/internal/core/ports/services"
	"github.com/SscSPs/fin_consistency_engine/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, options ...ServiceOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The reconciler is shared: every path that writes a transaction goes through the same instance.
	container.Reconciler = NewBalanceReconciler(repos.AccountRepo, repos.TransactionRepo, options...)

	container.Account = NewAccountService(repos.AccountRepo, container.Reconciler, options...)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.AccountRepo, container.Reconciler, options...)
	container.Recurring = NewRecurringService(repos.ScheduleRepo, repos.AccountRepo, options...)
	container.Budget = NewBudgetService(repos.BudgetRepo, options...)
	container.SaleMirror = NewSaleMirrorService(repos.TransactionRepo, repos.AccountRepo, container.Reconciler, cfg.SalesDefaultCategory, options...)

	return container
}
