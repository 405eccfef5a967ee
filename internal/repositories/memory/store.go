// Package memory implements every repository port in process.
// It backs STORAGE_BACKEND=memory and the service tests. Each method takes the
// store lock for its whole duration, which gives the same single-row atomicity
// the postgres adapters rely on.
package memory

import (
	"sync"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/fin_consistency_engine/internal/core/ports/repositories"
)

// Store holds all entities keyed by id.
type Store struct {
	mu           sync.RWMutex
	accounts     map[string]domain.Account
	transactions map[string]domain.Transaction
	schedules    map[string]domain.RecurringSchedule
	budgets      map[string]domain.Budget
	items        map[string]map[string]domain.BudgetItem // budget id -> item id -> item
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]domain.Account),
		transactions: make(map[string]domain.Transaction),
		schedules:    make(map[string]domain.RecurringSchedule),
		budgets:      make(map[string]domain.Budget),
		items:        make(map[string]map[string]domain.BudgetItem),
	}
}

// NewRepositoryProvider exposes one store through every repository port.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     store,
		TransactionRepo: store,
		ScheduleRepo:    store,
		BudgetRepo:      store,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade           = (*Store)(nil)
	_ portsrepo.TransactionRepositoryFacade       = (*Store)(nil)
	_ portsrepo.RecurringScheduleRepositoryFacade = (*Store)(nil)
	_ portsrepo.BudgetRepositoryFacade            = (*Store)(nil)
)

func page[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := len(rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return rows[offset:end]
}
