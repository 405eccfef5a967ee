package services_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	portssvc "github.com/SscSPs/fin_consistency_engine/internal/core/ports/services"
	"github.com/SscSPs/fin_consistency_engine/internal/core/services"
	"github.com/SscSPs/fin_consistency_engine/internal/dto"
	"github.com/SscSPs/fin_consistency_engine/internal/platform/config"
	"github.com/SscSPs/fin_consistency_engine/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCompany = "co"
	testUser    = "user-1"
)

type engine struct {
	store *memory.Store
	svc   *portssvc.ServiceContainer
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	store := memory.NewStore()
	cfg := &config.Config{SalesDefaultCategory: "sales"}
	return &engine{
		store: store,
		svc:   services.NewServiceContainer(cfg, memory.NewRepositoryProvider(store), services.WithClock(fixedClock)),
	}
}

func (e *engine) account(t *testing.T, name string, typ domain.AccountType, initial int64) *domain.Account {
	t.Helper()
	acc, err := e.svc.Account.CreateAccount(context.Background(), testCompany, dto.CreateAccountRequest{
		Name: name, AccountType: typ, CurrencyCode: "usd", InitialBalance: decimal.NewFromInt(initial),
	}, testUser)
	require.NoError(t, err)
	return acc
}

func (e *engine) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	acc, err := e.store.FindAccountByID(context.Background(), accountID)
	require.NoError(t, err)
	return acc.Balance
}

func (e *engine) assertNoDrift(t *testing.T, accountID string) {
	t.Helper()
	drift, err := e.svc.Account.GetBalanceDrift(context.Background(), testCompany, accountID)
	require.NoError(t, err)
	assert.False(t, drift.HasDrift(), "stored %s, replayed %s", drift.StoredBalance, drift.ReplayedBalance)
}

func assertDecimal(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.NewFromInt(want).Equal(got), "want %d, got %s", want, got.String())
}

func TestLedger_CreateEditDeleteScenario(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	checking := e.account(t, "Checking", domain.Bank, 1000)
	assertDecimal(t, 1000, e.balance(t, checking.AccountID))

	txn, err := e.svc.Transaction.CreateTransaction(ctx, testCompany, dto.CreateTransactionRequest{
		Date: fixedNow, Description: "Consulting", Amount: decimal.NewFromInt(200),
		Type: domain.Income, Account: checking.AccountID, Status: domain.StatusCompleted,
	}, testUser)
	require.NoError(t, err)
	assertDecimal(t, 1200, e.balance(t, checking.AccountID))

	amount := decimal.NewFromInt(150)
	_, err = e.svc.Transaction.UpdateTransaction(ctx, testCompany, txn.TransactionID, dto.UpdateTransactionRequest{Amount: &amount}, testUser)
	require.NoError(t, err)
	assertDecimal(t, 1150, e.balance(t, checking.AccountID))

	require.NoError(t, e.svc.Transaction.DeleteTransaction(ctx, testCompany, txn.TransactionID, testUser))
	assertDecimal(t, 1000, e.balance(t, checking.AccountID))
	e.assertNoDrift(t, checking.AccountID)
}

func TestLedger_MoveBetweenAccountsNetsToZero(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	a := e.account(t, "A", domain.Bank, 500)
	b := e.account(t, "B", domain.Cash, 100)

	txn, err := e.svc.Transaction.CreateTransaction(ctx, testCompany, dto.CreateTransactionRequest{
		Date: fixedNow, Description: "Rent", Amount: decimal.NewFromInt(80),
		Type: domain.Expense, Account: a.AccountID, Status: domain.StatusCompleted,
	}, testUser)
	require.NoError(t, err)
	assertDecimal(t, 420, e.balance(t, a.AccountID))

	target := b.AccountID
	_, err = e.svc.Transaction.UpdateTransaction(ctx, testCompany, txn.TransactionID, dto.UpdateTransactionRequest{Account: &target}, testUser)
	require.NoError(t, err)

	assertDecimal(t, 500, e.balance(t, a.AccountID))
	assertDecimal(t, 20, e.balance(t, b.AccountID))
	total := e.balance(t, a.AccountID).Add(e.balance(t, b.AccountID))
	assertDecimal(t, 520, total)
	e.assertNoDrift(t, a.AccountID)
	e.assertNoDrift(t, b.AccountID)
}

func TestLedger_StatusTransitions(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	acc := e.account(t, "Ops", domain.Bank, 0)

	txn, err := e.svc.Transaction.CreateTransaction(ctx, testCompany, dto.CreateTransactionRequest{
		Date: fixedNow, Description: "Invoice", Amount: decimal.NewFromInt(300),
		Type: domain.Income, Account: acc.AccountID, Status: domain.StatusPending,
	}, testUser)
	require.NoError(t, err)
	assertDecimal(t, 0, e.balance(t, acc.AccountID))

	steps := []struct {
		status domain.TransactionStatus
		amount int64
		want   int64
	}{
		{domain.StatusPending, 999, 0}, // editing a pending transaction never moves the balance
		{domain.StatusCompleted, 300, 300},
		{domain.StatusCompleted, 300, 300}, // no-op transition does not apply twice
		{domain.StatusFailed, 300, 0},
		{domain.StatusCompleted, 250, 250},
		{domain.StatusPending, 250, 0},
	}
	for i, step := range steps {
		status := step.status
		amount := decimal.NewFromInt(step.amount)
		_, err := e.svc.Transaction.UpdateTransaction(ctx, testCompany, txn.TransactionID,
			dto.UpdateTransactionRequest{Status: &status, Amount: &amount}, testUser)
		require.NoError(t, err, "step %d", i)
		assertDecimal(t, step.want, e.balance(t, acc.AccountID))
	}
	e.assertNoDrift(t, acc.AccountID)
}

// Random create, edit and delete sequences keep every account equal to its replayed balance.
func TestLedger_RandomOperationsKeepBalanceEqualToReplay(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	accounts := []*domain.Account{
		e.account(t, "A", domain.Bank, 1000),
		e.account(t, "B", domain.Cash, 0),
		e.account(t, "C", domain.Credit, -250),
	}
	statuses := []domain.TransactionStatus{domain.StatusPending, domain.StatusCompleted, domain.StatusFailed}
	types := []domain.TransactionType{domain.Income, domain.Expense}

	rng := rand.New(rand.NewSource(7))
	live := make([]string, 0)

	for i := 0; i < 400; i++ {
		switch op := rng.Intn(3); {
		case op == 0 || len(live) == 0:
			txn, err := e.svc.Transaction.CreateTransaction(ctx, testCompany, dto.CreateTransactionRequest{
				Date:        fixedNow.Add(time.Duration(i) * time.Minute),
				Description: "generated",
				Amount:      decimal.NewFromInt(int64(rng.Intn(500) + 1)).Div(decimal.NewFromInt(4)),
				Type:        types[rng.Intn(len(types))],
				Account:     accounts[rng.Intn(len(accounts))].AccountID,
				Status:      statuses[rng.Intn(2)],
			}, testUser)
			require.NoError(t, err)
			live = append(live, txn.TransactionID)
		case op == 1:
			id := live[rng.Intn(len(live))]
			status := statuses[rng.Intn(len(statuses))]
			amount := decimal.NewFromInt(int64(rng.Intn(500) + 1))
			txnType := types[rng.Intn(len(types))]
			account := accounts[rng.Intn(len(accounts))].AccountID
			_, err := e.svc.Transaction.UpdateTransaction(ctx, testCompany, id, dto.UpdateTransactionRequest{
				Status: &status, Amount: &amount, Type: &txnType, Account: &account,
			}, testUser)
			require.NoError(t, err)
		default:
			idx := rng.Intn(len(live))
			require.NoError(t, e.svc.Transaction.DeleteTransaction(ctx, testCompany, live[idx], testUser))
			live = append(live[:idx], live[idx+1:]...)
		}
	}

	for _, acc := range accounts {
		e.assertNoDrift(t, acc.AccountID)
	}
}

// failingBalanceStore fails every balance adjustment while failing is set.
type failingBalanceStore struct {
	*memory.Store
	failing bool
}

func (f *failingBalanceStore) AdjustBalance(ctx context.Context, accountID string, delta decimal.Decimal, userID string, now time.Time) error {
	if f.failing {
		return errors.New("balance store unavailable")
	}
	return f.Store.AdjustBalance(ctx, accountID, delta, userID, now)
}

func TestLedger_ReconciliationFailureLeavesDriftThatRecomputeRepairs(t *testing.T) {
	ctx := context.Background()
	store := &failingBalanceStore{Store: memory.NewStore()}
	repos := memory.NewRepositoryProvider(store.Store)
	repos.AccountRepo = store
	svc := services.NewServiceContainer(&config.Config{}, repos, services.WithClock(fixedClock))

	acc, err := svc.Account.CreateAccount(ctx, testCompany, dto.CreateAccountRequest{
		Name: "Checking", AccountType: domain.Bank, CurrencyCode: "USD", InitialBalance: decimal.NewFromInt(1000),
	}, testUser)
	require.NoError(t, err)

	store.failing = true
	_, err = svc.Transaction.CreateTransaction(ctx, testCompany, dto.CreateTransactionRequest{
		Date: fixedNow, Description: "Invoice", Amount: decimal.NewFromInt(200),
		Type: domain.Income, Account: acc.AccountID, Status: domain.StatusCompleted,
	}, testUser)
	require.NoError(t, err, "the transaction write is never blocked by the balance write")

	drift, err := svc.Account.GetBalanceDrift(ctx, testCompany, acc.AccountID)
	require.NoError(t, err)
	assertDecimal(t, -200, drift.Drift)

	store.failing = false
	repaired, err := svc.Account.RecomputeBalance(ctx, testCompany, acc.AccountID, testUser)
	require.NoError(t, err)
	assertDecimal(t, 1200, repaired.Balance)
	assertDecimal(t, 1200, store.balanceOf(t, acc.AccountID))
}

func (f *failingBalanceStore) balanceOf(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	acc, err := f.FindAccountByID(context.Background(), accountID)
	require.NoError(t, err)
	return acc.Balance
}
