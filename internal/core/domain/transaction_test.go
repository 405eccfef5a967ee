package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txn(status domain.TransactionStatus, amount int64, accountID string) *domain.Transaction {
	return &domain.Transaction{
		TransactionID:   "txn_123",
		Date:            time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Amount:          decimal.NewFromInt(amount),
		TransactionType: domain.Income,
		Status:          status,
		AccountID:       accountID,
	}
}

func TestPlanBalanceEffect(t *testing.T) {
	tests := []struct {
		name string
		prev *domain.Transaction
		next *domain.Transaction
		want domain.BalanceEffect
	}{
		{name: "create pending", next: txn(domain.StatusPending, 100, "acc_a"), want: domain.BalanceEffect{}},
		{name: "create completed", next: txn(domain.StatusCompleted, 100, "acc_a"), want: domain.BalanceEffect{Apply: true}},
		{name: "delete completed", prev: txn(domain.StatusCompleted, 100, "acc_a"), want: domain.BalanceEffect{Reverse: true}},
		{name: "delete failed", prev: txn(domain.StatusFailed, 100, "acc_a"), want: domain.BalanceEffect{}},
		{name: "pending to completed", prev: txn(domain.StatusPending, 100, "acc_a"), next: txn(domain.StatusCompleted, 100, "acc_a"), want: domain.BalanceEffect{Apply: true}},
		{name: "completed to failed", prev: txn(domain.StatusCompleted, 100, "acc_a"), next: txn(domain.StatusFailed, 100, "acc_a"), want: domain.BalanceEffect{Reverse: true}},
		{name: "completed to pending", prev: txn(domain.StatusCompleted, 100, "acc_a"), next: txn(domain.StatusPending, 100, "acc_a"), want: domain.BalanceEffect{Reverse: true}},
		{name: "completed no-op edit", prev: txn(domain.StatusCompleted, 100, "acc_a"), next: txn(domain.StatusCompleted, 100, "acc_a"), want: domain.BalanceEffect{}},
		{name: "completed amount edit", prev: txn(domain.StatusCompleted, 100, "acc_a"), next: txn(domain.StatusCompleted, 150, "acc_a"), want: domain.BalanceEffect{Reverse: true, Apply: true}},
		{name: "completed account move", prev: txn(domain.StatusCompleted, 100, "acc_a"), next: txn(domain.StatusCompleted, 100, "acc_b"), want: domain.BalanceEffect{Reverse: true, Apply: true}},
		{name: "pending amount edit", prev: txn(domain.StatusPending, 100, "acc_a"), next: txn(domain.StatusPending, 300, "acc_b"), want: domain.BalanceEffect{}},
		{name: "failed to failed", prev: txn(domain.StatusFailed, 100, "acc_a"), next: txn(domain.StatusFailed, 100, "acc_a"), want: domain.BalanceEffect{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.PlanBalanceEffect(tt.prev, tt.next)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanBalanceEffect_TypeChangeOnCompleted(t *testing.T) {
	prev := txn(domain.StatusCompleted, 100, "acc_a")
	next := txn(domain.StatusCompleted, 100, "acc_a")
	next.TransactionType = domain.Expense

	got, err := domain.PlanBalanceEffect(prev, next)
	require.NoError(t, err)
	assert.Equal(t, domain.BalanceEffect{Reverse: true, Apply: true}, got)
}

func TestPlanBalanceEffect_UnknownStatus(t *testing.T) {
	_, err := domain.PlanBalanceEffect(txn(domain.StatusPending, 1, "a"), txn("archived", 1, "a"))
	assert.Error(t, err)

	_, err = domain.PlanBalanceEffect(nil, txn("archived", 1, "a"))
	assert.Error(t, err)
}

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Transaction)
		wantErr bool
		errMsg  string
	}{
		{name: "valid", mutate: func(*domain.Transaction) {}},
		{name: "zero amount", mutate: func(tx *domain.Transaction) { tx.Amount = decimal.Zero }, wantErr: true, errMsg: "amount must be positive"},
		{name: "negative amount", mutate: func(tx *domain.Transaction) { tx.Amount = decimal.NewFromInt(-5) }, wantErr: true, errMsg: "amount must be positive"},
		{name: "bad type", mutate: func(tx *domain.Transaction) { tx.TransactionType = "transfer" }, wantErr: true, errMsg: "unknown transaction type"},
		{name: "bad status", mutate: func(tx *domain.Transaction) { tx.Status = "void" }, wantErr: true, errMsg: "unknown transaction status"},
		{name: "missing account", mutate: func(tx *domain.Transaction) { tx.AccountID = "" }, wantErr: true, errMsg: "account is required"},
		{name: "missing date", mutate: func(tx *domain.Transaction) { tx.Date = time.Time{} }, wantErr: true, errMsg: "date is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := txn(domain.StatusPending, 100, "acc_a")
			tt.mutate(tx)
			err := tx.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaleStatus_Mapping(t *testing.T) {
	assert.True(t, domain.SaleCompleted.Mirrorable())
	assert.True(t, domain.SalePending.Mirrorable())
	assert.False(t, domain.SaleCancelled.Mirrorable())

	assert.Equal(t, domain.StatusCompleted, domain.SaleCompleted.TransactionStatus())
	assert.Equal(t, domain.StatusPending, domain.SalePending.TransactionStatus())
	assert.Equal(t, domain.StatusFailed, domain.SaleRefunded.TransactionStatus())
}

func TestSale_Description(t *testing.T) {
	s := domain.Sale{SaleID: "S-1", CustomerName: "Acme"}
	assert.Equal(t, "Sale S-1 - Acme", s.Description())
	s.CustomerName = ""
	assert.Equal(t, "Sale S-1", s.Description())
}
