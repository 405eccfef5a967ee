package accounting_test

import (
	"testing"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	"github.com/SscSPs/fin_consistency_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedAmount(t *testing.T) {
	income := domain.Transaction{Amount: decimal.NewFromInt(200), TransactionType: domain.Income}
	expense := domain.Transaction{Amount: decimal.NewFromInt(75), TransactionType: domain.Expense}

	got, err := accounting.SignedAmount(income)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(200)))

	got, err = accounting.SignedAmount(expense)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(-75)))

	_, err = accounting.SignedAmount(domain.Transaction{TransactionID: "t1", Amount: decimal.NewFromInt(1), TransactionType: "transfer"})
	assert.ErrorContains(t, err, "unknown transaction type")
}

func TestReplayBalance(t *testing.T) {
	txns := []domain.Transaction{
		{AccountID: "a", Amount: decimal.NewFromInt(200), TransactionType: domain.Income, Status: domain.StatusCompleted},
		{AccountID: "a", Amount: decimal.NewFromInt(50), TransactionType: domain.Expense, Status: domain.StatusCompleted},
		{AccountID: "a", Amount: decimal.NewFromInt(999), TransactionType: domain.Income, Status: domain.StatusPending},
		{AccountID: "a", Amount: decimal.NewFromInt(999), TransactionType: domain.Expense, Status: domain.StatusFailed},
		{AccountID: "b", Amount: decimal.NewFromInt(999), TransactionType: domain.Income, Status: domain.StatusCompleted},
	}

	got, err := accounting.ReplayBalance(decimal.NewFromInt(1000), "a", txns)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(1150)), "got %s", got)
}
