package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/fin_consistency_engine/internal/apperrors"
	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sale(id string, status domain.SaleStatus, total int64) domain.Sale {
	return domain.Sale{
		SaleID:       id,
		CompanyID:    testCompany,
		Date:         fixedNow,
		Total:        decimal.NewFromInt(total),
		Status:       status,
		CustomerName: "Acme",
	}
}

func TestSaleMirror_CreateCompletedUsesDefaultAccount(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	e.account(t, "Till", domain.Cash, 0)
	bank := e.account(t, "Checking", domain.Bank, 1000)

	txn, err := e.svc.SaleMirror.CreateTransactionFromSale(ctx, sale("S-1", domain.SaleCompleted, 250), testUser)
	require.NoError(t, err)
	require.NotNil(t, txn)

	assert.Equal(t, bank.AccountID, txn.AccountID, "bank wins over cash")
	assert.Equal(t, domain.Income, txn.TransactionType)
	assert.Equal(t, domain.StatusCompleted, txn.Status)
	assert.Equal(t, "sales", txn.CategoryID)
	assert.Equal(t, "Sale S-1 - Acme", txn.Description)
	require.NotNil(t, txn.SaleID)
	assert.Equal(t, "S-1", *txn.SaleID)
	assertDecimal(t, 1250, e.balance(t, bank.AccountID))
}

func TestSaleMirror_CreateNonQualifyingSaleIsSkipped(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	e.account(t, "Checking", domain.Bank, 0)

	txn, err := e.svc.SaleMirror.CreateTransactionFromSale(ctx, sale("S-1", domain.SaleCancelled, 250), testUser)
	require.NoError(t, err)
	assert.Nil(t, txn)

	_, err = e.store.FindTransactionBySaleID(ctx, testCompany, "S-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSaleMirror_Lifecycle(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	bank := e.account(t, "Checking", domain.Bank, 1000)

	// pending sale: mirrored, no balance effect
	txn, err := e.svc.SaleMirror.CreateTransactionFromSale(ctx, sale("S-2", domain.SalePending, 300), testUser)
	require.NoError(t, err)
	require.NotNil(t, txn)
	assert.Equal(t, domain.StatusPending, txn.Status)
	assertDecimal(t, 1000, e.balance(t, bank.AccountID))

	// completed: applied
	txn, err = e.svc.SaleMirror.UpdateTransactionFromSale(ctx, sale("S-2", domain.SaleCompleted, 300), testUser)
	require.NoError(t, err)
	assertDecimal(t, 1300, e.balance(t, bank.AccountID))

	// amount change on a completed sale: reverse then apply
	txn, err = e.svc.SaleMirror.UpdateTransactionFromSale(ctx, sale("S-2", domain.SaleCompleted, 275), testUser)
	require.NoError(t, err)
	assertDecimal(t, 1275, e.balance(t, bank.AccountID))

	// refunded maps to failed: reversed
	txn, err = e.svc.SaleMirror.UpdateTransactionFromSale(ctx, sale("S-2", domain.SaleRefunded, 275), testUser)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, txn.Status)
	assertDecimal(t, 1000, e.balance(t, bank.AccountID))

	// back to completed, then delete the sale
	_, err = e.svc.SaleMirror.UpdateTransactionFromSale(ctx, sale("S-2", domain.SaleCompleted, 275), testUser)
	require.NoError(t, err)
	assertDecimal(t, 1275, e.balance(t, bank.AccountID))

	require.NoError(t, e.svc.SaleMirror.DeleteTransactionFromSale(ctx, "S-2", testCompany, testUser))
	assertDecimal(t, 1000, e.balance(t, bank.AccountID))
	_, err = e.store.FindTransactionBySaleID(ctx, testCompany, "S-2")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	e.assertNoDrift(t, bank.AccountID)
}

func TestSaleMirror_UpdateWithoutMirrorCreatesOne(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	bank := e.account(t, "Checking", domain.Bank, 0)

	txn, err := e.svc.SaleMirror.UpdateTransactionFromSale(ctx, sale("S-3", domain.SaleCompleted, 90), testUser)
	require.NoError(t, err)
	require.NotNil(t, txn)
	assertDecimal(t, 90, e.balance(t, bank.AccountID))

	txn, err = e.svc.SaleMirror.UpdateTransactionFromSale(ctx, sale("S-4", domain.SaleCancelled, 90), testUser)
	require.NoError(t, err)
	assert.Nil(t, txn)
}

func TestSaleMirror_RedeliveredCreateDoesNotDuplicate(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	bank := e.account(t, "Checking", domain.Bank, 0)

	first, err := e.svc.SaleMirror.CreateTransactionFromSale(ctx, sale("S-5", domain.SaleCompleted, 40), testUser)
	require.NoError(t, err)
	second, err := e.svc.SaleMirror.CreateTransactionFromSale(ctx, sale("S-5", domain.SaleCompleted, 40), testUser)
	require.NoError(t, err)

	assert.Equal(t, first.TransactionID, second.TransactionID)
	assertDecimal(t, 40, e.balance(t, bank.AccountID))
}

func TestSaleMirror_ExplicitAccountAndCategory(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	e.account(t, "Checking", domain.Bank, 0)
	card := e.account(t, "Card clearing", domain.Other, 0)

	s := sale("S-6", domain.SaleCompleted, 60)
	s.AccountID = card.AccountID
	s.CategoryID = "online"
	txn, err := e.svc.SaleMirror.CreateTransactionFromSale(ctx, s, testUser)
	require.NoError(t, err)
	assert.Equal(t, card.AccountID, txn.AccountID)
	assert.Equal(t, "online", txn.CategoryID)
	assertDecimal(t, 60, e.balance(t, card.AccountID))
}

func TestSaleMirror_FailuresAreReportedNotFatal(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)

	// no account at all: the mirror cannot place the transaction
	txn, err := e.svc.SaleMirror.CreateTransactionFromSale(ctx, sale("S-7", domain.SaleCompleted, 10), testUser)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, txn)

	// malformed sale
	bad := sale("", domain.SaleCompleted, 10)
	_, err = e.svc.SaleMirror.CreateTransactionFromSale(ctx, bad, testUser)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	zero := sale("S-8", domain.SaleCompleted, 0)
	_, err = e.svc.SaleMirror.UpdateTransactionFromSale(ctx, zero, testUser)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// deleting a sale that was never mirrored is fine
	assert.NoError(t, e.svc.SaleMirror.DeleteTransactionFromSale(ctx, "never", testCompany, testUser))
}
