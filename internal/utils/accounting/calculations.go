package accounting

import (
	"fmt"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount returns the effect of a transaction on its account balance:
// positive for income, negative for expense.
// This is used by the reconciler and by the replay path so both agree on the sign.
func SignedAmount(txn domain.Transaction) (decimal.Decimal, error) {
	switch txn.TransactionType {
	case domain.Income:
		return txn.Amount, nil
	case domain.Expense:
		return txn.Amount.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown transaction type '%s' encountered for transaction ID %s", txn.TransactionType, txn.TransactionID)
	}
}

// ReplayBalance recomputes a balance from the initial balance and every completed
// transaction in transactions that references accountID. Other transactions are skipped.
func ReplayBalance(initial decimal.Decimal, accountID string, transactions []domain.Transaction) (decimal.Decimal, error) {
	balance := initial
	for _, txn := range transactions {
		if txn.AccountID != accountID || !txn.IsCompleted() {
			continue
		}
		signed, err := SignedAmount(txn)
		if err != nil {
			return decimal.Zero, fmt.Errorf("error replaying transaction %s: %w", txn.TransactionID, err)
		}
		balance = balance.Add(signed)
	}
	return balance, nil
}
