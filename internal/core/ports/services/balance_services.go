package services

import (
	"context"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
)

// BalanceReconcilerSvc is the only component allowed to mutate a stored account balance.
type BalanceReconcilerSvc interface {
	// ApplyToBalance adds the signed amount of a completed transaction to an account.
	ApplyToBalance(ctx context.Context, txn *domain.Transaction, accountID string, userID string) error

	// ReverseFromBalance is the exact inverse of ApplyToBalance.
	ReverseFromBalance(ctx context.Context, txn *domain.Transaction, accountID string, userID string) error

	// RecomputeBalance resets an account to its initial balance and replays every
	// completed transaction referencing it.
	RecomputeBalance(ctx context.Context, accountID string, userID string) (*domain.Account, error)

	// Drift reports the difference between the stored and the replayed balance.
	Drift(ctx context.Context, accountID string) (*domain.BalanceDrift, error)
}
