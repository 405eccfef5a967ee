package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/fin_consistency_engine/internal/apperrors"
	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/fin_consistency_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fin_consistency_engine/internal/core/ports/services"
)

// ledgerWriter persists transaction rows and drives the reconciler around each write.
// Order on update: reverse the previous completed effect against the previous account,
// persist, then apply the new completed effect against the new account.
// The row write and the balance write are separate; reconciliation failures are logged
// and swallowed, leaving drift that RecomputeBalance can repair.
type ledgerWriter struct {
	BaseService
	txnRepo    portsrepo.TransactionWriter
	reconciler portssvc.BalanceReconcilerSvc
}

func newLedgerWriter(base BaseService, txnRepo portsrepo.TransactionWriter, reconciler portssvc.BalanceReconcilerSvc) *ledgerWriter {
	return &ledgerWriter{BaseService: base, txnRepo: txnRepo, reconciler: reconciler}
}

func (l *ledgerWriter) create(ctx context.Context, txn *domain.Transaction, userID string) error {
	effect, err := domain.PlanBalanceEffect(nil, txn)
	if err != nil {
		return fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
	}
	if err := l.txnRepo.SaveTransaction(ctx, *txn); err != nil {
		l.LogError(ctx, err, "Failed to save transaction", slog.String("transaction_id", txn.TransactionID))
		return err
	}
	if effect.Apply {
		l.apply(ctx, txn, userID)
	}
	return nil
}

func (l *ledgerWriter) update(ctx context.Context, prev, next *domain.Transaction, userID string) error {
	effect, err := domain.PlanBalanceEffect(prev, next)
	if err != nil {
		return fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
	}

	reversed := false
	if effect.Reverse {
		reversed = l.reverse(ctx, prev, userID)
	}

	if err := l.txnRepo.UpdateTransaction(ctx, *next); err != nil {
		l.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", next.TransactionID))
		// The row still holds prev, so put its effect back.
		if reversed {
			l.apply(ctx, prev, userID)
		}
		return err
	}

	if effect.Apply {
		l.apply(ctx, next, userID)
	}
	if effect.IsNoop() {
		l.LogDebug(ctx, "Transaction update has no balance effect",
			slog.String("transaction_id", next.TransactionID),
			slog.String("status", string(next.Status)))
	}
	return nil
}

func (l *ledgerWriter) delete(ctx context.Context, prev *domain.Transaction, userID string) error {
	effect, err := domain.PlanBalanceEffect(prev, nil)
	if err != nil {
		return fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
	}

	reversed := false
	if effect.Reverse {
		reversed = l.reverse(ctx, prev, userID)
	}

	if err := l.txnRepo.DeleteTransaction(ctx, prev.TransactionID); err != nil {
		l.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", prev.TransactionID))
		if reversed {
			l.apply(ctx, prev, userID)
		}
		return err
	}
	return nil
}

func (l *ledgerWriter) apply(ctx context.Context, txn *domain.Transaction, userID string) bool {
	if err := l.reconciler.ApplyToBalance(ctx, txn, txn.AccountID, userID); err != nil {
		l.LogError(ctx, err, "Balance reconciliation failed",
			slog.String("op", "apply"),
			slog.String("transaction_id", txn.TransactionID),
			slog.String("account_id", txn.AccountID))
		return false
	}
	return true
}

func (l *ledgerWriter) reverse(ctx context.Context, txn *domain.Transaction, userID string) bool {
	if err := l.reconciler.ReverseFromBalance(ctx, txn, txn.AccountID, userID); err != nil {
		l.LogError(ctx, err, "Balance reconciliation failed",
			slog.String("op", "reverse"),
			slog.String("transaction_id", txn.TransactionID),
			slog.String("account_id", txn.AccountID))
		return false
	}
	return true
}
