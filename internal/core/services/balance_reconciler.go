package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/fin_consistency_engine/internal/apperrors"
	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/fin_consistency_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fin_consistency_engine/internal/core/ports/services"
	"github.com/SscSPs/fin_consistency_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// balanceReconciler applies and reverses transaction effects on stored balances.
// Each call is a single atomic balance update; it never touches transaction rows.
type balanceReconciler struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	txnRepo     portsrepo.TransactionReader
}

// NewBalanceReconciler creates the balance reconciler.
func NewBalanceReconciler(accountRepo portsrepo.AccountRepositoryFacade, txnRepo portsrepo.TransactionReader, options ...ServiceOption) portssvc.BalanceReconcilerSvc {
	return &balanceReconciler{
		BaseService: newBaseService(options...),
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
	}
}

var _ portssvc.BalanceReconcilerSvc = (*balanceReconciler)(nil)

func (s *balanceReconciler) ApplyToBalance(ctx context.Context, txn *domain.Transaction, accountID string, userID string) error {
	delta, err := s.completedDelta(txn)
	if err != nil {
		return err
	}
	return s.adjust(ctx, txn, accountID, delta, userID, "apply")
}

func (s *balanceReconciler) ReverseFromBalance(ctx context.Context, txn *domain.Transaction, accountID string, userID string) error {
	delta, err := s.completedDelta(txn)
	if err != nil {
		return err
	}
	return s.adjust(ctx, txn, accountID, delta.Neg(), userID, "reverse")
}

// completedDelta returns the signed amount of a completed transaction.
// Only completed transactions carry a balance effect.
func (s *balanceReconciler) completedDelta(txn *domain.Transaction) (decimal.Decimal, error) {
	if txn == nil {
		return decimal.Zero, fmt.Errorf("transaction is required: %w", apperrors.ErrValidation)
	}
	if !txn.IsCompleted() {
		return decimal.Zero, fmt.Errorf("transaction %s has status '%s', only completed transactions affect a balance: %w",
			txn.TransactionID, txn.Status, apperrors.ErrValidation)
	}
	delta, err := accounting.SignedAmount(*txn)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
	}
	return delta, nil
}

func (s *balanceReconciler) adjust(ctx context.Context, txn *domain.Transaction, accountID string, delta decimal.Decimal, userID string, op string) error {
	if accountID == "" {
		return fmt.Errorf("%s transaction %s: account is required: %w", op, txn.TransactionID, apperrors.ErrValidation)
	}
	if err := s.accountRepo.AdjustBalance(ctx, accountID, delta, userID, s.Now()); err != nil {
		return fmt.Errorf("%s transaction %s on account %s: %w: %w", op, txn.TransactionID, accountID, apperrors.ErrReconciliation, err)
	}
	s.LogDebug(ctx, "Balance adjusted",
		slog.String("op", op),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("account_id", accountID),
		slog.String("delta", delta.String()))
	return nil
}

func (s *balanceReconciler) replay(ctx context.Context, accountID string) (*domain.Account, decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load account for replay", slog.String("account_id", accountID))
		}
		return nil, decimal.Zero, err
	}

	txns, err := s.txnRepo.ListCompletedByAccount(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load completed transactions for replay", slog.String("account_id", accountID))
		return nil, decimal.Zero, fmt.Errorf("failed to load transactions for account %s: %w", accountID, err)
	}

	replayed, err := accounting.ReplayBalance(account.InitialBalance, accountID, txns)
	if err != nil {
		s.LogError(ctx, err, "Failed to replay balance", slog.String("account_id", accountID))
		return nil, decimal.Zero, fmt.Errorf("failed to replay balance for account %s: %w", accountID, err)
	}
	return account, replayed, nil
}

func (s *balanceReconciler) RecomputeBalance(ctx context.Context, accountID string, userID string) (*domain.Account, error) {
	account, replayed, err := s.replay(ctx, accountID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	if err := s.accountRepo.SetBalance(ctx, accountID, replayed, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to store recomputed balance", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to store recomputed balance for account %s: %w", accountID, err)
	}

	s.LogInfo(ctx, "Account balance recomputed",
		slog.String("account_id", accountID),
		slog.String("previous_balance", account.Balance.String()),
		slog.String("balance", replayed.String()))

	account.Balance = replayed
	account.Touch(userID, now)
	return account, nil
}

func (s *balanceReconciler) Drift(ctx context.Context, accountID string) (*domain.BalanceDrift, error) {
	account, replayed, err := s.replay(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &domain.BalanceDrift{
		AccountID:       accountID,
		StoredBalance:   account.Balance,
		ReplayedBalance: replayed,
		Drift:           account.Balance.Sub(replayed),
	}, nil
}
