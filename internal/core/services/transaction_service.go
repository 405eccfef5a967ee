package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/fin_consistency_engine/internal/apperrors"
	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/fin_consistency_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fin_consistency_engine/internal/core/ports/services"
	"github.com/SscSPs/fin_consistency_engine/internal/dto"
	"github.com/google/uuid"
)

type transactionService struct {
	BaseService
	txnRepo     portsrepo.TransactionRepositoryFacade
	accountRepo portsrepo.AccountReader
	ledger      *ledgerWriter
}

// NewTransactionService creates the manual transaction CRUD service.
func NewTransactionService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	reconciler portssvc.BalanceReconcilerSvc,
	options ...ServiceOption,
) portssvc.TransactionSvcFacade {
	base := newBaseService(options...)
	return &transactionService{
		BaseService: base,
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
		ledger:      newLedgerWriter(base, txnRepo, reconciler),
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) CreateTransaction(ctx context.Context, companyID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	now := s.Now()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		CompanyID:       companyID,
		Date:            req.Date,
		Description:     strings.TrimSpace(req.Description),
		Amount:          req.Amount,
		TransactionType: req.Type,
		Status:          req.Status,
		AccountID:       req.Account,
		CategoryID:      req.Category,
		Recurring:       req.Recurring,
		Notes:           req.Notes,
		AuditFields:     domain.NewAuditFields(userID, now),
	}
	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transaction: %v: %w", err, apperrors.ErrValidation)
	}
	if _, err := findAccountInCompany(ctx, &s.BaseService, s.accountRepo, companyID, txn.AccountID); err != nil {
		return nil, err
	}

	if err := s.ledger.create(ctx, &txn, userID); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Transaction created successfully",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("status", string(txn.Status)),
		slog.String("account_id", txn.AccountID))
	return &txn, nil
}

func (s *transactionService) GetTransactionByID(ctx context.Context, companyID string, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction by ID", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	if txn.CompanyID != companyID {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, companyID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	limit, _ := normalizePage(params.Limit, 0)
	txns, next, err := s.txnRepo.ListTransactions(ctx, companyID, limit, params.NextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list transactions", slog.String("company_id", companyID))
		}
		return nil, nil, err
	}
	return txns, next, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, companyID string, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error) {
	prev, err := s.GetTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}

	next := *prev
	if req.Date != nil {
		next.Date = *req.Date
	}
	if req.Description != nil {
		next.Description = strings.TrimSpace(*req.Description)
	}
	if req.Amount != nil {
		next.Amount = *req.Amount
	}
	if req.Type != nil {
		next.TransactionType = *req.Type
	}
	if req.Category != nil {
		next.CategoryID = *req.Category
	}
	if req.Account != nil {
		next.AccountID = *req.Account
	}
	if req.Status != nil {
		next.Status = *req.Status
	}
	if req.Recurring != nil {
		next.Recurring = *req.Recurring
	}
	if req.Notes != nil {
		next.Notes = *req.Notes
	}
	next.Touch(userID, s.Now())

	if err := next.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transaction: %v: %w", err, apperrors.ErrValidation)
	}
	if next.AccountID != prev.AccountID {
		if _, err := findAccountInCompany(ctx, &s.BaseService, s.accountRepo, companyID, next.AccountID); err != nil {
			return nil, err
		}
	}

	if err := s.ledger.update(ctx, prev, &next, userID); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Transaction updated successfully",
		slog.String("transaction_id", transactionID),
		slog.String("previous_status", string(prev.Status)),
		slog.String("status", string(next.Status)))
	return &next, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, companyID string, transactionID string, userID string) error {
	prev, err := s.GetTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		return err
	}
	if err := s.ledger.delete(ctx, prev, userID); err != nil {
		return err
	}
	s.LogInfo(ctx, "Transaction deleted successfully", slog.String("transaction_id", transactionID))
	return nil
}
