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
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// saleMirrorService keeps one income transaction per sale, linked by sale id.
type saleMirrorService struct {
	BaseService
	txnRepo         portsrepo.TransactionRepositoryFacade
	accountRepo     portsrepo.AccountReader
	ledger          *ledgerWriter
	defaultCategory string
	validate        *validator.Validate
}

// NewSaleMirrorService creates the sale mirror. defaultCategory is used when a sale names none.
func NewSaleMirrorService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	reconciler portssvc.BalanceReconcilerSvc,
	defaultCategory string,
	options ...ServiceOption,
) portssvc.SaleMirrorSvc {
	base := newBaseService(options...)
	return &saleMirrorService{
		BaseService:     base,
		txnRepo:         txnRepo,
		accountRepo:     accountRepo,
		ledger:          newLedgerWriter(base, txnRepo, reconciler),
		defaultCategory: defaultCategory,
		validate:        validator.New(),
	}
}

var _ portssvc.SaleMirrorSvc = (*saleMirrorService)(nil)

func (s *saleMirrorService) CreateTransactionFromSale(ctx context.Context, sale domain.Sale, userID string) (*domain.Transaction, error) {
	txn, err := s.createFromSale(ctx, sale, userID)
	if err != nil {
		s.warn(ctx, err, "create", sale.SaleID, sale.CompanyID)
		return nil, err
	}
	return txn, nil
}

func (s *saleMirrorService) UpdateTransactionFromSale(ctx context.Context, sale domain.Sale, userID string) (*domain.Transaction, error) {
	txn, err := s.updateFromSale(ctx, sale, userID)
	if err != nil {
		s.warn(ctx, err, "update", sale.SaleID, sale.CompanyID)
		return nil, err
	}
	return txn, nil
}

func (s *saleMirrorService) DeleteTransactionFromSale(ctx context.Context, saleID string, companyID string, userID string) error {
	if err := s.deleteFromSale(ctx, saleID, companyID, userID); err != nil {
		s.warn(ctx, err, "delete", saleID, companyID)
		return err
	}
	return nil
}

func (s *saleMirrorService) createFromSale(ctx context.Context, sale domain.Sale, userID string) (*domain.Transaction, error) {
	if err := s.validateSale(&sale); err != nil {
		return nil, err
	}

	existing, err := s.findMirror(ctx, sale.CompanyID, sale.SaleID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		// Redelivered create: bring the mirror in line instead of duplicating it.
		return s.syncMirror(ctx, existing, sale, userID)
	}

	if !sale.Status.Mirrorable() {
		s.LogDebug(ctx, "Sale status does not qualify for mirroring",
			slog.String("sale_id", sale.SaleID),
			slog.String("sale_status", string(sale.Status)))
		return nil, nil
	}
	return s.insertMirror(ctx, sale, userID)
}

func (s *saleMirrorService) updateFromSale(ctx context.Context, sale domain.Sale, userID string) (*domain.Transaction, error) {
	if err := s.validateSale(&sale); err != nil {
		return nil, err
	}

	existing, err := s.findMirror(ctx, sale.CompanyID, sale.SaleID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if !sale.Status.Mirrorable() {
			return nil, nil
		}
		return s.insertMirror(ctx, sale, userID)
	}
	return s.syncMirror(ctx, existing, sale, userID)
}

func (s *saleMirrorService) deleteFromSale(ctx context.Context, saleID string, companyID string, userID string) error {
	if saleID == "" || companyID == "" {
		return fmt.Errorf("sale id and company id are required: %w", apperrors.ErrValidation)
	}
	existing, err := s.findMirror(ctx, companyID, saleID)
	if err != nil {
		return err
	}
	if existing == nil {
		s.LogDebug(ctx, "No mirrored transaction for deleted sale", slog.String("sale_id", saleID))
		return nil
	}
	if err := s.ledger.delete(ctx, existing, userID); err != nil {
		return err
	}
	s.LogInfo(ctx, "Mirrored transaction deleted",
		slog.String("sale_id", saleID),
		slog.String("transaction_id", existing.TransactionID))
	return nil
}

func (s *saleMirrorService) insertMirror(ctx context.Context, sale domain.Sale, userID string) (*domain.Transaction, error) {
	account, err := s.resolveAccount(ctx, sale)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	saleID := sale.SaleID
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		CompanyID:       sale.CompanyID,
		Date:            sale.Date,
		Description:     sale.Description(),
		Amount:          sale.Total,
		TransactionType: domain.Income,
		Status:          sale.Status.TransactionStatus(),
		AccountID:       account.AccountID,
		CategoryID:      s.categoryFor(sale),
		SaleID:          &saleID,
		AuditFields:     domain.NewAuditFields(userID, now),
	}
	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mirrored transaction: %v: %w", err, apperrors.ErrValidation)
	}
	if err := s.ledger.create(ctx, &txn, userID); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Sale mirrored to ledger",
		slog.String("sale_id", sale.SaleID),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("status", string(txn.Status)))
	return &txn, nil
}

func (s *saleMirrorService) syncMirror(ctx context.Context, existing *domain.Transaction, sale domain.Sale, userID string) (*domain.Transaction, error) {
	next := *existing
	next.Date = sale.Date
	next.Description = sale.Description()
	next.Amount = sale.Total
	next.Status = sale.Status.TransactionStatus()
	if sale.CategoryID != "" {
		next.CategoryID = sale.CategoryID
	}
	if sale.AccountID != "" && sale.AccountID != existing.AccountID {
		account, err := findAccountInCompany(ctx, &s.BaseService, s.accountRepo, sale.CompanyID, sale.AccountID)
		if err != nil {
			return nil, err
		}
		next.AccountID = account.AccountID
	}
	next.Touch(userID, s.Now())

	if err := next.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mirrored transaction: %v: %w", err, apperrors.ErrValidation)
	}
	if err := s.ledger.update(ctx, existing, &next, userID); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Mirrored transaction updated",
		slog.String("sale_id", sale.SaleID),
		slog.String("transaction_id", next.TransactionID),
		slog.String("previous_status", string(existing.Status)),
		slog.String("status", string(next.Status)))
	return &next, nil
}

// findMirror returns nil without an error when the sale has no mirrored transaction.
func (s *saleMirrorService) findMirror(ctx context.Context, companyID, saleID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionBySaleID(ctx, companyID, saleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return txn, nil
}

func (s *saleMirrorService) resolveAccount(ctx context.Context, sale domain.Sale) (*domain.Account, error) {
	if sale.AccountID != "" {
		return findAccountInCompany(ctx, &s.BaseService, s.accountRepo, sale.CompanyID, sale.AccountID)
	}
	account, err := s.accountRepo.FindDefaultAccount(ctx, sale.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("no default account for company %s: %w", sale.CompanyID, err)
	}
	return account, nil
}

func (s *saleMirrorService) categoryFor(sale domain.Sale) string {
	if sale.CategoryID != "" {
		return sale.CategoryID
	}
	return s.defaultCategory
}

func (s *saleMirrorService) validateSale(sale *domain.Sale) error {
	if err := s.validate.Struct(sale); err != nil {
		return fmt.Errorf("invalid sale: %v: %w", err, apperrors.ErrValidation)
	}
	if !sale.Total.IsPositive() {
		return fmt.Errorf("sale total must be positive, got %s: %w", sale.Total.String(), apperrors.ErrValidation)
	}
	if err := domain.CheckMoney("sale total", sale.Total); err != nil {
		return fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
	}
	return nil
}

func (s *saleMirrorService) warn(ctx context.Context, err error, op, saleID, companyID string) {
	s.LogWarn(ctx, err, "Sale mirror failed",
		slog.String("op", op),
		slog.String("sale_id", saleID),
		slog.String("company_id", companyID))
}
