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

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	reconciler  portssvc.BalanceReconcilerSvc
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, reconciler portssvc.BalanceReconcilerSvc, options ...ServiceOption) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: newBaseService(options...),
		accountRepo: repo,
		reconciler:  reconciler,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("account name is required: %w", apperrors.ErrValidation)
	}
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("unknown account type '%s': %w", req.AccountType, apperrors.ErrValidation)
	}
	if err := domain.CheckMoney("initial balance", req.InitialBalance); err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
	}

	now := s.Now()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		CompanyID:      companyID,
		Name:           name,
		AccountType:    req.AccountType,
		CurrencyCode:   strings.ToUpper(req.CurrencyCode),
		InitialBalance: req.InitialBalance,
		Balance:        req.InitialBalance,
		IsActive:       true,
		AuditFields:    domain.NewAuditFields(userID, now),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID),
			slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("company_id", companyID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	return findAccountInCompany(ctx, &s.BaseService, s.accountRepo, companyID, accountID)
}

func (s *accountService) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	limit, offset = normalizePage(limit, offset)
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("company_id", companyID))
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) RecomputeBalance(ctx context.Context, companyID string, accountID string, userID string) (*domain.Account, error) {
	if _, err := s.GetAccountByID(ctx, companyID, accountID); err != nil {
		return nil, err
	}
	return s.reconciler.RecomputeBalance(ctx, accountID, userID)
}

func (s *accountService) GetBalanceDrift(ctx context.Context, companyID string, accountID string) (*domain.BalanceDrift, error) {
	if _, err := s.GetAccountByID(ctx, companyID, accountID); err != nil {
		return nil, err
	}
	return s.reconciler.Drift(ctx, accountID)
}

// findAccountInCompany loads an account and hides accounts owned by another company.
func findAccountInCompany(ctx context.Context, base *BaseService, repo portsrepo.AccountReader, companyID, accountID string) (*domain.Account, error) {
	account, err := repo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			base.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	if account.CompanyID != companyID {
		base.LogDebug(ctx, "Account requested outside its company",
			slog.String("account_id", accountID),
			slog.String("company_id", companyID))
		return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	return account, nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
