package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/fin_consistency_engine/internal/apperrors"
	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[account.AccountID]; exists {
		return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrDuplicate)
	}
	s.accounts[account.AccountID] = account
	return nil
}

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	return &account, nil
}

func (s *Store) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	return page(s.activeAccounts(companyID), limit, offset), nil
}

// FindDefaultAccount prefers the oldest active bank account, then cash, then any active account.
func (s *Store) FindDefaultAccount(ctx context.Context, companyID string) (*domain.Account, error) {
	accounts := s.activeAccounts(companyID)
	for _, preferred := range []domain.AccountType{domain.Bank, domain.Cash} {
		for _, account := range accounts {
			if account.AccountType == preferred {
				return &account, nil
			}
		}
	}
	if len(accounts) > 0 {
		return &accounts[0], nil
	}
	return nil, fmt.Errorf("default account for company %s: %w", companyID, apperrors.ErrNotFound)
}

// activeAccounts returns the company's active accounts, oldest first.
func (s *Store) activeAccounts(companyID string) []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accounts := make([]domain.Account, 0)
	for _, account := range s.accounts {
		if account.CompanyID == companyID && account.IsActive {
			accounts = append(accounts, account)
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		if !accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
		}
		return accounts[i].AccountID < accounts[j].AccountID
	})
	return accounts
}

func (s *Store) AdjustBalance(ctx context.Context, accountID string, delta decimal.Decimal, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	account.Balance = account.Balance.Add(delta)
	account.Touch(userID, now)
	s.accounts[accountID] = account
	return nil
}

func (s *Store) SetBalance(ctx context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	account.Balance = balance
	account.Touch(userID, now)
	s.accounts[accountID] = account
	return nil
}
