package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/fin_consistency_engine/internal/apperrors"
	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	"github.com/SscSPs/fin_consistency_engine/internal/utils/pagination"
)

func (s *Store) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.transactions[txn.TransactionID]; exists {
		return fmt.Errorf("transaction %s: %w", txn.TransactionID, apperrors.ErrDuplicate)
	}
	if txn.SaleID != nil {
		for _, other := range s.transactions {
			if other.SaleID != nil && *other.SaleID == *txn.SaleID && other.CompanyID == txn.CompanyID {
				return fmt.Errorf("transaction for sale %s: %w", *txn.SaleID, apperrors.ErrDuplicate)
			}
		}
	}
	s.transactions[txn.TransactionID] = txn
	return nil
}

func (s *Store) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.transactions[txn.TransactionID]; !exists {
		return fmt.Errorf("transaction %s: %w", txn.TransactionID, apperrors.ErrNotFound)
	}
	s.transactions[txn.TransactionID] = txn
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.transactions[transactionID]; !exists {
		return fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
	}
	delete(s.transactions, transactionID)
	return nil
}

func (s *Store) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txn, ok := s.transactions[transactionID]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
	}
	return &txn, nil
}

func (s *Store) FindTransactionBySaleID(ctx context.Context, companyID string, saleID string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, txn := range s.transactions {
		if txn.CompanyID == companyID && txn.SaleID != nil && *txn.SaleID == saleID {
			return &txn, nil
		}
	}
	return nil, fmt.Errorf("transaction for sale %s: %w", saleID, apperrors.ErrNotFound)
}

// ListTransactions orders by date, then creation time, then id, all descending.
func (s *Store) ListTransactions(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
		}
		cursor = &c
	}

	s.mu.RLock()
	rows := make([]domain.Transaction, 0)
	for _, txn := range s.transactions {
		if txn.CompanyID != companyID {
			continue
		}
		if cursor != nil && !cursor.Before(txn.Date, txn.CreatedAt, txn.TransactionID) {
			continue
		}
		rows = append(rows, txn)
	}
	s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.TransactionID > b.TransactionID
	})

	if limit <= 0 || len(rows) <= limit {
		return rows, nil, nil
	}
	rows = rows[:limit]
	last := rows[len(rows)-1]
	token := pagination.EncodeToken(pagination.Cursor{Date: last.Date, CreatedAt: last.CreatedAt, ID: last.TransactionID})
	return rows, &token, nil
}

func (s *Store) ListCompletedByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]domain.Transaction, 0)
	for _, txn := range s.transactions {
		if txn.AccountID == accountID && txn.IsCompleted() {
			rows = append(rows, txn)
		}
	}
	return rows, nil
}
