package services

import (
	"context"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
)

// SaleMirrorSvc keeps a ledger transaction in step with a sale owned by the sales subsystem.
// Returned errors are informational: they have already been logged as warnings and
// must never cause the originating sale mutation to fail.
type SaleMirrorSvc interface {
	// CreateTransactionFromSale returns nil when the sale status does not qualify for mirroring.
	CreateTransactionFromSale(ctx context.Context, sale domain.Sale, userID string) (*domain.Transaction, error)
	UpdateTransactionFromSale(ctx context.Context, sale domain.Sale, userID string) (*domain.Transaction, error)
	DeleteTransactionFromSale(ctx context.Context, saleID string, companyID string, userID string) error
}
