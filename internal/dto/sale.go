package dto

import (
	"time"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SaleRequest is the payload the sales subsystem sends when one of its sales changes.
type SaleRequest struct {
	ID           string            `json:"id" binding:"required"`
	Date         time.Time         `json:"date" binding:"required"`
	Total        decimal.Decimal   `json:"total" binding:"required"`
	Status       domain.SaleStatus `json:"status" binding:"required"`
	CustomerName string            `json:"customerName"`
	AccountID    string            `json:"accountId"`
	CategoryID   string            `json:"categoryId"`
}

// ToSale converts the request into the domain sale for a company.
func (r SaleRequest) ToSale(companyID string) domain.Sale {
	return domain.Sale{
		SaleID:       r.ID,
		CompanyID:    companyID,
		Date:         r.Date,
		Total:        r.Total,
		Status:       r.Status,
		CustomerName: r.CustomerName,
		AccountID:    r.AccountID,
		CategoryID:   r.CategoryID,
	}
}

// SaleMirrorResponse reports the ledger side of a sale mutation. Transaction is nil
// when the sale does not qualify for mirroring or the mirror failed; the sale itself
// is never rejected because of the ledger.
type SaleMirrorResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	Warning     string               `json:"warning,omitempty"`
}
