package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus is the lifecycle state reported by the sales subsystem.
type SaleStatus string

const (
	SaleCompleted SaleStatus = "completed"
	SalePending   SaleStatus = "pending"
	SaleCancelled SaleStatus = "cancelled"
	SaleRefunded  SaleStatus = "refunded"
)

// Sale is the subset of a sales record the ledger mirror needs.
type Sale struct {
	SaleID       string          `json:"saleID" validate:"required"`
	CompanyID    string          `json:"companyID" validate:"required"`
	Date         time.Time       `json:"date" validate:"required"`
	Total        decimal.Decimal `json:"total"`
	Status       SaleStatus      `json:"status" validate:"required"`
	CustomerName string          `json:"customerName"`
	AccountID    string          `json:"accountID,omitempty"`
	CategoryID   string          `json:"categoryID,omitempty"`
}

// Mirrorable reports whether a sale in this status gets a ledger transaction on creation.
func (s SaleStatus) Mirrorable() bool {
	return s == SaleCompleted || s == SalePending
}

// TransactionStatus maps the sale status onto the ledger status set.
func (s SaleStatus) TransactionStatus() TransactionStatus {
	switch s {
	case SaleCompleted:
		return StatusCompleted
	case SalePending:
		return StatusPending
	default:
		return StatusFailed
	}
}

// Description synthesizes the ledger description for a mirrored sale.
func (s *Sale) Description() string {
	if s.CustomerName == "" {
		return fmt.Sprintf("Sale %s", s.SaleID)
	}
	return fmt.Sprintf("Sale %s - %s", s.SaleID, s.CustomerName)
}
