package dto

import (
	"time"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record a ledger transaction.
type CreateTransactionRequest struct {
	Date        time.Time                `json:"date" binding:"required"`
	Description string                   `json:"description" binding:"required"`
	Amount      decimal.Decimal          `json:"amount" binding:"required"` // Must be > 0, checked by the service
	Type        domain.TransactionType   `json:"type" binding:"required,oneof=income expense"`
	Category    string                   `json:"category"`
	Account     string                   `json:"account" binding:"required"`
	Status      domain.TransactionStatus `json:"status" binding:"required,oneof=pending completed failed"`
	Recurring   bool                     `json:"recurring"`
	Notes       string                   `json:"notes"`
}

// UpdateTransactionRequest defines the fields that may change on a transaction.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateTransactionRequest struct {
	Date        *time.Time                `json:"date"`
	Description *string                   `json:"description"`
	Amount      *decimal.Decimal          `json:"amount"`
	Type        *domain.TransactionType   `json:"type" binding:"omitempty,oneof=income expense"`
	Category    *string                   `json:"category"`
	Account     *string                   `json:"account"`
	Status      *domain.TransactionStatus `json:"status" binding:"omitempty,oneof=pending completed failed"`
	Recurring   *bool                     `json:"recurring"`
	Notes       *string                   `json:"notes"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string                   `json:"transactionID"`
	CompanyID     string                   `json:"companyID"`
	Date          time.Time                `json:"date"`
	Description   string                   `json:"description"`
	Amount        decimal.Decimal          `json:"amount"`
	Type          domain.TransactionType   `json:"type"`
	Status        domain.TransactionStatus `json:"status"`
	AccountID     string                   `json:"accountID"`
	CategoryID    string                   `json:"categoryID"`
	Recurring     bool                     `json:"recurring"`
	Notes         string                   `json:"notes"`
	SaleID        *string                  `json:"saleID,omitempty"`
	CreatedAt     time.Time                `json:"createdAt"`
	CreatedBy     string                   `json:"createdBy"`
	LastUpdatedAt time.Time                `json:"lastUpdatedAt"`
	LastUpdatedBy string                   `json:"lastUpdatedBy"`
}

// ToTransactionResponse converts a domain.Transaction to its DTO
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		CompanyID:     t.CompanyID,
		Date:          t.Date,
		Description:   t.Description,
		Amount:        t.Amount,
		Type:          t.TransactionType,
		Status:        t.Status,
		AccountID:     t.AccountID,
		CategoryID:    t.CategoryID,
		Recurring:     t.Recurring,
		Notes:         t.Notes,
		SaleID:        t.SaleID,
		CreatedAt:     t.CreatedAt,
		CreatedBy:     t.CreatedBy,
		LastUpdatedAt: t.LastUpdatedAt,
		LastUpdatedBy: t.LastUpdatedBy,
	}
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=200"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
