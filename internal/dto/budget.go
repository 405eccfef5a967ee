package dto

import (
	"strings"
	"time"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CategoryNone explicitly disconnects a budget item from its category.
const CategoryNone = "none"

// BudgetItemRequest is one item in a budget create or update payload.
// An ID that matches an existing item updates it in place; otherwise a new item is inserted.
type BudgetItemRequest struct {
	ID         *string          `json:"id"`
	Name       string           `json:"name" binding:"required"`
	Amount     decimal.Decimal  `json:"amount" binding:"required"` // Must be > 0, checked by the service
	CategoryID *string          `json:"categoryId"`                // Omitted leaves the link, "" or "none" removes it
	Notes      *string          `json:"notes"`
	Spent      *decimal.Decimal `json:"spent"`
}

// ClearsCategory reports whether the request explicitly removes the category link.
func (r BudgetItemRequest) ClearsCategory() bool {
	if r.CategoryID == nil {
		return false
	}
	v := strings.TrimSpace(*r.CategoryID)
	return v == "" || strings.EqualFold(v, CategoryNone)
}

// CreateBudgetRequest defines the data needed to create a budget.
type CreateBudgetRequest struct {
	Name        string              `json:"name" binding:"required"`
	Type        domain.BudgetType   `json:"type" binding:"required,oneof=annual monthly quarterly project"`
	StartDate   time.Time           `json:"startDate" binding:"required"`
	EndDate     time.Time           `json:"endDate" binding:"required"`
	Status      domain.BudgetStatus `json:"status" binding:"required,oneof=active draft archived"`
	TotalBudget decimal.Decimal     `json:"totalBudget" binding:"required"`
	Items       []BudgetItemRequest `json:"items" binding:"dive"`
}

// UpdateBudgetRequest defines the header fields and items that may change on a budget.
type UpdateBudgetRequest struct {
	Name      *string              `json:"name"`
	Type      *domain.BudgetType   `json:"type" binding:"omitempty,oneof=annual monthly quarterly project"`
	StartDate *time.Time           `json:"startDate"`
	EndDate   *time.Time           `json:"endDate"`
	Status    *domain.BudgetStatus `json:"status" binding:"omitempty,oneof=active draft archived"`
	Items     []BudgetItemRequest  `json:"items" binding:"dive"`
}

// ListBudgetsParams defines query parameters for listing budgets.
type ListBudgetsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

type BudgetItemResponse struct {
	ItemID     string          `json:"itemID"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Spent      decimal.Decimal `json:"spent"`
	CategoryID *string         `json:"categoryID,omitempty"`
	Notes      string          `json:"notes"`
}

// BudgetResponse defines the data returned for a budget. Items is empty on list calls.
type BudgetResponse struct {
	BudgetID      string               `json:"budgetID"`
	CompanyID     string               `json:"companyID"`
	Name          string               `json:"name"`
	Type          domain.BudgetType    `json:"type"`
	StartDate     time.Time            `json:"startDate"`
	EndDate       time.Time            `json:"endDate"`
	Status        domain.BudgetStatus  `json:"status"`
	TotalBudget   decimal.Decimal      `json:"totalBudget"`
	TotalSpent    decimal.Decimal      `json:"totalSpent"`
	Items         []BudgetItemResponse `json:"items"`
	CreatedAt     time.Time            `json:"createdAt"`
	LastUpdatedAt time.Time            `json:"lastUpdatedAt"`
}

func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	items := make([]BudgetItemResponse, len(b.Items))
	for i, item := range b.Items {
		items[i] = BudgetItemResponse{
			ItemID:     item.ItemID,
			Name:       item.Name,
			Amount:     item.Amount,
			Spent:      item.Spent,
			CategoryID: item.CategoryID,
			Notes:      item.Notes,
		}
	}
	return BudgetResponse{
		BudgetID:      b.BudgetID,
		CompanyID:     b.CompanyID,
		Name:          b.Name,
		Type:          b.BudgetType,
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		Status:        b.Status,
		TotalBudget:   b.TotalBudget,
		TotalSpent:    b.TotalSpent,
		Items:         items,
		CreatedAt:     b.CreatedAt,
		LastUpdatedAt: b.LastUpdatedAt,
	}
}

type ListBudgetsResponse struct {
	Budgets []BudgetResponse `json:"budgets"`
}
