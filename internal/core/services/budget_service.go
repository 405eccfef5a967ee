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
	"github.com/shopspring/decimal"
)

// budgetService owns budgets and keeps their totals equal to the sums over their items.
type budgetService struct {
	BaseService
	budgetRepo portsrepo.BudgetRepositoryFacade
}

// NewBudgetService creates the budget service and aggregator.
func NewBudgetService(budgetRepo portsrepo.BudgetRepositoryFacade, options ...ServiceOption) portssvc.BudgetSvcFacade {
	return &budgetService{
		BaseService: newBaseService(options...),
		budgetRepo:  budgetRepo,
	}
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

func (s *budgetService) CreateBudget(ctx context.Context, companyID string, req dto.CreateBudgetRequest, userID string) (*domain.Budget, error) {
	now := s.Now()
	audit := domain.NewAuditFields(userID, now)
	budget := domain.Budget{
		BudgetID:    uuid.NewString(),
		CompanyID:   companyID,
		Name:        strings.TrimSpace(req.Name),
		BudgetType:  req.Type,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      req.Status,
		TotalBudget: req.TotalBudget,
		TotalSpent:  decimal.Zero,
		AuditFields: audit,
	}
	if err := validateBudgetHeader(&budget); err != nil {
		return nil, err
	}
	if !budget.TotalBudget.IsPositive() {
		return nil, fmt.Errorf("total budget must be positive, got %s: %w", budget.TotalBudget.String(), apperrors.ErrValidation)
	}

	items := make([]domain.BudgetItem, 0, len(req.Items))
	for i, itemReq := range req.Items {
		item, err := newBudgetItem(budget.BudgetID, itemReq, audit)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
	}

	// The supplied total is checked against the items only here; afterwards the items are authoritative.
	if len(items) > 0 && !domain.WithinTolerance(items, budget.TotalBudget) {
		sum, _ := domain.SumItems(items)
		return nil, fmt.Errorf("items sum to %s but total budget is %s: %w",
			sum.String(), budget.TotalBudget.String(), apperrors.ErrValidation)
	}

	if err := s.budgetRepo.SaveBudget(ctx, budget); err != nil {
		s.LogError(ctx, err, "Failed to save budget", slog.String("budget_id", budget.BudgetID))
		return nil, err
	}
	for _, item := range items {
		if err := s.budgetRepo.SaveItem(ctx, item); err != nil {
			s.LogError(ctx, err, "Failed to save budget item",
				slog.String("budget_id", budget.BudgetID),
				slog.String("item_id", item.ItemID))
			s.discardPartialBudget(ctx, budget.BudgetID, userID)
			return nil, err
		}
	}

	s.LogInfo(ctx, "Budget created successfully",
		slog.String("budget_id", budget.BudgetID),
		slog.Int("items", len(items)))

	if len(items) == 0 {
		budget.Items = []domain.BudgetItem{}
		return &budget, nil
	}
	return s.ResyncTotals(ctx, budget.BudgetID, userID)
}

func (s *budgetService) GetBudgetByID(ctx context.Context, companyID string, budgetID string) (*domain.Budget, error) {
	budget, err := s.findBudgetHeader(ctx, companyID, budgetID)
	if err != nil {
		return nil, err
	}
	items, err := s.budgetRepo.ListItems(ctx, budgetID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budget items", slog.String("budget_id", budgetID))
		return nil, err
	}
	budget.Items = items
	return budget, nil
}

func (s *budgetService) ListBudgets(ctx context.Context, companyID string, limit int, offset int) ([]domain.Budget, error) {
	limit, offset = normalizePage(limit, offset)
	budgets, err := s.budgetRepo.ListBudgets(ctx, companyID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budgets", slog.String("company_id", companyID))
		return nil, err
	}
	return budgets, nil
}

func (s *budgetService) UpdateBudget(ctx context.Context, companyID string, budgetID string, req dto.UpdateBudgetRequest, userID string) (*domain.Budget, error) {
	budget, err := s.findBudgetHeader(ctx, companyID, budgetID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		budget.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		budget.BudgetType = *req.Type
	}
	if req.StartDate != nil {
		budget.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		budget.EndDate = *req.EndDate
	}
	if req.Status != nil {
		budget.Status = *req.Status
	}
	if err := validateBudgetHeader(budget); err != nil {
		return nil, err
	}
	budget.Touch(userID, s.Now())

	if err := s.budgetRepo.UpdateBudget(ctx, *budget); err != nil {
		s.LogError(ctx, err, "Failed to update budget", slog.String("budget_id", budgetID))
		return nil, err
	}

	if len(req.Items) == 0 {
		return s.GetBudgetByID(ctx, companyID, budgetID)
	}

	existing, err := s.itemsByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	for i, itemReq := range req.Items {
		item, err := s.upsert(ctx, budgetID, existing, itemReq, userID)
		if err != nil {
			// Items already written stay written; keep the totals in step with them.
			if _, resyncErr := s.ResyncTotals(ctx, budgetID, userID); resyncErr != nil {
				s.LogError(ctx, resyncErr, "Failed to resync budget totals", slog.String("budget_id", budgetID))
			}
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		existing[item.ItemID] = item
	}

	s.LogInfo(ctx, "Budget updated successfully",
		slog.String("budget_id", budgetID),
		slog.Int("items", len(req.Items)))
	return s.ResyncTotals(ctx, budgetID, userID)
}

func (s *budgetService) DeleteBudget(ctx context.Context, companyID string, budgetID string, userID string) error {
	if _, err := s.findBudgetHeader(ctx, companyID, budgetID); err != nil {
		return err
	}
	if err := s.budgetRepo.DeleteBudget(ctx, budgetID); err != nil {
		s.LogError(ctx, err, "Failed to delete budget", slog.String("budget_id", budgetID))
		return err
	}
	s.LogInfo(ctx, "Budget deleted successfully",
		slog.String("budget_id", budgetID),
		slog.String("user_id", userID))
	return nil
}

func (s *budgetService) UpsertItem(ctx context.Context, companyID string, budgetID string, req dto.BudgetItemRequest, userID string) (*domain.Budget, error) {
	if _, err := s.findBudgetHeader(ctx, companyID, budgetID); err != nil {
		return nil, err
	}
	existing, err := s.itemsByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if _, err := s.upsert(ctx, budgetID, existing, req, userID); err != nil {
		return nil, err
	}
	return s.ResyncTotals(ctx, budgetID, userID)
}

func (s *budgetService) RemoveItem(ctx context.Context, companyID string, budgetID string, itemID string, userID string) (*domain.Budget, error) {
	if _, err := s.findBudgetHeader(ctx, companyID, budgetID); err != nil {
		return nil, err
	}
	existing, err := s.itemsByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if _, ok := existing[itemID]; !ok {
		return nil, fmt.Errorf("budget item %s: %w", itemID, apperrors.ErrNotFound)
	}
	if err := s.budgetRepo.DeleteItem(ctx, budgetID, itemID); err != nil {
		s.LogError(ctx, err, "Failed to delete budget item",
			slog.String("budget_id", budgetID),
			slog.String("item_id", itemID))
		return nil, err
	}
	s.LogInfo(ctx, "Budget item removed",
		slog.String("budget_id", budgetID),
		slog.String("item_id", itemID))
	return s.ResyncTotals(ctx, budgetID, userID)
}

// discardPartialBudget removes a budget whose items were only partly written.
// If the removal fails the totals are resynced to the items that did land.
func (s *budgetService) discardPartialBudget(ctx context.Context, budgetID string, userID string) {
	err := s.budgetRepo.DeleteBudget(ctx, budgetID)
	if err == nil {
		return
	}
	s.LogError(ctx, err, "Failed to discard partially created budget", slog.String("budget_id", budgetID))
	if _, resyncErr := s.ResyncTotals(ctx, budgetID, userID); resyncErr != nil {
		s.LogError(ctx, resyncErr, "Failed to resync budget totals", slog.String("budget_id", budgetID))
	}
}

// ResyncTotals reloads every item and stores their sums on the budget.
func (s *budgetService) ResyncTotals(ctx context.Context, budgetID string, userID string) (*domain.Budget, error) {
	items, err := s.budgetRepo.ListItems(ctx, budgetID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budget items for resync", slog.String("budget_id", budgetID))
		return nil, err
	}
	total, spent := domain.SumItems(items)

	now := s.Now()
	if err := s.budgetRepo.UpdateBudgetTotals(ctx, budgetID, total, spent, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to store budget totals", slog.String("budget_id", budgetID))
		return nil, err
	}

	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	budget.Items = items

	s.LogDebug(ctx, "Budget totals resynced",
		slog.String("budget_id", budgetID),
		slog.String("total_budget", total.String()),
		slog.String("total_spent", spent.String()))
	return budget, nil
}

// upsert updates the item whose id matches req.ID in place, or inserts a new item.
func (s *budgetService) upsert(ctx context.Context, budgetID string, existing map[string]domain.BudgetItem, req dto.BudgetItemRequest, userID string) (domain.BudgetItem, error) {
	now := s.Now()

	if req.ID != nil {
		if current, ok := existing[*req.ID]; ok {
			updated := current
			updated.Name = strings.TrimSpace(req.Name)
			updated.Amount = req.Amount
			if req.Notes != nil {
				updated.Notes = *req.Notes
			}
			if req.Spent != nil {
				updated.Spent = *req.Spent
			}
			switch {
			case req.ClearsCategory():
				updated.CategoryID = nil
			case req.CategoryID != nil:
				category := strings.TrimSpace(*req.CategoryID)
				updated.CategoryID = &category
			}
			updated.Touch(userID, now)

			if err := validateBudgetItem(&updated); err != nil {
				return domain.BudgetItem{}, err
			}
			if err := s.budgetRepo.UpdateItem(ctx, updated); err != nil {
				s.LogError(ctx, err, "Failed to update budget item",
					slog.String("budget_id", budgetID),
					slog.String("item_id", updated.ItemID))
				return domain.BudgetItem{}, err
			}
			return updated, nil
		}
	}

	item, err := newBudgetItem(budgetID, req, domain.NewAuditFields(userID, now))
	if err != nil {
		return domain.BudgetItem{}, err
	}
	if err := s.budgetRepo.SaveItem(ctx, item); err != nil {
		s.LogError(ctx, err, "Failed to save budget item",
			slog.String("budget_id", budgetID),
			slog.String("item_id", item.ItemID))
		return domain.BudgetItem{}, err
	}
	return item, nil
}

func (s *budgetService) findBudgetHeader(ctx context.Context, companyID string, budgetID string) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find budget", slog.String("budget_id", budgetID))
		}
		return nil, err
	}
	if budget.CompanyID != companyID {
		return nil, fmt.Errorf("budget %s: %w", budgetID, apperrors.ErrNotFound)
	}
	return budget, nil
}

func (s *budgetService) itemsByID(ctx context.Context, budgetID string) (map[string]domain.BudgetItem, error) {
	items, err := s.budgetRepo.ListItems(ctx, budgetID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budget items", slog.String("budget_id", budgetID))
		return nil, err
	}
	byID := make(map[string]domain.BudgetItem, len(items))
	for _, item := range items {
		byID[item.ItemID] = item
	}
	return byID, nil
}

// newBudgetItem builds an item for insertion. Any id on the request is ignored.
func newBudgetItem(budgetID string, req dto.BudgetItemRequest, audit domain.AuditFields) (domain.BudgetItem, error) {
	item := domain.BudgetItem{
		ItemID:      uuid.NewString(),
		BudgetID:    budgetID,
		Name:        strings.TrimSpace(req.Name),
		Amount:      req.Amount,
		Spent:       decimal.Zero,
		AuditFields: audit,
	}
	if req.Spent != nil {
		item.Spent = *req.Spent
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}
	if req.CategoryID != nil && !req.ClearsCategory() {
		category := strings.TrimSpace(*req.CategoryID)
		item.CategoryID = &category
	}
	if err := validateBudgetItem(&item); err != nil {
		return domain.BudgetItem{}, err
	}
	return item, nil
}

func validateBudgetHeader(b *domain.Budget) error {
	switch {
	case b.Name == "":
		return fmt.Errorf("budget name is required: %w", apperrors.ErrValidation)
	case !b.BudgetType.IsValid():
		return fmt.Errorf("unknown budget type '%s': %w", b.BudgetType, apperrors.ErrValidation)
	case !b.Status.IsValid():
		return fmt.Errorf("unknown budget status '%s': %w", b.Status, apperrors.ErrValidation)
	case b.StartDate.IsZero() || b.EndDate.IsZero():
		return fmt.Errorf("start and end date are required: %w", apperrors.ErrValidation)
	case b.EndDate.Before(b.StartDate):
		return fmt.Errorf("end date is before start date: %w", apperrors.ErrValidation)
	}
	if err := domain.CheckMoney("total budget", b.TotalBudget); err != nil {
		return fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
	}
	return nil
}

func validateBudgetItem(item *domain.BudgetItem) error {
	switch {
	case item.Name == "":
		return fmt.Errorf("item name is required: %w", apperrors.ErrValidation)
	case !item.Amount.IsPositive():
		return fmt.Errorf("item amount must be positive, got %s: %w", item.Amount.String(), apperrors.ErrValidation)
	case item.Spent.IsNegative():
		return fmt.Errorf("item spent must not be negative, got %s: %w", item.Spent.String(), apperrors.ErrValidation)
	}
	for field, value := range map[string]decimal.Decimal{"item amount": item.Amount, "item spent": item.Spent} {
		if err := domain.CheckMoney(field, value); err != nil {
			return fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
		}
	}
	return nil
}
