package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/fin_consistency_engine/internal/core/ports/services"
	"github.com/SscSPs/fin_consistency_engine/internal/dto"
	"github.com/gin-gonic/gin"
)

type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
}

func newBudgetHandler(bs portssvc.BudgetSvcFacade) *budgetHandler {
	return &budgetHandler{budgetService: bs}
}

func registerBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade) {
	h := newBudgetHandler(budgetService)

	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.createBudget)
		budgets.GET("", h.listBudgets)
		budgets.GET("/:budgetID", h.getBudget)
		budgets.PUT("/:budgetID", h.updateBudget)
		budgets.DELETE("/:budgetID", h.deleteBudget)
		budgets.PUT("/:budgetID/items", h.upsertItem)
		budgets.DELETE("/:budgetID/items/:itemID", h.removeItem)
	}
}

// createBudget godoc
// @Summary Create a budget
// @Description Creates a budget with its items. When items are given their amounts must add up to totalBudget within 0.01.
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   budget body dto.CreateBudgetRequest true "Budget details"
// @Success 201 {object} dto.BudgetResponse
// @Failure 400 {object} map[string]string "Invalid input or totals mismatch"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create budget"
// @Security BearerAuth
// @Router /companies/{companyID}/budgets [post]
func (h *budgetHandler) createBudget(c *gin.Context) {
	companyID, userID, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.CreateBudgetRequest
	if !bindJSON(c, &req) {
		return
	}
	budget, err := h.budgetService.CreateBudget(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to create budget")
		return
	}
	c.JSON(http.StatusCreated, dto.ToBudgetResponse(budget))
}

// getBudget godoc
// @Summary Get a budget with its items
// @Tags budgets
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   budgetID path string true "Budget ID"
// @Success 200 {object} dto.BudgetResponse
// @Failure 404 {object} map[string]string "Budget not found"
// @Security BearerAuth
// @Router /companies/{companyID}/budgets/{budgetID} [get]
func (h *budgetHandler) getBudget(c *gin.Context) {
	companyID, _, ok := requestScope(c)
	if !ok {
		return
	}
	budget, err := h.budgetService.GetBudgetByID(c.Request.Context(), companyID, c.Param("budgetID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// listBudgets godoc
// @Summary List budgets
// @Tags budgets
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListBudgetsResponse
// @Security BearerAuth
// @Router /companies/{companyID}/budgets [get]
func (h *budgetHandler) listBudgets(c *gin.Context) {
	companyID, _, ok := requestScope(c)
	if !ok {
		return
	}
	var params dto.ListBudgetsParams
	if !bindQuery(c, &params) {
		return
	}
	budgets, err := h.budgetService.ListBudgets(c.Request.Context(), companyID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list budgets")
		return
	}
	resp := dto.ListBudgetsResponse{Budgets: make([]dto.BudgetResponse, len(budgets))}
	for i := range budgets {
		resp.Budgets[i] = dto.ToBudgetResponse(&budgets[i])
	}
	c.JSON(http.StatusOK, resp)
}

// updateBudget godoc
// @Summary Update a budget
// @Description Updates header fields and upserts the given items, then resynchronises totals.
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   budgetID path string true "Budget ID"
// @Param   budget body dto.UpdateBudgetRequest true "Fields to change"
// @Success 200 {object} dto.BudgetResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Budget not found"
// @Security BearerAuth
// @Router /companies/{companyID}/budgets/{budgetID} [put]
func (h *budgetHandler) updateBudget(c *gin.Context) {
	companyID, userID, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.UpdateBudgetRequest
	if !bindJSON(c, &req) {
		return
	}
	budget, err := h.budgetService.UpdateBudget(c.Request.Context(), companyID, c.Param("budgetID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// deleteBudget godoc
// @Summary Delete a budget and its items
// @Tags budgets
// @Param   companyID path string true "Company ID"
// @Param   budgetID path string true "Budget ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Budget not found"
// @Security BearerAuth
// @Router /companies/{companyID}/budgets/{budgetID} [delete]
func (h *budgetHandler) deleteBudget(c *gin.Context) {
	companyID, userID, ok := requestScope(c)
	if !ok {
		return
	}
	if err := h.budgetService.DeleteBudget(c.Request.Context(), companyID, c.Param("budgetID"), userID); err != nil {
		respondError(c, err, "Failed to delete budget")
		return
	}
	c.Status(http.StatusNoContent)
}

// upsertItem godoc
// @Summary Add or update a budget item
// @Description An item with a known id is updated in place, otherwise it is added. Totals are resynchronised.
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   budgetID path string true "Budget ID"
// @Param   item body dto.BudgetItemRequest true "Item"
// @Success 200 {object} dto.BudgetResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Budget not found"
// @Security BearerAuth
// @Router /companies/{companyID}/budgets/{budgetID}/items [put]
func (h *budgetHandler) upsertItem(c *gin.Context) {
	companyID, userID, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.BudgetItemRequest
	if !bindJSON(c, &req) {
		return
	}
	budget, err := h.budgetService.UpsertItem(c.Request.Context(), companyID, c.Param("budgetID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to save budget item")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// removeItem godoc
// @Summary Remove a budget item
// @Tags budgets
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   budgetID path string true "Budget ID"
// @Param   itemID path string true "Item ID"
// @Success 200 {object} dto.BudgetResponse
// @Failure 404 {object} map[string]string "Budget or item not found"
// @Security BearerAuth
// @Router /companies/{companyID}/budgets/{budgetID}/items/{itemID} [delete]
func (h *budgetHandler) removeItem(c *gin.Context) {
	companyID, userID, ok := requestScope(c)
	if !ok {
		return
	}
	budget, err := h.budgetService.RemoveItem(c.Request.Context(), companyID, c.Param("budgetID"), c.Param("itemID"), userID)
	if err != nil {
		respondError(c, err, "Failed to remove budget item")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}
