package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/fin_consistency_engine/internal/core/ports/services"
	"github.com/SscSPs/fin_consistency_engine/internal/dto"
	"github.com/gin-gonic/gin"
)

type recurringHandler struct {
	recurringService portssvc.RecurringSvcFacade
}

func newRecurringHandler(rs portssvc.RecurringSvcFacade) *recurringHandler {
	return &recurringHandler{recurringService: rs}
}

func registerRecurringRoutes(rg *gin.RouterGroup, recurringService portssvc.RecurringSvcFacade) {
	h := newRecurringHandler(recurringService)

	schedules := rg.Group("/recurring")
	{
		schedules.POST("", h.createSchedule)
		schedules.GET("", h.listSchedules)
		schedules.GET("/:scheduleID", h.getSchedule)
		schedules.PUT("/:scheduleID", h.updateSchedule)
		schedules.DELETE("/:scheduleID", h.deleteSchedule)
		schedules.POST("/:scheduleID/advance", h.advanceSchedule)
	}
}

// createSchedule godoc
// @Summary Create a recurring schedule
// @Description Creates a schedule; nextDueDate is computed from the start date and pattern.
// @Tags recurring
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   schedule body dto.CreateRecurringScheduleRequest true "Schedule details"
// @Success 201 {object} dto.RecurringScheduleResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to create schedule"
// @Security BearerAuth
// @Router /companies/{companyID}/recurring [post]
func (h *recurringHandler) createSchedule(c *gin.Context) {
	companyID, userID, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.CreateRecurringScheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	schedule, err := h.recurringService.CreateSchedule(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to create schedule")
		return
	}
	c.JSON(http.StatusCreated, dto.ToRecurringScheduleResponse(schedule))
}

// getSchedule godoc
// @Summary Get a recurring schedule
// @Tags recurring
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   scheduleID path string true "Schedule ID"
// @Success 200 {object} dto.RecurringScheduleResponse
// @Failure 404 {object} map[string]string "Schedule not found"
// @Security BearerAuth
// @Router /companies/{companyID}/recurring/{scheduleID} [get]
func (h *recurringHandler) getSchedule(c *gin.Context) {
	companyID, _, ok := requestScope(c)
	if !ok {
		return
	}
	schedule, err := h.recurringService.GetScheduleByID(c.Request.Context(), companyID, c.Param("scheduleID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve schedule")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecurringScheduleResponse(schedule))
}

// listSchedules godoc
// @Summary List recurring schedules by next due date
// @Tags recurring
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListSchedulesResponse
// @Security BearerAuth
// @Router /companies/{companyID}/recurring [get]
func (h *recurringHandler) listSchedules(c *gin.Context) {
	companyID, _, ok := requestScope(c)
	if !ok {
		return
	}
	var params dto.ListSchedulesParams
	if !bindQuery(c, &params) {
		return
	}
	schedules, err := h.recurringService.ListSchedules(c.Request.Context(), companyID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list schedules")
		return
	}
	resp := dto.ListSchedulesResponse{Schedules: make([]dto.RecurringScheduleResponse, len(schedules))}
	for i := range schedules {
		resp.Schedules[i] = dto.ToRecurringScheduleResponse(&schedules[i])
	}
	c.JSON(http.StatusOK, resp)
}

// updateSchedule godoc
// @Summary Update a recurring schedule
// @Description Partial update; nextDueDate is recomputed only when the pattern changes.
// @Tags recurring
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   scheduleID path string true "Schedule ID"
// @Param   schedule body dto.UpdateRecurringScheduleRequest true "Fields to change"
// @Success 200 {object} dto.RecurringScheduleResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Schedule not found"
// @Security BearerAuth
// @Router /companies/{companyID}/recurring/{scheduleID} [put]
func (h *recurringHandler) updateSchedule(c *gin.Context) {
	companyID, userID, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.UpdateRecurringScheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	schedule, err := h.recurringService.UpdateSchedule(c.Request.Context(), companyID, c.Param("scheduleID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update schedule")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecurringScheduleResponse(schedule))
}

// deleteSchedule godoc
// @Summary Delete a recurring schedule
// @Tags recurring
// @Param   companyID path string true "Company ID"
// @Param   scheduleID path string true "Schedule ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Schedule not found"
// @Security BearerAuth
// @Router /companies/{companyID}/recurring/{scheduleID} [delete]
func (h *recurringHandler) deleteSchedule(c *gin.Context) {
	companyID, userID, ok := requestScope(c)
	if !ok {
		return
	}
	if err := h.recurringService.DeleteSchedule(c.Request.Context(), companyID, c.Param("scheduleID"), userID); err != nil {
		respondError(c, err, "Failed to delete schedule")
		return
	}
	c.Status(http.StatusNoContent)
}

// advanceSchedule godoc
// @Summary Advance a recurring schedule
// @Description Moves nextDueDate to the next occurrence after the later of the current due date and now.
// @Tags recurring
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   scheduleID path string true "Schedule ID"
// @Success 200 {object} dto.RecurringScheduleResponse
// @Failure 404 {object} map[string]string "Schedule not found"
// @Security BearerAuth
// @Router /companies/{companyID}/recurring/{scheduleID}/advance [post]
func (h *recurringHandler) advanceSchedule(c *gin.Context) {
	companyID, userID, ok := requestScope(c)
	if !ok {
		return
	}
	schedule, err := h.recurringService.AdvanceSchedule(c.Request.Context(), companyID, c.Param("scheduleID"), userID)
	if err != nil {
		respondError(c, err, "Failed to advance schedule")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecurringScheduleResponse(schedule))
}
