package dto

import (
	"time"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRecurringScheduleRequest defines the data needed to create a recurring schedule.
type CreateRecurringScheduleRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Frequency   domain.Frequency       `json:"frequency" binding:"required,oneof=daily weekly monthly yearly"`
	Interval    int                    `json:"interval" binding:"omitempty,min=1,max=1000"` // Defaults to 1
	StartDate   time.Time              `json:"startDate" binding:"required"`
	EndDate     *time.Time             `json:"endDate"`
	Amount      decimal.Decimal        `json:"amount" binding:"required"`
	Type        domain.TransactionType `json:"type" binding:"required,oneof=income expense"`
	Category    string                 `json:"category"`
	Account     string                 `json:"account" binding:"required"`
	DayOfMonth  *int                   `json:"dayOfMonth" binding:"omitempty,min=1,max=31"`
	DayOfWeek   *int                   `json:"dayOfWeek" binding:"omitempty,min=0,max=6"`
	MonthOfYear *int                   `json:"monthOfYear" binding:"omitempty,min=1,max=12"`
	Status      domain.ScheduleStatus  `json:"status" binding:"omitempty,oneof=active paused completed"`
	Notes       string                 `json:"notes"`
}

// UpdateRecurringScheduleRequest defines the fields that may change on a schedule.
type UpdateRecurringScheduleRequest struct {
	Name        *string                 `json:"name"`
	Frequency   *domain.Frequency       `json:"frequency" binding:"omitempty,oneof=daily weekly monthly yearly"`
	Interval    *int                    `json:"interval" binding:"omitempty,min=1,max=1000"`
	StartDate   *time.Time              `json:"startDate"`
	EndDate     *time.Time              `json:"endDate"`
	Amount      *decimal.Decimal        `json:"amount"`
	Type        *domain.TransactionType `json:"type" binding:"omitempty,oneof=income expense"`
	Category    *string                 `json:"category"`
	Account     *string                 `json:"account"`
	DayOfMonth  *int                    `json:"dayOfMonth" binding:"omitempty,min=1,max=31"`
	DayOfWeek   *int                    `json:"dayOfWeek" binding:"omitempty,min=0,max=6"`
	MonthOfYear *int                    `json:"monthOfYear" binding:"omitempty,min=1,max=12"`
	Status      *domain.ScheduleStatus  `json:"status" binding:"omitempty,oneof=active paused completed"`
	Notes       *string                 `json:"notes"`
}

// ListSchedulesParams defines query parameters for listing schedules.
type ListSchedulesParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// RecurringScheduleResponse defines the data returned for a recurring schedule.
type RecurringScheduleResponse struct {
	ScheduleID    string                 `json:"scheduleID"`
	CompanyID     string                 `json:"companyID"`
	Name          string                 `json:"name"`
	Frequency     domain.Frequency       `json:"frequency"`
	Interval      int                    `json:"interval"`
	StartDate     time.Time              `json:"startDate"`
	EndDate       *time.Time             `json:"endDate,omitempty"`
	Amount        decimal.Decimal        `json:"amount"`
	Type          domain.TransactionType `json:"type"`
	CategoryID    string                 `json:"categoryID"`
	AccountID     string                 `json:"accountID"`
	DayOfMonth    *int                   `json:"dayOfMonth,omitempty"`
	DayOfWeek     *int                   `json:"dayOfWeek,omitempty"`
	MonthOfYear   *int                   `json:"monthOfYear,omitempty"`
	NextDueDate   time.Time              `json:"nextDueDate"`
	Status        domain.ScheduleStatus  `json:"status"`
	Notes         string                 `json:"notes"`
	CreatedAt     time.Time              `json:"createdAt"`
	LastUpdatedAt time.Time              `json:"lastUpdatedAt"`
}

func ToRecurringScheduleResponse(s *domain.RecurringSchedule) RecurringScheduleResponse {
	return RecurringScheduleResponse{
		ScheduleID:    s.ScheduleID,
		CompanyID:     s.CompanyID,
		Name:          s.Name,
		Frequency:     s.Frequency,
		Interval:      s.Interval,
		StartDate:     s.StartDate,
		EndDate:       s.EndDate,
		Amount:        s.Amount,
		Type:          s.TransactionType,
		CategoryID:    s.CategoryID,
		AccountID:     s.AccountID,
		DayOfMonth:    s.DayOfMonth,
		DayOfWeek:     s.DayOfWeek,
		MonthOfYear:   s.MonthOfYear,
		NextDueDate:   s.NextDueDate,
		Status:        s.Status,
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt,
		LastUpdatedAt: s.LastUpdatedAt,
	}
}

// ListSchedulesResponse wraps a page of schedules.
type ListSchedulesResponse struct {
	Schedules []RecurringScheduleResponse `json:"schedules"`
}
