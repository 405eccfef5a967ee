package services

import (
	"context"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	"github.com/SscSPs/fin_consistency_engine/internal/dto"
)

// RecurringReaderSvc defines read operations for recurring schedules
type RecurringReaderSvc interface {
	GetScheduleByID(ctx context.Context, companyID string, scheduleID string) (*domain.RecurringSchedule, error)
	ListSchedules(ctx context.Context, companyID string, limit int, offset int) ([]domain.RecurringSchedule, error)
}

// RecurringWriterSvc defines write operations for recurring schedules
type RecurringWriterSvc interface {
	CreateSchedule(ctx context.Context, companyID string, req dto.CreateRecurringScheduleRequest, userID string) (*domain.RecurringSchedule, error)

	// UpdateSchedule recomputes nextDueDate only when a date-shape field changed.
	UpdateSchedule(ctx context.Context, companyID string, scheduleID string, req dto.UpdateRecurringScheduleRequest, userID string) (*domain.RecurringSchedule, error)

	DeleteSchedule(ctx context.Context, companyID string, scheduleID string, userID string) error

	// AdvanceSchedule moves nextDueDate past the occurrence an external scheduler just materialized.
	AdvanceSchedule(ctx context.Context, companyID string, scheduleID string, userID string) (*domain.RecurringSchedule, error)
}

// RecurringSvcFacade combines all schedule-related service interfaces
type RecurringSvcFacade interface {
	RecurringReaderSvc
	RecurringWriterSvc
}
