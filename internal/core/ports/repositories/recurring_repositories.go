package repositories

import (
	"context"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
)

// RecurringScheduleReader defines read operations for recurring schedules
type RecurringScheduleReader interface {
	// FindScheduleByID retrieves a specific schedule by its unique identifier.
	FindScheduleByID(ctx context.Context, scheduleID string) (*domain.RecurringSchedule, error)

	// ListSchedules retrieves a paginated list of schedules for a company ordered by next due date.
	ListSchedules(ctx context.Context, companyID string, limit int, offset int) ([]domain.RecurringSchedule, error)
}

// RecurringScheduleWriter defines write operations for recurring schedules
type RecurringScheduleWriter interface {
	// SaveSchedule persists a new schedule.
	SaveSchedule(ctx context.Context, schedule domain.RecurringSchedule) error

	// UpdateSchedule replaces the mutable fields of an existing schedule.
	UpdateSchedule(ctx context.Context, schedule domain.RecurringSchedule) error

	// DeleteSchedule removes a schedule.
	DeleteSchedule(ctx context.Context, scheduleID string) error
}

// RecurringScheduleRepositoryFacade combines all schedule-related repository interfaces
type RecurringScheduleRepositoryFacade interface {
	RecurringScheduleReader
	RecurringScheduleWriter
}
