package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/fin_consistency_engine/internal/apperrors"
	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/fin_consistency_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fin_consistency_engine/internal/core/ports/services"
	"github.com/SscSPs/fin_consistency_engine/internal/dto"
	"github.com/SscSPs/fin_consistency_engine/internal/utils/recurrence"
	"github.com/google/uuid"
)

type recurringService struct {
	BaseService
	scheduleRepo portsrepo.RecurringScheduleRepositoryFacade
	accountRepo  portsrepo.AccountReader
}

// NewRecurringService creates the recurring schedule service.
func NewRecurringService(
	scheduleRepo portsrepo.RecurringScheduleRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	options ...ServiceOption,
) portssvc.RecurringSvcFacade {
	return &recurringService{
		BaseService:  newBaseService(options...),
		scheduleRepo: scheduleRepo,
		accountRepo:  accountRepo,
	}
}

var _ portssvc.RecurringSvcFacade = (*recurringService)(nil)

func (s *recurringService) CreateSchedule(ctx context.Context, companyID string, req dto.CreateRecurringScheduleRequest, userID string) (*domain.RecurringSchedule, error) {
	now := s.Now()
	schedule := domain.RecurringSchedule{
		ScheduleID:      uuid.NewString(),
		CompanyID:       companyID,
		Name:            strings.TrimSpace(req.Name),
		Frequency:       req.Frequency,
		Interval:        req.Interval,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Amount:          req.Amount,
		TransactionType: req.Type,
		CategoryID:      req.Category,
		AccountID:       req.Account,
		DayOfMonth:      req.DayOfMonth,
		DayOfWeek:       req.DayOfWeek,
		MonthOfYear:     req.MonthOfYear,
		Status:          req.Status,
		Notes:           req.Notes,
		AuditFields:     domain.NewAuditFields(userID, now),
	}
	if schedule.Interval == 0 {
		schedule.Interval = 1
	}
	if schedule.Status == "" {
		schedule.Status = domain.ScheduleActive
	}
	if err := validateSchedule(&schedule); err != nil {
		return nil, err
	}
	if _, err := findAccountInCompany(ctx, &s.BaseService, s.accountRepo, companyID, schedule.AccountID); err != nil {
		return nil, err
	}

	schedule.NextDueDate = recurrence.NextDueDate(recurrence.ParamsFromSchedule(&schedule), now)
	if err := checkDueDate(&schedule); err != nil {
		return nil, err
	}
	settleSchedule(&schedule)

	if err := s.scheduleRepo.SaveSchedule(ctx, schedule); err != nil {
		s.LogError(ctx, err, "Failed to save recurring schedule", slog.String("schedule_id", schedule.ScheduleID))
		return nil, err
	}

	s.LogInfo(ctx, "Recurring schedule created successfully",
		slog.String("schedule_id", schedule.ScheduleID),
		slog.Time("next_due_date", schedule.NextDueDate))
	return &schedule, nil
}

func (s *recurringService) GetScheduleByID(ctx context.Context, companyID string, scheduleID string) (*domain.RecurringSchedule, error) {
	schedule, err := s.scheduleRepo.FindScheduleByID(ctx, scheduleID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find recurring schedule", slog.String("schedule_id", scheduleID))
		}
		return nil, err
	}
	if schedule.CompanyID != companyID {
		return nil, fmt.Errorf("recurring schedule %s: %w", scheduleID, apperrors.ErrNotFound)
	}
	return schedule, nil
}

func (s *recurringService) ListSchedules(ctx context.Context, companyID string, limit int, offset int) ([]domain.RecurringSchedule, error) {
	limit, offset = normalizePage(limit, offset)
	schedules, err := s.scheduleRepo.ListSchedules(ctx, companyID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list recurring schedules", slog.String("company_id", companyID))
		return nil, err
	}
	return schedules, nil
}

func (s *recurringService) UpdateSchedule(ctx context.Context, companyID string, scheduleID string, req dto.UpdateRecurringScheduleRequest, userID string) (*domain.RecurringSchedule, error) {
	prev, err := s.GetScheduleByID(ctx, companyID, scheduleID)
	if err != nil {
		return nil, err
	}

	next := *prev
	if req.Name != nil {
		next.Name = strings.TrimSpace(*req.Name)
	}
	if req.Frequency != nil {
		next.Frequency = *req.Frequency
	}
	if req.Interval != nil {
		next.Interval = *req.Interval
	}
	if req.StartDate != nil {
		next.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		next.EndDate = req.EndDate
	}
	if req.Amount != nil {
		next.Amount = *req.Amount
	}
	if req.Type != nil {
		next.TransactionType = *req.Type
	}
	if req.Category != nil {
		next.CategoryID = *req.Category
	}
	if req.Account != nil {
		next.AccountID = *req.Account
	}
	if req.DayOfMonth != nil {
		next.DayOfMonth = req.DayOfMonth
	}
	if req.DayOfWeek != nil {
		next.DayOfWeek = req.DayOfWeek
	}
	if req.MonthOfYear != nil {
		next.MonthOfYear = req.MonthOfYear
	}
	if req.Status != nil {
		next.Status = *req.Status
	}
	if req.Notes != nil {
		next.Notes = *req.Notes
	}

	if err := validateSchedule(&next); err != nil {
		return nil, err
	}
	if next.AccountID != prev.AccountID {
		if _, err := findAccountInCompany(ctx, &s.BaseService, s.accountRepo, companyID, next.AccountID); err != nil {
			return nil, err
		}
	}

	now := s.Now()
	if domain.ScheduleShapeChanged(prev, &next) {
		next.NextDueDate = recurrence.NextDueDate(recurrence.ParamsFromSchedule(&next), now)
		if err := checkDueDate(&next); err != nil {
			return nil, err
		}
		s.LogDebug(ctx, "Schedule shape changed, next due date recomputed",
			slog.String("schedule_id", scheduleID),
			slog.Time("previous_next_due_date", prev.NextDueDate),
			slog.Time("next_due_date", next.NextDueDate))
	}
	settleSchedule(&next)
	next.Touch(userID, now)

	if err := s.scheduleRepo.UpdateSchedule(ctx, next); err != nil {
		s.LogError(ctx, err, "Failed to update recurring schedule", slog.String("schedule_id", scheduleID))
		return nil, err
	}

	s.LogInfo(ctx, "Recurring schedule updated successfully", slog.String("schedule_id", scheduleID))
	return &next, nil
}

func (s *recurringService) DeleteSchedule(ctx context.Context, companyID string, scheduleID string, userID string) error {
	if _, err := s.GetScheduleByID(ctx, companyID, scheduleID); err != nil {
		return err
	}
	if err := s.scheduleRepo.DeleteSchedule(ctx, scheduleID); err != nil {
		s.LogError(ctx, err, "Failed to delete recurring schedule", slog.String("schedule_id", scheduleID))
		return err
	}
	s.LogInfo(ctx, "Recurring schedule deleted successfully",
		slog.String("schedule_id", scheduleID),
		slog.String("user_id", userID))
	return nil
}

func (s *recurringService) AdvanceSchedule(ctx context.Context, companyID string, scheduleID string, userID string) (*domain.RecurringSchedule, error) {
	schedule, err := s.GetScheduleByID(ctx, companyID, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule.Status != domain.ScheduleActive {
		s.LogDebug(ctx, "Schedule not active, not advanced",
			slog.String("schedule_id", scheduleID),
			slog.String("status", string(schedule.Status)))
		return schedule, nil
	}

	now := s.Now()
	from := now
	if schedule.NextDueDate.After(from) {
		from = schedule.NextDueDate
	}
	previous := schedule.NextDueDate
	schedule.NextDueDate = recurrence.NextDueDate(recurrence.ParamsFromSchedule(schedule), from)
	if err := checkDueDate(schedule); err != nil {
		return nil, err
	}
	settleSchedule(schedule)
	schedule.Touch(userID, now)

	if err := s.scheduleRepo.UpdateSchedule(ctx, *schedule); err != nil {
		s.LogError(ctx, err, "Failed to advance recurring schedule", slog.String("schedule_id", scheduleID))
		return nil, err
	}

	s.LogInfo(ctx, "Recurring schedule advanced",
		slog.String("schedule_id", scheduleID),
		slog.Time("previous_next_due_date", previous),
		slog.Time("next_due_date", schedule.NextDueDate),
		slog.String("status", string(schedule.Status)))
	return schedule, nil
}

func validateSchedule(s *domain.RecurringSchedule) error {
	switch {
	case s.Name == "":
		return fmt.Errorf("schedule name is required: %w", apperrors.ErrValidation)
	case !s.Frequency.IsValid():
		return fmt.Errorf("unknown frequency '%s': %w", s.Frequency, apperrors.ErrValidation)
	case s.Interval < 1 || s.Interval > recurrence.MaxInterval:
		return fmt.Errorf("interval must be between 1 and %d, got %d: %w", recurrence.MaxInterval, s.Interval, apperrors.ErrValidation)
	case s.StartDate.IsZero():
		return fmt.Errorf("start date is required: %w", apperrors.ErrValidation)
	case s.StartDate.Year() > recurrence.MaxYear:
		return fmt.Errorf("start date is after year %d: %w", recurrence.MaxYear, apperrors.ErrValidation)
	case s.EndDate != nil && s.EndDate.Before(s.StartDate):
		return fmt.Errorf("end date is before start date: %w", apperrors.ErrValidation)
	case !s.Amount.IsPositive():
		return fmt.Errorf("amount must be positive, got %s: %w", s.Amount.String(), apperrors.ErrValidation)
	case !s.TransactionType.IsValid():
		return fmt.Errorf("unknown transaction type '%s': %w", s.TransactionType, apperrors.ErrValidation)
	case s.AccountID == "":
		return fmt.Errorf("account is required: %w", apperrors.ErrValidation)
	case !s.Status.IsValid():
		return fmt.Errorf("unknown schedule status '%s': %w", s.Status, apperrors.ErrValidation)
	case !inRange(s.DayOfMonth, 1, 31):
		return fmt.Errorf("day of month must be between 1 and 31: %w", apperrors.ErrValidation)
	case !inRange(s.DayOfWeek, 0, 6):
		return fmt.Errorf("day of week must be between 0 and 6: %w", apperrors.ErrValidation)
	case !inRange(s.MonthOfYear, 1, 12):
		return fmt.Errorf("month of year must be between 1 and 12: %w", apperrors.ErrValidation)
	}
	if err := domain.CheckMoney("amount", s.Amount); err != nil {
		return fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
	}
	return nil
}

func inRange(v *int, lo, hi int) bool {
	return v == nil || (*v >= lo && *v <= hi)
}

// checkDueDate rejects schedules whose next occurrence cannot be stored.
func checkDueDate(s *domain.RecurringSchedule) error {
	if s.NextDueDate.Year() > recurrence.MaxYear {
		return fmt.Errorf("next due date falls after year %d: %w", recurrence.MaxYear, apperrors.ErrValidation)
	}
	return nil
}

// settleSchedule completes an active schedule whose next occurrence falls after its end date.
func settleSchedule(s *domain.RecurringSchedule) {
	if s.Status == domain.ScheduleActive && s.EndDate != nil && s.NextDueDate.After(endOfDay(*s.EndDate)) {
		s.Status = domain.ScheduleCompleted
	}
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
