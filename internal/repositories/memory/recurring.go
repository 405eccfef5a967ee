package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/fin_consistency_engine/internal/apperrors"
	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
)

func (s *Store) SaveSchedule(ctx context.Context, schedule domain.RecurringSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.schedules[schedule.ScheduleID]; exists {
		return fmt.Errorf("recurring schedule %s: %w", schedule.ScheduleID, apperrors.ErrDuplicate)
	}
	s.schedules[schedule.ScheduleID] = schedule
	return nil
}

func (s *Store) UpdateSchedule(ctx context.Context, schedule domain.RecurringSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.schedules[schedule.ScheduleID]; !exists {
		return fmt.Errorf("recurring schedule %s: %w", schedule.ScheduleID, apperrors.ErrNotFound)
	}
	s.schedules[schedule.ScheduleID] = schedule
	return nil
}

func (s *Store) DeleteSchedule(ctx context.Context, scheduleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.schedules[scheduleID]; !exists {
		return fmt.Errorf("recurring schedule %s: %w", scheduleID, apperrors.ErrNotFound)
	}
	delete(s.schedules, scheduleID)
	return nil
}

func (s *Store) FindScheduleByID(ctx context.Context, scheduleID string) (*domain.RecurringSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	schedule, ok := s.schedules[scheduleID]
	if !ok {
		return nil, fmt.Errorf("recurring schedule %s: %w", scheduleID, apperrors.ErrNotFound)
	}
	return &schedule, nil
}

func (s *Store) ListSchedules(ctx context.Context, companyID string, limit int, offset int) ([]domain.RecurringSchedule, error) {
	s.mu.RLock()
	rows := make([]domain.RecurringSchedule, 0)
	for _, schedule := range s.schedules {
		if schedule.CompanyID == companyID {
			rows = append(rows, schedule)
		}
	}
	s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].NextDueDate.Equal(rows[j].NextDueDate) {
			return rows[i].NextDueDate.Before(rows[j].NextDueDate)
		}
		return rows[i].ScheduleID < rows[j].ScheduleID
	})
	return page(rows, limit, offset), nil
}
