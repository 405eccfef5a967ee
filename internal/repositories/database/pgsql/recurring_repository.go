package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/fin_consistency_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

const scheduleColumns = `schedule_id, company_id, name, frequency, interval_count, start_date, end_date, amount,
	transaction_type, category_id, account_id, day_of_month, day_of_week, month_of_year, next_due_date, status, notes,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxRecurringScheduleRepository struct {
	BaseRepository
}

func newPgxRecurringScheduleRepository(pool *pgxpool.Pool, retry RetryConfig) *PgxRecurringScheduleRepository {
	return &PgxRecurringScheduleRepository{BaseRepository: newBaseRepository(pool, retry)}
}

var _ portsrepo.RecurringScheduleRepositoryFacade = (*PgxRecurringScheduleRepository)(nil)

func scanSchedule(row rowScanner) (domain.RecurringSchedule, error) {
	var s domain.RecurringSchedule
	var frequency, txnType, status string
	err := row.Scan(
		&s.ScheduleID,
		&s.CompanyID,
		&s.Name,
		&frequency,
		&s.Interval,
		&s.StartDate,
		&s.EndDate,
		&s.Amount,
		&txnType,
		&s.CategoryID,
		&s.AccountID,
		&s.DayOfMonth,
		&s.DayOfWeek,
		&s.MonthOfYear,
		&s.NextDueDate,
		&status,
		&s.Notes,
		&s.CreatedAt,
		&s.CreatedBy,
		&s.LastUpdatedAt,
		&s.LastUpdatedBy,
	)
	s.Frequency = domain.Frequency(frequency)
	s.TransactionType = domain.TransactionType(txnType)
	s.Status = domain.ScheduleStatus(status)
	return s, err
}

func (r *PgxRecurringScheduleRepository) SaveSchedule(ctx context.Context, s domain.RecurringSchedule) error {
	query := `INSERT INTO recurring_schedules (` + scheduleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);`

	_, err := r.Pool.Exec(ctx, query,
		s.ScheduleID,
		s.CompanyID,
		s.Name,
		string(s.Frequency),
		s.Interval,
		s.StartDate,
		s.EndDate,
		s.Amount,
		string(s.TransactionType),
		s.CategoryID,
		s.AccountID,
		s.DayOfMonth,
		s.DayOfWeek,
		s.MonthOfYear,
		s.NextDueDate,
		string(s.Status),
		s.Notes,
		s.CreatedAt,
		s.CreatedBy,
		s.LastUpdatedAt,
		s.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("schedule %s", s.ScheduleID))
	}
	return nil
}

func (r *PgxRecurringScheduleRepository) UpdateSchedule(ctx context.Context, s domain.RecurringSchedule) error {
	query := `UPDATE recurring_schedules
		SET name = $2, frequency = $3, interval_count = $4, start_date = $5, end_date = $6, amount = $7,
			transaction_type = $8, category_id = $9, account_id = $10, day_of_month = $11, day_of_week = $12,
			month_of_year = $13, next_due_date = $14, status = $15, notes = $16,
			last_updated_at = $17, last_updated_by = $18
		WHERE schedule_id = $1;`

	tag, err := r.Pool.Exec(ctx, query,
		s.ScheduleID,
		s.Name,
		string(s.Frequency),
		s.Interval,
		s.StartDate,
		s.EndDate,
		s.Amount,
		string(s.TransactionType),
		s.CategoryID,
		s.AccountID,
		s.DayOfMonth,
		s.DayOfWeek,
		s.MonthOfYear,
		s.NextDueDate,
		string(s.Status),
		s.Notes,
		s.LastUpdatedAt,
		s.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("schedule %s", s.ScheduleID))
	}
	return expectOneRow(tag, fmt.Sprintf("schedule %s", s.ScheduleID))
}

func (r *PgxRecurringScheduleRepository) DeleteSchedule(ctx context.Context, scheduleID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM recurring_schedules WHERE schedule_id = $1;`, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to delete schedule %s: %w", scheduleID, err)
	}
	return expectOneRow(tag, fmt.Sprintf("schedule %s", scheduleID))
}

func (r *PgxRecurringScheduleRepository) FindScheduleByID(ctx context.Context, scheduleID string) (*domain.RecurringSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM recurring_schedules WHERE schedule_id = $1;`

	var schedule domain.RecurringSchedule
	err := r.withReadRetry(ctx, func(ctx context.Context) error {
		var scanErr error
		schedule, scanErr = scanSchedule(r.Pool.QueryRow(ctx, query, scheduleID))
		if scanErr != nil {
			return notFoundOr(scanErr, fmt.Sprintf("schedule %s", scheduleID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *PgxRecurringScheduleRepository) ListSchedules(ctx context.Context, companyID string, limit int, offset int) ([]domain.RecurringSchedule, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + scheduleColumns + ` FROM recurring_schedules
		WHERE company_id = $1
		ORDER BY next_due_date, schedule_id
		LIMIT $2 OFFSET $3;`

	var schedules []domain.RecurringSchedule
	err := r.withReadRetry(ctx, func(ctx context.Context) error {
		rows, err := r.Pool.Query(ctx, query, companyID, limit, offset)
		if err != nil {
			return fmt.Errorf("failed to query schedules for company %s: %w", companyID, err)
		}
		defer rows.Close()

		schedules = []domain.RecurringSchedule{}
		for rows.Next() {
			s, err := scanSchedule(rows)
			if err != nil {
				return fmt.Errorf("failed to scan schedule row: %w", err)
			}
			schedules = append(schedules, s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return schedules, nil
}
