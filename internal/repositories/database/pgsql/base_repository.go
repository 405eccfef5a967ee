package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/fin_consistency_engine/internal/apperrors"
	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes mapped onto apperrors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// RetryConfig controls how reads are retried on transient failures.
type RetryConfig struct {
	MaxAttempts     int
	InitialInterval time.Duration
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool  *pgxpool.Pool
	retry RetryConfig
}

func newBaseRepository(pool *pgxpool.Pool, retry RetryConfig) BaseRepository {
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}
	if retry.InitialInterval <= 0 {
		retry.InitialInterval = 100 * time.Millisecond
	}
	return BaseRepository{Pool: pool, retry: retry}
}

// withReadRetry runs a read with exponential backoff. NotFound and validation
// failures are final; writes never go through here.
func (r *BaseRepository) withReadRetry(ctx context.Context, read func(ctx context.Context) error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.retry.InitialInterval
	var b backoff.BackOff = backoff.WithMaxRetries(policy, uint64(r.retry.MaxAttempts-1))
	b = backoff.WithContext(b, ctx)

	return backoff.Retry(func() error {
		err := read(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrValidation) ||
			errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return backoff.Permanent(err)
		}
		return err
	}, b)
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// notFoundOr converts pgx.ErrNoRows into apperrors.ErrNotFound.
func notFoundOr(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, apperrors.ErrNotFound)
	}
	return fmt.Errorf("failed to find %s: %w", what, err)
}

// mapWriteError maps constraint violations to application errors.
func mapWriteError(err error, what string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s already exists: %w", what, apperrors.ErrDuplicate)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s references a missing row (%s): %w", what, pgErr.ConstraintName, apperrors.ErrValidation)
		case pgCheckViolation:
			return fmt.Errorf("%s violates %s: %w", what, pgErr.ConstraintName, apperrors.ErrValidation)
		}
	}
	return fmt.Errorf("failed to write %s: %w", what, err)
}

// expectOneRow turns a zero-row write into ErrNotFound.
func expectOneRow(tag pgconn.CommandTag, what string) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", what, apperrors.ErrNotFound)
	}
	return nil
}
