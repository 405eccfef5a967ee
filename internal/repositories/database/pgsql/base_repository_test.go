package pgsql

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/fin_consistency_engine/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func testRepo(attempts int) BaseRepository {
	return newBaseRepository(nil, RetryConfig{MaxAttempts: attempts, InitialInterval: time.Millisecond})
}

func TestWithReadRetry_RecoversFromTransientFailure(t *testing.T) {
	repo := testRepo(3)
	calls := 0

	err := repo.withReadRetry(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection reset by peer")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithReadRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	repo := testRepo(2)
	calls := 0

	err := repo.withReadRetry(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("connection refused")
	})

	assert.EqualError(t, err, "connection refused")
	assert.Equal(t, 2, calls)
}

func TestWithReadRetry_PermanentErrors(t *testing.T) {
	for _, sentinel := range []error{apperrors.ErrNotFound, apperrors.ErrValidation} {
		t.Run(sentinel.Error(), func(t *testing.T) {
			repo := testRepo(5)
			calls := 0

			err := repo.withReadRetry(context.Background(), func(ctx context.Context) error {
				calls++
				return fmt.Errorf("account a1: %w", sentinel)
			})

			assert.ErrorIs(t, err, sentinel)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestWithReadRetry_StopsOnCancelledContext(t *testing.T) {
	repo := testRepo(5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0

	err := repo.withReadRetry(ctx, func(ctx context.Context) error {
		calls++
		return ctx.Err()
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestNewBaseRepository_Defaults(t *testing.T) {
	repo := newBaseRepository(nil, RetryConfig{})
	assert.Equal(t, 1, repo.retry.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, repo.retry.InitialInterval)
}

func TestErrorMapping(t *testing.T) {
	assert.ErrorIs(t, notFoundOr(pgx.ErrNoRows, "account a1"), apperrors.ErrNotFound)
	assert.NotErrorIs(t, notFoundOr(errors.New("boom"), "account a1"), apperrors.ErrNotFound)

	tests := []struct {
		code string
		want error
	}{
		{pgUniqueViolation, apperrors.ErrDuplicate},
		{pgForeignKeyViolation, apperrors.ErrValidation},
		{pgCheckViolation, apperrors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := mapWriteError(&pgconn.PgError{Code: tt.code}, "transaction t1")
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.ErrorIs(t, expectOneRow(pgconn.NewCommandTag("UPDATE 0"), "budget b1"), apperrors.ErrNotFound)
	assert.NoError(t, expectOneRow(pgconn.NewCommandTag("UPDATE 1"), "budget b1"))
}
