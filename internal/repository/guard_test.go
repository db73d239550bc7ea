package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"eatrite-api/internal/domain"
)

func TestTranslatePgError(t *testing.T) {
	assert.NoError(t, translatePgError(nil))
	assert.ErrorIs(t, translatePgError(pgx.ErrNoRows), domain.ErrNotFound)
	assert.ErrorIs(t, translatePgError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_email_key"}), domain.ErrConflict)
	assert.ErrorIs(t, translatePgError(&pgconn.PgError{Code: pgForeignKeyViolation}), domain.ErrNotFound)

	other := errors.New("connection reset")
	assert.Equal(t, other, translatePgError(other))
}

func TestGuardRun_DomainErrorsPassThrough(t *testing.T) {
	g := newGuard("test", time.Second, zap.NewNop())

	for i := 0; i < 10; i++ {
		err := g.run(context.Background(), func(context.Context) error { return pgx.ErrNoRows })
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NotErrorIs(t, err, domain.ErrUpstreamUnavailable)
	}

	calls := 0
	err := g.run(context.Background(), func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "breaker must stay closed after domain errors")
}

func TestGuardRun_BackendFailuresOpenBreaker(t *testing.T) {
	g := newGuard("test", time.Second, zap.NewNop())
	down := errors.New("dial tcp: connection refused")

	for i := 0; i < 5; i++ {
		err := g.run(context.Background(), func(context.Context) error { return down })
		require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	}

	calls := 0
	err := g.run(context.Background(), func(context.Context) error {
		calls++
		return nil
	})
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Zero(t, calls, "open breaker must not reach the backend")
}

func TestGuardRun_BoundsCallWithTimeout(t *testing.T) {
	g := newGuard("test", 20*time.Millisecond, zap.NewNop())

	err := g.run(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}
