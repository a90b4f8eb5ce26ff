package testdb

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgDeadlockDetectedCode is the SQLSTATE Postgres reports when its deadlock
// detector aborts one of two transactions waiting on each other.
const pgDeadlockDetectedCode = "40P01"

// Retry bounds for deadlock recovery. Attempts are unbounded in count;
// the elapsed-time cap is what terminates a persistently deadlocking
// operation, together with whatever outer timeout the test imposes.
const (
	retryInitialInterval = 50 * time.Millisecond
	retryMaxInterval     = time.Second
	retryMaxElapsedTime  = 30 * time.Second
)

// isDeadlockError reports whether err is a Postgres deadlock abort.
func isDeadlockError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgDeadlockDetectedCode
}

// WithDeadlockRetry executes op, retrying it from scratch with a randomized
// backoff whenever it fails with a deadlock abort. Any other error
// propagates immediately. The wrapper acquires no database locks itself;
// conflict resolution is delegated to the database's deadlock detector and
// this loop merely re-runs the losing transaction.
//
// Each retry waits a randomized interval capped at one second, and the loop
// gives up once retryMaxElapsedTime has passed, returning the last deadlock
// error.
func WithDeadlockRetry[T any](ctx context.Context, op func(ctx context.Context) (T, error)) (T, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = retryInitialInterval
	policy.MaxInterval = retryMaxInterval
	policy.MaxElapsedTime = retryMaxElapsedTime

	attempt := 0
	return backoff.RetryNotifyWithData(
		func() (T, error) {
			attempt++
			result, err := op(ctx)
			if err != nil && !isDeadlockError(err) {
				return result, backoff.Permanent(err)
			}
			return result, err
		},
		backoff.WithContext(policy, ctx),
		func(err error, wait time.Duration) {
			slog.Debug("retrying after database deadlock",
				slog.Int("attempt", attempt),
				slog.Duration("backoff", wait),
				slog.String("error", err.Error()))
		},
	)
}
