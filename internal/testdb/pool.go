package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
)

// Connection pool bounds. The pool is sized to a single connection so the
// database serializes concurrent test operations; isolation then needs no
// in-process locking beyond the harness mutex.
const (
	// StatementTimeout bounds every statement server-side.
	StatementTimeout = 30 * time.Second

	// teardownGrace is how long Teardown waits for in-flight queries to
	// drain before closing the pool.
	teardownGrace = 100 * time.Millisecond
)

// Harness owns the process-scoped test database state: the shared
// connection pool and the mutex serializing its lifecycle. A zero Harness
// is ready to use.
type Harness struct {
	mu sync.Mutex
	db *sql.DB
}

// defaultHarness is the process-scoped harness used by the package-level
// Pool, Provision and Teardown functions. One pool per process.
var defaultHarness Harness

// Pool returns the shared connection pool, creating and validating it on
// first use. The pool reads its connection string from DATABASE_URL or
// INKWELL_TEST_DB_URL. Subsequent calls return the existing pool without
// revalidating it.
func Pool(ctx context.Context) (*sql.DB, error) {
	return defaultHarness.Pool(ctx)
}

// Pool returns the harness's connection pool, creating it if absent.
// If the liveness check on a fresh pool fails, the pool reference stays
// unset and the error propagates.
func (h *Harness) Pool(ctx context.Context) (*sql.DB, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.db != nil {
		return h.db, nil
	}

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		return nil, fmt.Errorf("no test database URL: set DATABASE_URL or INKWELL_TEST_DB_URL")
	}

	connURL, err := normalizeConnURL(dbURL, int(StatementTimeout.Milliseconds()))
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", connURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// One connection, kept alive for the whole run. Disabling the idle
	// timeout stops the driver from dropping and re-dialing the connection
	// between tests.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)

	// Trivial round-trip to confirm liveness before handing the pool out.
	probeCtx, cancel := context.WithTimeout(ctx, StatementTimeout)
	defer cancel()

	var one int
	if err := db.QueryRowContext(probeCtx, "SELECT 1").Scan(&one); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("database liveness check failed: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("database liveness check failed: %w", err)
	}

	slog.Info("test database pool established",
		slog.String("url", maskDatabaseURL(dbURL)))

	h.db = db
	return h.db, nil
}

// Teardown releases the shared pool at the end of an entire test run.
// If no pool exists it returns immediately. Errors while closing are
// logged, and the pool reference is cleared unconditionally so a later
// run starts clean. Called once, after all tests in a process complete.
func Teardown() {
	defaultHarness.Teardown()
}

// Teardown releases the harness's pool. Safe to call repeatedly.
func (h *Harness) Teardown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.db == nil {
		return
	}

	// Let in-flight queries drain before closing.
	time.Sleep(teardownGrace)

	done := make(chan error, 1)
	go func() { done <- h.db.Close() }()

	select {
	case err := <-done:
		if err != nil {
			slog.Warn("failed to close test database pool",
				slog.String("error", err.Error()))
		}
	case <-time.After(StatementTimeout):
		slog.Warn("timed out closing test database pool")
	}

	h.db = nil
}
