package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkwell-cms/inkwell-api/internal/platform/postgres"
	"github.com/inkwell-cms/inkwell-api/internal/store"
)

// provisionStatements is the fixed DDL sequence executed inside one
// transaction on every Provision call. The table shape is redeclared
// identically every time; schema recreation, not cleanup, is the isolation
// boundary.
var provisionStatements = []string{
	`DROP SCHEMA IF EXISTS auth CASCADE`,
	`DROP SCHEMA IF EXISTS test CASCADE`,
	`CREATE SCHEMA auth`,
	`CREATE SCHEMA test`,
	`SET search_path TO auth, test, public`,
	`CREATE EXTENSION IF NOT EXISTS vector SCHEMA public`,
	`CREATE TABLE auth.users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		username TEXT UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		profile_image_url TEXT
	)`,
	`CREATE TABLE auth.content (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES auth.users(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW(),
		status TEXT DEFAULT 'draft'
	)`,
	`CREATE TABLE test.documents (
		id BIGSERIAL PRIMARY KEY,
		content TEXT,
		metadata JSONB DEFAULT '{}',
		embedding VECTOR(1536)
	)`,
}

// Cleanup SQL. Trigger enforcement is suspended around the truncate so
// foreign keys cannot order-constrain it, then restored even if the
// truncate itself fails.
const (
	disableTriggersSQL = `SET session_replication_role = 'replica'`
	truncateAllSQL     = `TRUNCATE TABLE auth.users, auth.content, test.documents CASCADE`
	restoreTriggersSQL = `SET session_replication_role = 'origin'`
)

// TestDB is the handle Provision returns: the shared pool, typed stores
// bound to it and the provisioned schema, and a best-effort cleanup
// function.
type TestDB struct {
	// ID identifies the test session, for log correlation only.
	ID string

	// DB is the shared single-connection pool. Tests may issue raw SQL
	// against it directly.
	DB *sql.DB

	// Typed stores bound to the provisioned schema via the pool.
	Users     store.UserStore
	Content   store.ContentStore
	Documents store.DocumentStore

	// Cleanup truncates all provisioned tables. Errors are logged, never
	// returned: a failed cleanup must not fail a test that already ran,
	// and the next Provision call resets the schemas regardless.
	Cleanup func(ctx context.Context)
}

// Provision produces a ready-to-use, fully isolated database context for
// one test using the process-scoped harness. An empty testID defaults to a
// timestamp-derived value.
func Provision(ctx context.Context, testID string) (*TestDB, error) {
	return defaultHarness.Provision(ctx, testID)
}

// Provision drops and recreates the auth and test schemas, installs the
// vector extension, and creates the fixed table set, all inside a single
// transaction executed under the deadlock-retry wrapper. Any statement
// failure aborts the transaction and no handle is returned. Calling it
// repeatedly is safe and always yields an empty, freshly-shaped database.
func (h *Harness) Provision(ctx context.Context, testID string) (*TestDB, error) {
	if testID == "" {
		testID = fmt.Sprintf("test_%d", time.Now().UnixNano())
	}

	db, err := h.Pool(ctx)
	if err != nil {
		return nil, err
	}

	log := slog.Default().With(slog.String("test_id", testID))

	if _, err := WithDeadlockRetry(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
			for _, stmt := range provisionStatements {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("provisioning statement failed: %w", err)
				}
			}
			return nil
		})
	}); err != nil {
		return nil, fmt.Errorf("failed to provision test database: %w", err)
	}

	log.Debug("test database provisioned")

	return &TestDB{
		ID:        testID,
		DB:        db,
		Users:     postgres.NewUserStore(db, log),
		Content:   postgres.NewContentStore(db, log),
		Documents: postgres.NewDocumentStore(db, log),
		Cleanup: func(ctx context.Context) {
			if _, err := db.ExecContext(ctx, disableTriggersSQL); err != nil {
				log.Warn("failed to suspend trigger enforcement for cleanup",
					slog.String("error", err.Error()))
				return
			}

			if _, err := db.ExecContext(ctx, truncateAllSQL); err != nil {
				log.Warn("test database cleanup truncate failed",
					slog.String("error", err.Error()))
			}

			// Restore enforcement even when the truncate failed; the pool
			// is a single long-lived session, so a leaked setting would
			// outlive this test.
			if _, err := db.ExecContext(ctx, restoreTriggersSQL); err != nil {
				log.Warn("failed to restore trigger enforcement after cleanup",
					slog.String("error", err.Error()))
			}

			log.Debug("test database cleaned up")
		},
	}, nil
}
