package postgres

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationTableName is the name of the table goose uses to track applied
// migrations.
const MigrationTableName = "schema_migrations"

// ApplyMigrations runs all pending schema migrations against the given
// database. It is called once at server startup.
func ApplyMigrations(db *sql.DB) error {
	goose.SetTableName(MigrationTableName)
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
