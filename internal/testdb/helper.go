package testdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// MustProvision provisions an isolated database context for the test,
// skipping the test when no test database URL is configured. Cleanup is
// registered automatically via t.Cleanup. The shared pool is left open for
// later tests; call Teardown from TestMain to release it.
func MustProvision(t *testing.T) *TestDB {
	t.Helper()

	if !IsIntegrationTestEnvironment() {
		t.Skip("DATABASE_URL or INKWELL_TEST_DB_URL not set - skipping integration test")
	}

	tdb, err := Provision(context.Background(), t.Name())
	require.NoError(t, err, "Failed to provision test database")

	t.Cleanup(func() {
		tdb.Cleanup(context.Background())
	})

	return tdb
}
