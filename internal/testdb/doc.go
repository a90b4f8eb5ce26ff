// Package testdb provides an isolated per-test database environment.
//
// Each call to Provision drops and recreates the auth and test schema
// namespaces inside one transaction, so every test starts from a known-empty
// database regardless of what previous tests left behind. Provisioning is
// serialized through a deadlock-retry wrapper because concurrent schema
// drops can deadlock against each other at the database level; the database's
// own deadlock detector resolves the conflict and the loser is retried with
// a randomized backoff.
//
// The package maintains one shared connection pool per process, deliberately
// sized to a single connection so the database itself serializes concurrent
// test operations. Teardown releases the pool once after all tests complete.
//
// Cleanup (the function returned by Provision) is a best-effort TRUNCATE and
// is not the isolation mechanism: a failed cleanup is logged and swallowed
// because the next Provision call resets the schemas unconditionally.
package testdb
