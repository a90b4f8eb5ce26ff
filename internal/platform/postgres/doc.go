// Package postgres provides PostgreSQL implementations of the store
// interfaces. Stores accept any store.DBTX, so they run equally against the
// application pool, a transaction, or the test harness's provisioned
// schemas. Schema migrations for the production database live in the
// embedded migrations directory and are applied with goose at startup.
package postgres
