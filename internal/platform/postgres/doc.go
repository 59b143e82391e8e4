// Package postgres provides PostgreSQL-backed implementations of the
// store interfaces. All stores accept a store.DBTX so they work equally
// against a *sql.DB connection pool or a *sql.Tx transaction.
package postgres
