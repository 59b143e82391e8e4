// Package store defines the persistence interfaces the analysis worker
// depends on, along with the shared database abstraction and sentinel
// errors. Concrete implementations live in internal/platform/postgres.
package store
