// Package store defines interfaces for data persistence operations.
// These interfaces keep the services independent of the database:
// internal/platform/postgres implements them for PostgreSQL and
// internal/mocks provides test doubles.
package store
