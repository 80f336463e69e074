// Package postgres implements the store interfaces on PostgreSQL through
// database/sql and the pgx driver.
//
// Aggregates with nested collections (card review history, user progress
// skills) are stored as JSONB columns next to a version column; writers
// lock rows with SELECT ... FOR UPDATE inside a transaction and update with
// a version check. The schema lives in the embedded goose migrations.
package postgres
