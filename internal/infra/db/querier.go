package db

import (
	"context"
	"database/sql"
)

// Querier is the slice of *sql.DB the repositories run their statements
// through. *circuitbreaker.DBCircuitBreaker satisfies it too, so the
// binaries can hand repositories a breaker-wrapped handle and have store
// outages trip the circuit instead of piling up blocked queries.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
