package circuitbreaker

import (
	"context"
	"database/sql"
	"time"

	"github.com/sony/gobreaker"
)

// DBCircuitBreaker wraps a *sql.DB so repository queries stop hitting a
// store that is already failing. It satisfies db.Querier, which is what
// the repositories accept.
type DBCircuitBreaker struct {
	cb *CircuitBreaker
	db *sql.DB
}

// DBConfig returns the breaker settings used for the relational store:
// trip after 5 consecutive failures, retry after 30 seconds.
func DBConfig() Config {
	return Config{
		Name:             "database",
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 1.0,
		MinRequests:      5,
	}
}

// NewDBCircuitBreaker wraps database with the DBConfig breaker.
func NewDBCircuitBreaker(database *sql.DB) *DBCircuitBreaker {
	return NewDBCircuitBreakerWithConfig(database, DBConfig())
}

// NewDBCircuitBreakerWithConfig wraps database with a custom breaker
// configuration.
func NewDBCircuitBreakerWithConfig(database *sql.DB, cfg Config) *DBCircuitBreaker {
	return &DBCircuitBreaker{
		cb: New(cfg),
		db: database,
	}
}

// QueryContext runs a query through the breaker. When the circuit is
// open it returns gobreaker.ErrOpenState without touching the store.
func (dcb *DBCircuitBreaker) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	result, err := dcb.cb.Execute(func() (interface{}, error) {
		return dcb.db.QueryContext(ctx, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return result.(*sql.Rows), nil
}

// ExecContext runs a statement through the breaker. When the circuit is
// open it returns gobreaker.ErrOpenState without touching the store.
func (dcb *DBCircuitBreaker) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	result, err := dcb.cb.Execute(func() (interface{}, error) {
		return dcb.db.ExecContext(ctx, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return result.(sql.Result), nil
}

// QueryRowContext passes through unprotected. sql.Row defers its error
// until Scan, so the breaker never observes the outcome here.
func (dcb *DBCircuitBreaker) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return dcb.db.QueryRowContext(ctx, query, args...)
}

// State returns the current breaker state.
func (dcb *DBCircuitBreaker) State() gobreaker.State {
	return dcb.cb.State()
}

// IsOpen reports whether the breaker is open.
func (dcb *DBCircuitBreaker) IsOpen() bool {
	return dcb.cb.IsOpen()
}

// DB returns the unwrapped connection for callers that must not go
// through the breaker, such as health checks and migrations.
func (dcb *DBCircuitBreaker) DB() *sql.DB {
	return dcb.db
}
