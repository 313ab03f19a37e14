package persistence

import (
	"context"
	"database/sql"
)

// Executor is the caller-supplied connection context: *sql.DB, *sql.Tx and *sql.Conn all qualify.
// Timeouts and cancellation come from ctx and the connection itself.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}
