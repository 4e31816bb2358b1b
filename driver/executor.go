package driver

import "context"

// Rows represents a result set from a query.
// This interface is compatible with both pgx.Rows and *sql.Rows.
type Rows interface {
	Close()
	Err() error
	Next() bool
	Scan(dest ...any) error
}

// Executor runs SQL against a connection pool or a transaction.
// Queries use PostgreSQL $n placeholders.
type Executor interface {
	// Begin starts a new transaction.
	Begin(ctx context.Context) (ExecutorTx, error)

	// Exec executes a query that doesn't return rows.
	// Returns the number of rows affected.
	Exec(ctx context.Context, sql string, args ...any) (int64, error)

	// Query executes a query that returns rows.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// ExecutorTx is an Executor that supports commit/rollback.
type ExecutorTx interface {
	Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
