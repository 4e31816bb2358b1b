// Package databasesql provides a database/sql session driver backed by lib/pq.
package databasesql

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/youssefsiam38/storefront/driver"
)

// DriverName is the database/sql driver name registered by lib/pq.
const DriverName = "postgres"

// Driver binds a session store to a *sql.DB.
type Driver struct {
	db *sql.DB
}

// New creates a new database/sql driver using the provided connection.
func New(db *sql.DB) *Driver {
	return &Driver{db: db}
}

// Open connects to databaseURL through lib/pq.
func Open(ctx context.Context, databaseURL string) (*Driver, error) {
	db, err := sql.Open(DriverName, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return New(db), nil
}

// Store returns the session store backed by the database.
func (d *Driver) Store() *driver.SQLStore {
	return driver.NewSQLStore(&Executor{db: d.db})
}

// DB returns the underlying database connection.
func (d *Driver) DB() *sql.DB {
	return d.db
}

// Close closes the database.
func (d *Driver) Close() error {
	return d.db.Close()
}

// Executor wraps *sql.DB.
type Executor struct {
	db *sql.DB
}

// Begin starts a new transaction.
func (e *Executor) Begin(ctx context.Context) (driver.ExecutorTx, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &ExecutorTx{tx: tx}, nil
}

// Exec executes a query that doesn't return rows.
func (e *Executor) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return execResult(e.db.ExecContext(ctx, query, args...))
}

// Query executes a query that returns rows.
func (e *Executor) Query(ctx context.Context, query string, args ...any) (driver.Rows, error) {
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &rowsWrapper{rows}, nil
}

// ExecutorTx wraps *sql.Tx.
type ExecutorTx struct {
	tx *sql.Tx
}

// Begin is not supported inside a database/sql transaction; it returns the
// same transaction.
func (e *ExecutorTx) Begin(ctx context.Context) (driver.ExecutorTx, error) {
	return e, nil
}

// Exec executes a query within the transaction.
func (e *ExecutorTx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return execResult(e.tx.ExecContext(ctx, query, args...))
}

// Query executes a query within the transaction.
func (e *ExecutorTx) Query(ctx context.Context, query string, args ...any) (driver.Rows, error) {
	rows, err := e.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &rowsWrapper{rows}, nil
}

// Commit commits the transaction.
func (e *ExecutorTx) Commit(ctx context.Context) error {
	return e.tx.Commit()
}

// Rollback rolls back the transaction.
func (e *ExecutorTx) Rollback(ctx context.Context) error {
	return e.tx.Rollback()
}

func execResult(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// rowsWrapper adapts *sql.Rows to driver.Rows.
type rowsWrapper struct {
	*sql.Rows
}

// Close closes the Rows.
func (r *rowsWrapper) Close() {
	_ = r.Rows.Close()
}
