package driver

import (
	"context"
	"fmt"
	"time"
)

// TableName is the table holding session values in SQL-backed stores.
const TableName = "storefront_session_values"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS storefront_session_values (
		session_id TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (session_id, key)
	)`,
	`CREATE INDEX IF NOT EXISTS storefront_session_values_updated_at_idx
		ON storefront_session_values (updated_at)`,
	`CREATE TABLE IF NOT EXISTS storefront_leases (
		name       TEXT PRIMARY KEY,
		holder_id  TEXT NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	)`,
}

// SQLStore implements Store on top of any PostgreSQL Executor. The pgxv5 and
// databasesql drivers both hand out an SQLStore bound to their pool.
type SQLStore struct {
	exec Executor
	now  func() time.Time
}

// NewSQLStore creates a store that runs its queries through exec.
func NewSQLStore(exec Executor) *SQLStore {
	return &SQLStore{exec: exec, now: time.Now}
}

// Migrate creates the session table if it does not exist.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.exec.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate session table: %w", err)
		}
	}
	return nil
}

// Get returns the value stored under key.
func (s *SQLStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	rows, err := s.exec.Query(ctx,
		`SELECT value FROM storefront_session_values WHERE session_id = $1 AND key = $2`,
		sessionID, key)
	if err != nil {
		return "", fmt.Errorf("failed to get session value: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", fmt.Errorf("failed to get session value: %w", err)
		}
		return "", ErrNotFound
	}
	var value string
	if err := rows.Scan(&value); err != nil {
		return "", fmt.Errorf("failed to scan session value: %w", err)
	}
	return value, nil
}

// Set upserts the value and refreshes the whole session's last use.
func (s *SQLStore) Set(ctx context.Context, sessionID, key, value string) error {
	now := s.now().UTC()

	tx, err := s.exec.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO storefront_session_values (session_id, key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, sessionID, key, value, now)
	if err != nil {
		return fmt.Errorf("failed to set session value: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE storefront_session_values SET updated_at = $2 WHERE session_id = $1`,
		sessionID, now); err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return tx.Commit(ctx)
}

// Delete removes keys, or the whole session when no keys are given.
func (s *SQLStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		if _, err := s.exec.Exec(ctx,
			`DELETE FROM storefront_session_values WHERE session_id = $1`, sessionID); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		return nil
	}

	tx, err := s.exec.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, key := range keys {
		if _, err := tx.Exec(ctx,
			`DELETE FROM storefront_session_values WHERE session_id = $1 AND key = $2`,
			sessionID, key); err != nil {
			return fmt.Errorf("failed to delete session value %q: %w", key, err)
		}
	}
	return tx.Commit(ctx)
}

// Touch refreshes the session's last use.
func (s *SQLStore) Touch(ctx context.Context, sessionID string) error {
	if _, err := s.exec.Exec(ctx,
		`UPDATE storefront_session_values SET updated_at = $2 WHERE session_id = $1`,
		sessionID, s.now().UTC()); err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

// DeleteIdle removes sessions whose values were all last used before the
// given time.
func (s *SQLStore) DeleteIdle(ctx context.Context, before time.Time) (int64, error) {
	rows, err := s.exec.Query(ctx, `
		WITH idle AS (
			SELECT session_id FROM storefront_session_values
			GROUP BY session_id
			HAVING MAX(updated_at) < $1
		), removed AS (
			DELETE FROM storefront_session_values
			WHERE session_id IN (SELECT session_id FROM idle)
			RETURNING session_id
		)
		SELECT COUNT(DISTINCT session_id) FROM removed
	`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete idle sessions: %w", err)
	}
	defer rows.Close()

	var n int64
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("failed to scan idle session count: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to delete idle sessions: %w", err)
	}
	return n, nil
}

// AcquireLease takes the named lease for holder when it is free, expired
// or already held by holder, and reports whether holder now owns it.
func (s *SQLStore) AcquireLease(ctx context.Context, name, holder string, ttl time.Duration) (bool, error) {
	n, err := s.exec.Exec(ctx, `
		INSERT INTO storefront_leases (name, holder_id, expires_at)
		VALUES ($1, $2, NOW() + make_interval(secs => $3::float8))
		ON CONFLICT (name) DO UPDATE SET holder_id = EXCLUDED.holder_id, expires_at = EXCLUDED.expires_at
		WHERE storefront_leases.expires_at < NOW() OR storefront_leases.holder_id = EXCLUDED.holder_id
	`, name, holder, ttl.Seconds())
	if err != nil {
		return false, fmt.Errorf("failed to acquire lease %q: %w", name, err)
	}
	return n > 0, nil
}

// RenewLease extends a lease holder still owns.
func (s *SQLStore) RenewLease(ctx context.Context, name, holder string, ttl time.Duration) (bool, error) {
	n, err := s.exec.Exec(ctx, `
		UPDATE storefront_leases
		SET expires_at = NOW() + make_interval(secs => $3::float8)
		WHERE name = $1 AND holder_id = $2 AND expires_at >= NOW()
	`, name, holder, ttl.Seconds())
	if err != nil {
		return false, fmt.Errorf("failed to renew lease %q: %w", name, err)
	}
	return n > 0, nil
}

// ReleaseLease gives up a lease held by holder.
func (s *SQLStore) ReleaseLease(ctx context.Context, name, holder string) error {
	if _, err := s.exec.Exec(ctx,
		`DELETE FROM storefront_leases WHERE name = $1 AND holder_id = $2`,
		name, holder); err != nil {
		return fmt.Errorf("failed to release lease %q: %w", name, err)
	}
	return nil
}

var _ Store = (*SQLStore)(nil)
var _ Migrator = (*SQLStore)(nil)
var _ Leaser = (*SQLStore)(nil)
