// Package driver provides the session storage abstraction used by the
// storefront.
//
// A session is a set of string values keyed by name (auth_token, auth_user,
// app_locale) and addressed by an opaque session ID. Drivers persist those
// values and track when each session was last used so idle sessions can be
// purged.
//
// Implementations:
//   - github.com/youssefsiam38/storefront/driver/memory (process-local, default)
//   - github.com/youssefsiam38/storefront/driver/filestore (single TOML file)
//   - github.com/youssefsiam38/storefront/driver/pgxv5 (PostgreSQL via pgxpool)
//   - github.com/youssefsiam38/storefront/driver/databasesql (PostgreSQL via lib/pq)
package driver

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Store.Get when a session has no value for a key.
var ErrNotFound = errors.New("session value not found")

// Store persists session values.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, sessionID, key string) (string, error)

	// Set stores value under key and marks the session as used.
	Set(ctx context.Context, sessionID, key, value string) error

	// Delete removes keys from the session. With no keys, the whole session
	// is removed.
	Delete(ctx context.Context, sessionID string, keys ...string) error

	// Touch marks the session as used. Unknown sessions are ignored.
	Touch(ctx context.Context, sessionID string) error

	// DeleteIdle removes every session last used before the given time and
	// returns how many sessions were removed.
	DeleteIdle(ctx context.Context, before time.Time) (int64, error)
}

// Migrator is implemented by stores that need schema setup.
type Migrator interface {
	Migrate(ctx context.Context) error
}

// Leaser is implemented by stores shared between storefront replicas. A
// lease names one holder until it expires or is released.
type Leaser interface {
	AcquireLease(ctx context.Context, name, holder string, ttl time.Duration) (bool, error)
	RenewLease(ctx context.Context, name, holder string, ttl time.Duration) (bool, error)
	ReleaseLease(ctx context.Context, name, holder string) error
}
