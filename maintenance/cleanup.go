// Package maintenance provides background services for a storefront
// instance. Cleanup purges sessions that have been idle longer than the
// session TTL.
package maintenance

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// Default cleanup configuration values
const (
	DefaultCleanupInterval = 10 * time.Minute
	DefaultSessionTTL      = 30 * 24 * time.Hour
)

// SessionPurger is the part of a session store cleanup needs.
type SessionPurger interface {
	DeleteIdle(ctx context.Context, before time.Time) (int64, error)
}

// CleanupConfig holds configuration for the cleanup service.
type CleanupConfig struct {
	// Interval is how often to run cleanup operations.
	// Default: 10 minutes
	Interval time.Duration

	// SessionTTL is how long a session may go unused before it is removed.
	// Default: 30 days
	SessionTTL time.Duration

	// OnSessionCleanup is called with the number of sessions removed, when
	// non-zero.
	OnSessionCleanup func(count int64)

	// OnError is called when a cleanup operation fails.
	OnError func(err error)

	// Now returns the current time. Default: time.Now
	Now func() time.Time
}

// DefaultCleanupConfig returns the default cleanup configuration.
func DefaultCleanupConfig() *CleanupConfig {
	return &CleanupConfig{
		Interval:   DefaultCleanupInterval,
		SessionTTL: DefaultSessionTTL,
	}
}

func (c *CleanupConfig) applyDefaults() {
	if c.Interval <= 0 {
		c.Interval = DefaultCleanupInterval
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = DefaultSessionTTL
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// CleanupResult holds the results of a cleanup operation.
type CleanupResult struct {
	// SessionsCleaned is the number of idle sessions removed.
	SessionsCleaned int64

	// Errors contains any errors that occurred during cleanup.
	Errors []error
}

// Cleanup periodically removes idle sessions.
type Cleanup struct {
	store  SessionPurger
	config CleanupConfig

	started atomic.Bool
	done    chan struct{}
	cancel  context.CancelFunc
}

// NewCleanup creates a new cleanup service.
func NewCleanup(store SessionPurger, config *CleanupConfig) *Cleanup {
	if config == nil {
		config = DefaultCleanupConfig()
	}
	cfg := *config
	cfg.applyDefaults()

	return &Cleanup{
		store:  store,
		config: cfg,
	}
}

// Start begins the cleanup loop.
// It returns immediately and runs cleanup operations in a goroutine.
func (c *Cleanup) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	c.done = make(chan struct{})
	ctx, c.cancel = context.WithCancel(ctx)
	go c.run(ctx)

	return nil
}

// Stop stops the cleanup loop and waits for it to exit.
func (c *Cleanup) Stop(ctx context.Context) error {
	if !c.started.Load() {
		return ErrNotStarted
	}

	c.cancel()
	select {
	case <-c.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	c.started.Store(false)
	return nil
}

// run is the main cleanup loop.
func (c *Cleanup) run(ctx context.Context) {
	defer close(c.done)

	// Run cleanup immediately on start
	c.runCleanup(ctx)

	ticker := time.NewTicker(c.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.runCleanup(ctx)
		}
	}
}

func (c *Cleanup) runCleanup(ctx context.Context) {
	result := c.RunOnce(ctx)

	if c.config.OnSessionCleanup != nil && result.SessionsCleaned > 0 {
		c.config.OnSessionCleanup(result.SessionsCleaned)
	}

	if c.config.OnError != nil {
		for _, err := range result.Errors {
			c.config.OnError(err)
		}
	}
}

// RunOnce performs cleanup operations once and returns the result.
func (c *Cleanup) RunOnce(ctx context.Context) *CleanupResult {
	result := &CleanupResult{}

	horizon := c.config.Now().Add(-c.config.SessionTTL)
	n, err := c.store.DeleteIdle(ctx, horizon)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("failed to purge idle sessions: %w", err))
	} else {
		result.SessionsCleaned = n
	}

	return result
}

// IsRunning returns true if the cleanup service is running.
func (c *Cleanup) IsRunning() bool {
	return c.started.Load()
}
