// Package leadership elects one storefront replica to run shared
// background work, such as idle session cleanup, when several replicas use
// the same PostgreSQL session store.
//
// Election uses a TTL lease in the session store. The leader renews the
// lease before it expires; when renewal fails another replica can take
// over once the lease has lapsed.
package leadership

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/youssefsiam38/storefront/driver"
)

// Default configuration values
const (
	DefaultLeaseName       = "session_cleanup"
	DefaultLeaderTTL       = 30 * time.Second
	DefaultElectionPeriod  = 10 * time.Second
	DefaultReelectionDelay = 5 * time.Second
)

// Logger interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config holds configuration for the leader election system.
type Config struct {
	// LeaseName identifies the work being elected for.
	// Default: "session_cleanup"
	LeaseName string

	// LeaderTTL is how long a leader's lease is valid.
	// Default: 30 seconds
	LeaderTTL time.Duration

	// ElectionPeriod is how often to attempt becoming leader when not leader.
	// Default: 10 seconds
	ElectionPeriod time.Duration

	// ReelectionDelay is how long to wait between lease renewals. Should be
	// less than LeaderTTL.
	// Default: 5 seconds
	ReelectionDelay time.Duration

	Logger Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LeaseName:       DefaultLeaseName,
		LeaderTTL:       DefaultLeaderTTL,
		ElectionPeriod:  DefaultElectionPeriod,
		ReelectionDelay: DefaultReelectionDelay,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.LeaseName == "" {
		c.LeaseName = d.LeaseName
	}
	if c.LeaderTTL <= 0 {
		c.LeaderTTL = d.LeaderTTL
	}
	if c.ElectionPeriod <= 0 {
		c.ElectionPeriod = d.ElectionPeriod
	}
	if c.ReelectionDelay <= 0 {
		c.ReelectionDelay = d.ReelectionDelay
	}
}

// Callbacks are called when leadership status changes.
type Callbacks struct {
	// OnBecameLeader is called when this replica becomes the leader, with
	// the context passed to Start.
	OnBecameLeader func(ctx context.Context)

	// OnLostLeadership is called when this replica loses leadership:
	// renewal failed, Resign was called, or the elector stopped.
	OnLostLeadership func(ctx context.Context)
}

// Elector manages leader election for one replica.
type Elector struct {
	leases    driver.Leaser
	replicaID string
	config    Config
	callbacks Callbacks

	mu       sync.RWMutex
	isLeader bool

	started atomic.Bool
	done    chan struct{}
	cancel  context.CancelFunc
}

// NewElector creates a new leader elector for replicaID.
func NewElector(leases driver.Leaser, replicaID string, config *Config, callbacks Callbacks) *Elector {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	cfg.applyDefaults()

	return &Elector{
		leases:    leases,
		replicaID: replicaID,
		config:    cfg,
		callbacks: callbacks,
	}
}

// Start begins the election loop in a goroutine and returns immediately.
func (e *Elector) Start(ctx context.Context) error {
	if !e.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	e.done = make(chan struct{})
	ctx, e.cancel = context.WithCancel(ctx)
	go e.runElectionLoop(ctx)

	return nil
}

// Stop stops the election loop, resigning first if this replica leads.
func (e *Elector) Stop(ctx context.Context) error {
	if !e.started.Load() {
		return ErrNotStarted
	}

	e.cancel()
	<-e.done

	e.mu.Lock()
	wasLeader := e.isLeader
	e.isLeader = false
	e.mu.Unlock()

	if wasLeader {
		resignCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := e.leases.ReleaseLease(resignCtx, e.config.LeaseName, e.replicaID); err != nil {
			e.logWarn("failed to release lease", err)
		}

		if e.callbacks.OnLostLeadership != nil {
			e.callbacks.OnLostLeadership(ctx)
		}
	}

	e.started.Store(false)
	return nil
}

// IsLeader reports whether this replica currently leads.
func (e *Elector) IsLeader() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.isLeader
}

// IsRunning returns true if the elector is running.
func (e *Elector) IsRunning() bool {
	return e.started.Load()
}

// Resign voluntarily gives up leadership.
func (e *Elector) Resign(ctx context.Context) error {
	e.mu.Lock()
	wasLeader := e.isLeader
	e.isLeader = false
	e.mu.Unlock()

	if !wasLeader {
		return nil
	}

	if err := e.leases.ReleaseLease(ctx, e.config.LeaseName, e.replicaID); err != nil {
		return err
	}

	if e.callbacks.OnLostLeadership != nil {
		e.callbacks.OnLostLeadership(ctx)
	}
	return nil
}

func (e *Elector) runElectionLoop(ctx context.Context) {
	defer close(e.done)

	e.attemptElection(ctx)

	for {
		delay := e.config.ElectionPeriod
		if e.IsLeader() {
			delay = e.config.ReelectionDelay
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
			if e.IsLeader() {
				e.attemptReelection(ctx)
			} else {
				e.attemptElection(ctx)
			}
		}
	}
}

func (e *Elector) attemptElection(ctx context.Context) {
	elected, err := e.leases.AcquireLease(ctx, e.config.LeaseName, e.replicaID, e.config.LeaderTTL)
	if err != nil {
		// Retried on the next tick.
		e.logWarn("leader election failed", err)
		return
	}
	if !elected {
		return
	}

	e.mu.Lock()
	wasLeader := e.isLeader
	e.isLeader = true
	e.mu.Unlock()

	if !wasLeader {
		if e.config.Logger != nil {
			e.config.Logger.Info("became leader", "lease", e.config.LeaseName, "replica_id", e.replicaID)
		}
		if e.callbacks.OnBecameLeader != nil {
			e.callbacks.OnBecameLeader(ctx)
		}
	}
}

func (e *Elector) attemptReelection(ctx context.Context) {
	renewed, err := e.leases.RenewLease(ctx, e.config.LeaseName, e.replicaID, e.config.LeaderTTL)
	if err == nil && renewed {
		return
	}
	if err != nil {
		e.logWarn("lease renewal failed", err)
	}

	e.mu.Lock()
	e.isLeader = false
	e.mu.Unlock()

	if e.config.Logger != nil {
		e.config.Logger.Info("lost leadership", "lease", e.config.LeaseName, "replica_id", e.replicaID)
	}
	if e.callbacks.OnLostLeadership != nil {
		e.callbacks.OnLostLeadership(ctx)
	}
}

func (e *Elector) logWarn(msg string, err error) {
	if e.config.Logger != nil {
		e.config.Logger.Warn(msg, "lease", e.config.LeaseName, "error", err)
	}
}
