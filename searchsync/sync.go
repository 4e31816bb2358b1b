package searchsync

import (
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultQuietPeriod is the idle time after the last keystroke before the
// input is committed.
const DefaultQuietPeriod = 400 * time.Millisecond

// Navigator performs a navigation to target (a path with query string).
type Navigator interface {
	Navigate(target string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(target string)

// Navigate calls f(target).
func (f NavigatorFunc) Navigate(target string) {
	f(target)
}

// Logger interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// State is the synchronizer's view of the search input.
type State struct {
	// RawInput mirrors the input control.
	RawInput string

	// Dirty is set by the first user edit and stays set until unmount.
	Dirty bool
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithPath sets the path navigations target. Default: "/catalog".
func WithPath(path string) Option {
	return func(s *Synchronizer) {
		s.path = path
	}
}

// WithQuietPeriod sets the debounce window.
func WithQuietPeriod(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d > 0 {
			s.quietPeriod = d
		}
	}
}

// WithDefaultSort sets the sort restored when the search is cleared.
func WithDefaultSort(sort string) Option {
	return func(s *Synchronizer) {
		if sort != "" {
			s.defaultSort = sort
		}
	}
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(s *Synchronizer) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets a logger for commit decisions.
func WithLogger(l Logger) Option {
	return func(s *Synchronizer) {
		s.logger = l
	}
}

// Synchronizer keeps a search input, the URL and the listing it drives
// eventually consistent.
//
// Keystrokes update the local input immediately and (re)arm a single
// debounce timer; when the input has been idle for the quiet period the
// trimmed term is committed as one navigation. URL changes only flow back
// into the input while the user has not edited it.
//
// All methods are safe for concurrent use. The navigator is always called
// without the internal lock held, so it may call back into the
// synchronizer.
type Synchronizer struct {
	nav         Navigator
	clock       Clock
	path        string
	quietPeriod time.Duration
	defaultSort string
	logger      Logger

	mu      sync.Mutex
	state   State
	current url.Values
	timer   Timer
	gen     uint64
	mounted bool
}

// New creates a synchronizer that commits through nav.
func New(nav Navigator, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		nav:         nav,
		clock:       RealClock(),
		path:        "/catalog",
		quietPeriod: DefaultQuietPeriod,
		defaultSort: DefaultSort,
		current:     url.Values{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QuietPeriod returns the configured debounce window.
func (s *Synchronizer) QuietPeriod() time.Duration {
	return s.quietPeriod
}

// OnMount initializes the input from the URL and clears the dirty flag.
func (s *Synchronizer) OnMount(current url.Values) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimerLocked()
	s.current = cloneValues(current)
	s.state = State{RawInput: QueryFrom(current)}
	s.mounted = true
}

// OnExternalURLChange records the new URL parameters. The input follows the
// URL's query only while the user has not edited it.
func (s *Synchronizer) OnExternalURLChange(current url.Values) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.mounted {
		return
	}
	s.current = cloneValues(current)
	if q := QueryFrom(current); !s.state.Dirty && q != s.state.RawInput {
		s.state.RawInput = q
	}
}

// OnUserInput records a keystroke: the input is updated at once and the
// debounce timer is restarted.
func (s *Synchronizer) OnUserInput(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.mounted {
		return
	}
	s.state.Dirty = true
	s.state.RawInput = value

	s.stopTimerLocked()
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.quietPeriod, func() {
		s.fire(gen)
	})
}

// fire commits the input once the quiet period of timer generation gen
// has elapsed.
func (s *Synchronizer) fire(gen uint64) {
	s.mu.Lock()
	if !s.mounted || gen != s.gen || !s.state.Dirty {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.gen++
	intent := CommitIntent(s.state.RawInput, s.current, s.defaultSort)
	s.mu.Unlock()

	s.commit("debounce", intent)
}

// OnSubmit commits the input immediately, bypassing the debounce timer.
// An empty term does not navigate; OnSubmit reports whether it did.
func (s *Synchronizer) OnSubmit() bool {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return false
	}
	s.state.Dirty = true
	s.stopTimerLocked()

	term := strings.TrimSpace(s.state.RawInput)
	if term == "" {
		s.mu.Unlock()
		return false
	}
	intent := CommitIntent(term, s.current, s.defaultSort)
	s.mu.Unlock()

	s.commit("submit", intent)
	return true
}

// OnUnmount cancels any pending commit. Later callbacks are ignored.
func (s *Synchronizer) OnUnmount() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimerLocked()
	s.mounted = false
}

// Snapshot returns the current input state.
func (s *Synchronizer) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pending reports whether a debounced commit is scheduled.
func (s *Synchronizer) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// stopTimerLocked cancels the pending timer. A callback that already
// started waiting for the lock sees a newer generation and returns.
func (s *Synchronizer) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *Synchronizer) commit(trigger string, intent Intent) {
	target := intent.URL(s.path)
	if s.logger != nil {
		s.logger.Debug("search commit", "trigger", trigger, "target", target)
	}
	s.nav.Navigate(target)
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
