// Package memory provides a process-local session store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/youssefsiam38/storefront/driver"
)

type session struct {
	values  map[string]string
	updated time.Time
}

// Store keeps sessions in a map. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithNow sets the time source used to stamp session activity.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]*session),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the value stored under key.
func (s *Store) Get(_ context.Context, sessionID, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sess, ok := s.sessions[sessionID]; ok {
		if v, ok := sess.values[key]; ok {
			return v, nil
		}
	}
	return "", driver.ErrNotFound
}

// Set stores value under key.
func (s *Store) Set(_ context.Context, sessionID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{values: make(map[string]string)}
		s.sessions[sessionID] = sess
	}
	sess.values[key] = value
	sess.updated = s.now()
	return nil
}

// Delete removes keys, or the whole session when none are given.
func (s *Store) Delete(_ context.Context, sessionID string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	if len(keys) == 0 {
		delete(s.sessions, sessionID)
		return nil
	}
	for _, k := range keys {
		delete(sess.values, k)
	}
	if len(sess.values) == 0 {
		delete(s.sessions, sessionID)
	}
	return nil
}

// Touch refreshes the session's last use.
func (s *Store) Touch(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[sessionID]; ok {
		sess.updated = s.now()
	}
	return nil
}

// DeleteIdle removes sessions last used before the given time.
func (s *Store) DeleteIdle(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, sess := range s.sessions {
		if sess.updated.Before(before) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

var _ driver.Store = (*Store)(nil)
