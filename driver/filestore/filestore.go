// Package filestore provides a session store persisted to a single TOML file.
// It backs the terminal client, where one user owns the file.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/youssefsiam38/storefront/driver"
)

type fileSession struct {
	UpdatedAt time.Time         `toml:"updated_at"`
	Values    map[string]string `toml:"values"`
}

type fileData struct {
	Sessions map[string]fileSession `toml:"sessions"`
}

// Store keeps sessions in memory and rewrites the file on every change.
type Store struct {
	path string
	now  func() time.Time

	mu   sync.Mutex
	data fileData
}

// Open loads path, creating an empty store when the file does not exist.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		now:  time.Now,
		data: fileData{Sessions: make(map[string]fileSession)},
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	if err := toml.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", path, err)
	}
	if s.data.Sessions == nil {
		s.data.Sessions = make(map[string]fileSession)
	}
	return s, nil
}

// DefaultPath returns the session file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "storefront", "session.toml"), nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *Store) Get(_ context.Context, sessionID, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.data.Sessions[sessionID].Values[key]; ok {
		return v, nil
	}
	return "", driver.ErrNotFound
}

// Set stores value under key and saves the file.
func (s *Store) Set(_ context.Context, sessionID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.data.Sessions[sessionID]
	if sess.Values == nil {
		sess.Values = make(map[string]string)
	}
	sess.Values[key] = value
	sess.UpdatedAt = s.now().UTC()
	s.data.Sessions[sessionID] = sess
	return s.saveLocked()
}

// Delete removes keys, or the whole session when none are given.
func (s *Store) Delete(_ context.Context, sessionID string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.data.Sessions[sessionID]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(sess.Values, k)
	}
	if len(keys) == 0 || len(sess.Values) == 0 {
		delete(s.data.Sessions, sessionID)
	}
	return s.saveLocked()
}

// Touch refreshes the session's last use.
func (s *Store) Touch(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.data.Sessions[sessionID]
	if !ok {
		return nil
	}
	sess.UpdatedAt = s.now().UTC()
	s.data.Sessions[sessionID] = sess
	return s.saveLocked()
}

// DeleteIdle removes sessions last used before the given time.
func (s *Store) DeleteIdle(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, sess := range s.data.Sessions {
		if sess.UpdatedAt.Before(before) {
			delete(s.data.Sessions, id)
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return n, s.saveLocked()
}

// saveLocked writes the file through a temp file and rename.
func (s *Store) saveLocked() error {
	raw, err := toml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("failed to encode sessions: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write sessions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write sessions: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("failed to chmod session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

var _ driver.Store = (*Store)(nil)
