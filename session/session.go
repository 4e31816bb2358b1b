// Package session manages per-visitor state: the backend auth token, the
// signed-in user and the chosen locale.
//
// Values live in a driver.Store under the keys auth_token, auth_user (the
// user as JSON) and app_locale. Signing in or out publishes
// EventAuthChanged to subscribers so every view showing the user can
// refresh.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/youssefsiam38/storefront"
	"github.com/youssefsiam38/storefront/driver"
	"github.com/youssefsiam38/storefront/i18n"
)

// Persisted keys.
const (
	KeyToken  = "auth_token"
	KeyUser   = "auth_user"
	KeyLocale = "app_locale"
)

// Session is a snapshot of one visitor's state.
type Session struct {
	ID     string
	Token  string
	User   *storefront.User
	Locale i18n.Locale

	// LocaleSet is false when Locale is the manager default rather than a
	// stored choice.
	LocaleSet bool
}

// IsAuthenticated reports whether a token is present.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Token != ""
}

// Logger interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NewID returns a fresh random session ID.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an ID produced by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && id != ""
}

// Manager reads and writes sessions and publishes auth changes.
type Manager struct {
	store         driver.Store
	logger        Logger
	defaultLocale i18n.Locale

	subs subscriptions
}

// Option configures a Manager.
type Option func(*Manager)

// WithDefaultLocale sets the locale reported for sessions without one.
func WithDefaultLocale(l i18n.Locale) Option {
	return func(m *Manager) {
		if l.IsValid() {
			m.defaultLocale = l
		}
	}
}

// NewManager creates a manager over store. logger may be nil.
func NewManager(store driver.Store, logger Logger, opts ...Option) *Manager {
	m := &Manager{
		store:         store,
		logger:        logger,
		defaultLocale: i18n.DefaultLocale,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store returns the underlying store.
func (m *Manager) Store() driver.Store {
	return m.store
}

// DefaultLocale returns the locale used for sessions without one.
func (m *Manager) DefaultLocale() i18n.Locale {
	return m.defaultLocale
}

// Get loads the session. Missing values read as empty; a stored user that
// does not decode reads as no user.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	s := &Session{ID: id, Locale: m.defaultLocale}

	token, err := m.get(ctx, id, KeyToken)
	if err != nil {
		return nil, err
	}
	s.Token = token

	rawUser, err := m.get(ctx, id, KeyUser)
	if err != nil {
		return nil, err
	}
	if rawUser != "" {
		var u storefront.User
		if err := json.Unmarshal([]byte(rawUser), &u); err != nil {
			if m.logger != nil {
				m.logger.Warn("discarding unreadable session user", "session_id", id, "error", err)
			}
		} else {
			s.User = &u
		}
	}

	rawLocale, err := m.get(ctx, id, KeyLocale)
	if err != nil {
		return nil, err
	}
	if l, ok := i18n.ParseLocale(rawLocale); ok {
		s.Locale = l
		s.LocaleSet = true
	}
	return s, nil
}

func (m *Manager) get(ctx context.Context, id, key string) (string, error) {
	v, err := m.store.Get(ctx, id, key)
	if errors.Is(err, driver.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session %s: %w", key, err)
	}
	return v, nil
}

// SetAuth stores the token and user after a successful login or
// registration and publishes EventAuthChanged.
func (m *Manager) SetAuth(ctx context.Context, id, token string, user storefront.User) error {
	if id == "" {
		return ErrInvalidID
	}
	if token == "" {
		return ErrEmptyToken
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session user: %w", err)
	}
	// The token is written last: a session with a token always has the
	// matching user.
	if err := m.store.Set(ctx, id, KeyUser, string(raw)); err != nil {
		return fmt.Errorf("failed to save session user: %w", err)
	}
	if err := m.store.Set(ctx, id, KeyToken, token); err != nil {
		if derr := m.store.Delete(ctx, id, KeyToken, KeyUser); derr != nil && m.logger != nil {
			m.logger.Error("failed to roll back session user", "session_id", id, "error", derr)
		}
		return fmt.Errorf("failed to save session token: %w", err)
	}

	if m.logger != nil {
		m.logger.Info("session signed in", "session_id", id, "user_id", user.ID)
	}
	m.subs.dispatch(Event{Type: EventAuthChanged, SessionID: id, User: &user})
	return nil
}

// SetLocale stores the visitor's locale.
func (m *Manager) SetLocale(ctx context.Context, id string, l i18n.Locale) error {
	if id == "" {
		return ErrInvalidID
	}
	if !l.IsValid() {
		return fmt.Errorf("%w: %q", i18n.ErrUnsupportedLocale, l)
	}
	if err := m.store.Set(ctx, id, KeyLocale, string(l)); err != nil {
		return fmt.Errorf("failed to save session locale: %w", err)
	}
	return nil
}

// Clear signs the visitor out: the token and user are removed, the locale
// stays. EventAuthChanged is published even if nobody was signed in.
func (m *Manager) Clear(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}
	if err := m.store.Delete(ctx, id, KeyToken, KeyUser); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	if m.logger != nil {
		m.logger.Info("session signed out", "session_id", id)
	}
	m.subs.dispatch(Event{Type: EventAuthChanged, SessionID: id})
	return nil
}

// Touch marks the session as used so idle cleanup keeps it.
func (m *Manager) Touch(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}
	return m.store.Touch(ctx, id)
}

// Subscribe registers handler for every session event and returns a
// function that removes it.
func (m *Manager) Subscribe(handler Handler) func() {
	return m.subs.add(handler)
}
