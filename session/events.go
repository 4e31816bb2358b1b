package session

import (
	"sync"

	"github.com/youssefsiam38/storefront"
)

// EventType represents the type of event.
type EventType string

// EventAuthChanged is published after sign-in and sign-out.
const EventAuthChanged EventType = "auth_changed"

// Event describes a session change.
type Event struct {
	Type      EventType
	SessionID string

	// User is the signed-in user, nil after sign-out.
	User *storefront.User
}

// Handler is called when an event is published.
type Handler func(Event)

type subscription struct {
	id      int64
	handler Handler
}

type subscriptions struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID int64
}

func (s *subscriptions) add(h Handler) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscription{id: id, handler: h})

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *subscriptions) remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// dispatch calls handlers synchronously, in subscription order, outside
// the lock so a handler may subscribe or unsubscribe.
func (s *subscriptions) dispatch(e Event) {
	s.mu.RLock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()

	for _, sub := range subs {
		sub.handler(e)
	}
}
