package session

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/youssefsiam38/storefront"
	"github.com/youssefsiam38/storefront/driver"
	"github.com/youssefsiam38/storefront/driver/memory"
	"github.com/youssefsiam38/storefront/i18n"
)

var alice = storefront.User{ID: "u1", Name: "Alice", Email: "alice@example.com", Birth: "1990-02-03"}

func TestManager_GetEmpty(t *testing.T) {
	m := NewManager(memory.New(), nil)
	s, err := m.Get(context.Background(), NewID())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if s.IsAuthenticated() {
		t.Error("IsAuthenticated() = true, want false")
	}
	if s.User != nil {
		t.Errorf("User = %+v, want nil", s.User)
	}
	if s.Locale != i18n.German || s.LocaleSet {
		t.Errorf("Locale, LocaleSet = %q, %v, want de, false", s.Locale, s.LocaleSet)
	}
}

func TestManager_SetAuthAndClear(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	m := NewManager(store, nil)
	id := NewID()

	if err := m.SetLocale(ctx, id, i18n.French); err != nil {
		t.Fatalf("SetLocale() error = %v", err)
	}
	if err := m.SetAuth(ctx, id, "tok", alice); err != nil {
		t.Fatalf("SetAuth() error = %v", err)
	}

	s, err := m.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	want := &Session{ID: id, Token: "tok", User: &alice, Locale: i18n.French, LocaleSet: true}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}

	raw, err := store.Get(ctx, id, KeyUser)
	if err != nil {
		t.Fatalf("store.Get(auth_user) error = %v", err)
	}
	if want := `{"id":"u1","name":"Alice","email":"alice@example.com","birth":"1990-02-03"}`; raw != want {
		t.Errorf("auth_user = %s, want %s", raw, want)
	}

	if err := m.Clear(ctx, id); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	s, err = m.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if s.IsAuthenticated() || s.User != nil {
		t.Errorf("after Clear got %+v, want signed out", s)
	}
	if s.Locale != i18n.French {
		t.Errorf("Locale after Clear = %q, want fr kept", s.Locale)
	}
}

func TestManager_CorruptUserReadsAsNone(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	id := NewID()
	_ = store.Set(ctx, id, KeyToken, "tok")
	_ = store.Set(ctx, id, KeyUser, "{not json")
	_ = store.Set(ctx, id, KeyLocale, "klingon")

	s, err := NewManager(store, nil, WithDefaultLocale(i18n.English)).Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if s.User != nil {
		t.Errorf("User = %+v, want nil", s.User)
	}
	if !s.IsAuthenticated() {
		t.Error("IsAuthenticated() = false, want true (token present)")
	}
	if s.Locale != i18n.English {
		t.Errorf("Locale = %q, want en fallback", s.Locale)
	}
}

func TestManager_Events(t *testing.T) {
	ctx := context.Background()
	m := NewManager(memory.New(), nil)
	id := NewID()

	var order []string
	var events []Event
	unsubA := m.Subscribe(func(e Event) {
		order = append(order, "a")
		events = append(events, e)
	})
	m.Subscribe(func(e Event) { order = append(order, "b") })

	if err := m.SetLocale(ctx, id, i18n.English); err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Fatalf("locale change published %d events, want 0", len(events))
	}

	if err := m.SetAuth(ctx, id, "tok", alice); err != nil {
		t.Fatal(err)
	}
	if err := m.Clear(ctx, id); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"a", "b", "a", "b"}, order); diff != "" {
		t.Errorf("handler order mismatch (-want +got):\n%s", diff)
	}
	wantEvents := []Event{
		{Type: EventAuthChanged, SessionID: id, User: &alice},
		{Type: EventAuthChanged, SessionID: id},
	}
	if diff := cmp.Diff(wantEvents, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}

	unsubA()
	unsubA()
	order = nil
	_ = m.Clear(ctx, id)
	if diff := cmp.Diff([]string{"b"}, order); diff != "" {
		t.Errorf("after unsubscribe (-want +got):\n%s", diff)
	}
}

func TestManager_HandlerMayUnsubscribeItself(t *testing.T) {
	m := NewManager(memory.New(), nil)
	calls := 0
	var unsub func()
	unsub = m.Subscribe(func(Event) {
		calls++
		unsub()
	})
	_ = m.Clear(context.Background(), NewID())
	_ = m.Clear(context.Background(), NewID())
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestManager_Validation(t *testing.T) {
	ctx := context.Background()
	m := NewManager(memory.New(), nil)

	if _, err := m.Get(ctx, ""); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Get(\"\") error = %v, want ErrInvalidID", err)
	}
	if err := m.SetAuth(ctx, NewID(), "", alice); !errors.Is(err, ErrEmptyToken) {
		t.Errorf("SetAuth() error = %v, want ErrEmptyToken", err)
	}
	if err := m.SetLocale(ctx, NewID(), i18n.Locale("xx")); !errors.Is(err, i18n.ErrUnsupportedLocale) {
		t.Errorf("SetLocale() error = %v, want ErrUnsupportedLocale", err)
	}
}

type failingStore struct {
	driver.Store
}

func (failingStore) Get(context.Context, string, string) (string, error) {
	return "", errors.New("connection refused")
}

func TestManager_StoreErrors(t *testing.T) {
	m := NewManager(failingStore{memory.New()}, nil)
	_, err := m.Get(context.Background(), NewID())
	if err == nil || err.Error() != "failed to read session auth_token: connection refused" {
		t.Errorf("Get() error = %v", err)
	}
}

// failingKeyStore fails every Set of one key.
type failingKeyStore struct {
	*memory.Store
	key string
}

func (s failingKeyStore) Set(ctx context.Context, sessionID, key, value string) error {
	if key == s.key {
		return errors.New("disk full")
	}
	return s.Store.Set(ctx, sessionID, key, value)
}

func TestManager_SetAuthFailureLeavesSignedOut(t *testing.T) {
	for _, key := range []string{KeyUser, KeyToken} {
		t.Run(key, func(t *testing.T) {
			ctx := context.Background()
			m := NewManager(failingKeyStore{Store: memory.New(), key: key}, nil)
			id := NewID()

			published := 0
			m.Subscribe(func(Event) { published++ })

			if err := m.SetAuth(ctx, id, "tok", alice); err == nil {
				t.Fatal("SetAuth() error = nil, want store failure")
			}
			s, err := m.Get(ctx, id)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if s.IsAuthenticated() || s.User != nil {
				t.Errorf("after failed SetAuth got token %q, user %+v, want signed out", s.Token, s.User)
			}
			if published != 0 {
				t.Errorf("failed SetAuth published %d events, want 0", published)
			}
		})
	}
}

func TestValidID(t *testing.T) {
	if !ValidID(NewID()) {
		t.Error("ValidID(NewID()) = false")
	}
	for _, id := range []string{"", "abc", "../../etc"} {
		if ValidID(id) {
			t.Errorf("ValidID(%q) = true, want false", id)
		}
	}
}
