package searchsync

import (
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/youssefsiam38/storefront/internal/testutil"
)

// manualClock adapts testutil.ManualClock to Clock.
type manualClock struct {
	*testutil.ManualClock
}

func (c manualClock) AfterFunc(d time.Duration, f func()) Timer {
	return c.ManualClock.AfterFunc(d, f)
}

// recorder is a Navigator that records every target.
type recorder struct {
	mu      sync.Mutex
	targets []string
}

func (r *recorder) Navigate(target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = append(r.targets, target)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.targets...)
}

func newTestSync(t *testing.T, current string) (*Synchronizer, *recorder, *testutil.ManualClock) {
	t.Helper()
	clock := testutil.NewManualClock()
	nav := &recorder{}
	s := New(nav, WithClock(manualClock{clock}), WithQuietPeriod(400*time.Millisecond))
	s.OnMount(mustQuery(t, current))
	return s, nav, clock
}

func mustQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	v, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("ParseQuery(%q) error = %v", raw, err)
	}
	return v
}

func TestOnMount_ReadsQuery(t *testing.T) {
	s, _, _ := newTestSync(t, "q=lamp&page=2")
	got := s.Snapshot()
	want := State{RawInput: "lamp", Dirty: false}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Snapshot() mismatch (-want +got):\n%s", diff)
	}
}

func TestOnExternalURLChange_FollowsURLUntilDirty(t *testing.T) {
	s, _, _ := newTestSync(t, "")

	s.OnExternalURLChange(mustQuery(t, "q=chair"))
	if got := s.Snapshot().RawInput; got != "chair" {
		t.Fatalf("RawInput = %q, want chair", got)
	}

	s.OnUserInput("cha")
	for _, q := range []string{"q=table", "", "q=chair&page=3"} {
		s.OnExternalURLChange(mustQuery(t, q))
		if got := s.Snapshot().RawInput; got != "cha" {
			t.Errorf("after URL %q RawInput = %q, want cha", q, got)
		}
	}
}

func TestOnUserInput_ImmediateEcho(t *testing.T) {
	s, nav, _ := newTestSync(t, "")

	s.OnUserInput("m")
	got := s.Snapshot()
	if got.RawInput != "m" || !got.Dirty {
		t.Errorf("Snapshot() = %+v, want RawInput=m Dirty=true", got)
	}
	if len(nav.all()) != 0 {
		t.Errorf("navigations = %v, want none before the quiet period", nav.all())
	}
}

func TestDebounce_OneNavigationAfterPause(t *testing.T) {
	s, nav, clock := newTestSync(t, "")

	s.OnUserInput("  wireless mouse  ")
	clock.Advance(399 * time.Millisecond)
	if len(nav.all()) != 0 {
		t.Fatalf("navigated before quiet period: %v", nav.all())
	}

	clock.Advance(time.Millisecond)
	want := []string{"/catalog?q=wireless+mouse"}
	if diff := cmp.Diff(want, nav.all()); diff != "" {
		t.Errorf("navigations mismatch (-want +got):\n%s", diff)
	}

	clock.Advance(10 * time.Second)
	if got := len(nav.all()); got != 1 {
		t.Errorf("navigations = %d, want exactly 1", got)
	}
}

func TestDebounce_ContinuousTypingNoIntermediate(t *testing.T) {
	s, nav, clock := newTestSync(t, "")

	for _, v := range []string{"w", "wi", "wir", "wire", "wirel", "wireless"} {
		s.OnUserInput(v)
		clock.Advance(399 * time.Millisecond)
	}
	if len(nav.all()) != 0 {
		t.Fatalf("intermediate navigations: %v", nav.all())
	}
	if got := clock.Pending(); got != 1 {
		t.Errorf("pending timers = %d, want 1", got)
	}

	clock.Advance(time.Millisecond)
	if diff := cmp.Diff([]string{"/catalog?q=wireless"}, nav.all()); diff != "" {
		t.Errorf("navigations mismatch (-want +got):\n%s", diff)
	}
}

func TestDebounce_EmptyTermRevertsToSort(t *testing.T) {
	tests := []struct {
		name    string
		current string
		want    string
	}{
		{"default sort", "q=lamp&page=3", "/catalog?sort=newest"},
		{"keeps current sort", "q=lamp&sort=top-rated&page=2", "/catalog?sort=top-rated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, nav, clock := newTestSync(t, tt.current)
			s.OnUserInput("   ")
			clock.Advance(400 * time.Millisecond)

			if diff := cmp.Diff([]string{tt.want}, nav.all()); diff != "" {
				t.Errorf("navigations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDebounce_PreservesPageUnlessFirst(t *testing.T) {
	tests := []struct {
		current string
		want    string
	}{
		{"page=3", "/catalog?page=3&q=desk"},
		{"page=1", "/catalog?q=desk"},
		{"sort=top-rated", "/catalog?q=desk"},
		{"page=abc", "/catalog?q=desk"},
	}

	for _, tt := range tests {
		t.Run(tt.current, func(t *testing.T) {
			s, nav, clock := newTestSync(t, tt.current)
			s.OnUserInput("desk")
			clock.Advance(400 * time.Millisecond)

			if diff := cmp.Diff([]string{tt.want}, nav.all()); diff != "" {
				t.Errorf("navigations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDebounce_UsesLatestURLParams(t *testing.T) {
	s, nav, clock := newTestSync(t, "")

	s.OnUserInput("desk")
	s.OnExternalURLChange(mustQuery(t, "page=4"))
	clock.Advance(400 * time.Millisecond)

	if diff := cmp.Diff([]string{"/catalog?page=4&q=desk"}, nav.all()); diff != "" {
		t.Errorf("navigations mismatch (-want +got):\n%s", diff)
	}
}

func TestOnSubmit(t *testing.T) {
	t.Run("commits immediately and cancels timer", func(t *testing.T) {
		s, nav, clock := newTestSync(t, "")
		s.OnUserInput("  lamp ")

		if !s.OnSubmit() {
			t.Fatal("OnSubmit() = false, want true")
		}
		if diff := cmp.Diff([]string{"/catalog?q=lamp"}, nav.all()); diff != "" {
			t.Errorf("navigations mismatch (-want +got):\n%s", diff)
		}

		clock.Advance(time.Second)
		if got := len(nav.all()); got != 1 {
			t.Errorf("navigations = %d, want the debounced commit cancelled", got)
		}
	})

	t.Run("empty term does not navigate", func(t *testing.T) {
		s, nav, clock := newTestSync(t, "q=lamp&sort=top-rated")
		s.OnUserInput("  ")

		if s.OnSubmit() {
			t.Error("OnSubmit() = true, want false for empty term")
		}
		clock.Advance(time.Second)
		if len(nav.all()) != 0 {
			t.Errorf("navigations = %v, want none", nav.all())
		}
	})

	t.Run("submit without typing uses mounted query", func(t *testing.T) {
		s, nav, _ := newTestSync(t, "q=sofa")
		if !s.OnSubmit() {
			t.Fatal("OnSubmit() = false, want true")
		}
		if diff := cmp.Diff([]string{"/catalog?q=sofa"}, nav.all()); diff != "" {
			t.Errorf("navigations mismatch (-want +got):\n%s", diff)
		}
		if !s.Snapshot().Dirty {
			t.Error("Dirty = false after submit, want true")
		}
	})
}

func TestOnUnmount_CancelsPending(t *testing.T) {
	s, nav, clock := newTestSync(t, "")
	s.OnUserInput("lamp")
	if !s.Pending() {
		t.Fatal("Pending() = false after input")
	}

	s.OnUnmount()
	clock.Advance(time.Second)

	if len(nav.all()) != 0 {
		t.Errorf("navigations = %v, want none after unmount", nav.all())
	}
	if clock.Pending() != 0 {
		t.Errorf("pending timers = %d, want 0", clock.Pending())
	}

	s.OnUserInput("ignored")
	if got := s.Snapshot().RawInput; got != "lamp" {
		t.Errorf("RawInput = %q, want input ignored after unmount", got)
	}
}

func TestDirty_LatchesAcrossCommits(t *testing.T) {
	s, _, clock := newTestSync(t, "")
	s.OnUserInput("lamp")
	clock.Advance(400 * time.Millisecond)

	s.OnExternalURLChange(mustQuery(t, "q=other"))
	if got := s.Snapshot(); !got.Dirty || got.RawInput != "lamp" {
		t.Errorf("Snapshot() = %+v, want dirty flag latched", got)
	}

	s.OnMount(mustQuery(t, "q=other"))
	if got := s.Snapshot(); got.Dirty || got.RawInput != "other" {
		t.Errorf("Snapshot() after remount = %+v, want fresh state", got)
	}
}

func TestNavigatorMayReenter(t *testing.T) {
	clock := testutil.NewManualClock()
	var s *Synchronizer
	var seen []string
	nav := NavigatorFunc(func(target string) {
		seen = append(seen, target)
		u, _ := url.Parse(target)
		s.OnExternalURLChange(u.Query())
	})
	s = New(nav, WithClock(manualClock{clock}), WithPath("/search"))
	s.OnMount(url.Values{})

	s.OnUserInput("rug")
	clock.Advance(DefaultQuietPeriod)

	if diff := cmp.Diff([]string{"/search?q=rug"}, seen); diff != "" {
		t.Errorf("navigations mismatch (-want +got):\n%s", diff)
	}
	if got := s.Snapshot().RawInput; got != "rug" {
		t.Errorf("RawInput = %q, want rug", got)
	}
}

func TestRealClock(t *testing.T) {
	done := make(chan string, 1)
	s := New(NavigatorFunc(func(target string) { done <- target }), WithQuietPeriod(5*time.Millisecond))
	s.OnMount(url.Values{})
	s.OnUserInput("vase")

	select {
	case got := <-done:
		if got != "/catalog?q=vase" {
			t.Errorf("target = %q, want /catalog?q=vase", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("debounced navigation never happened")
	}
}

func TestCommitIntent(t *testing.T) {
	tests := []struct {
		name    string
		term    string
		current string
		want    Intent
	}{
		{"query", " a b ", "", Intent{Query: "a b"}},
		{"query keeps page", "a", "page=2", Intent{Query: "a", Page: 2}},
		{"empty default sort", "", "page=5", Intent{Sort: "newest"}},
		{"empty current sort", "\t", "sort=top-rated", Intent{Sort: "top-rated"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CommitIntent(tt.term, mustQuery(t, tt.current), DefaultSort)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("CommitIntent() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIntent_URL(t *testing.T) {
	if got := (Intent{}).URL("/catalog"); got != "/catalog" {
		t.Errorf("URL() = %q, want bare path", got)
	}
	if got := (Intent{Sort: "newest", Page: 1}).URL("/catalog"); got != "/catalog?sort=newest" {
		t.Errorf("URL() = %q, want page 1 omitted", got)
	}
}
