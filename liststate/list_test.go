package liststate

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type review struct {
	ID    string
	Stars int
}

func TestState_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from State
		to   State
		want bool
	}{
		{StateIdle, StateLoading, true},
		{StateIdle, StateLoaded, false},
		{StateLoading, StateLoading, true},
		{StateLoading, StateLoaded, true},
		{StateLoading, StateErrored, true},
		{StateLoading, StateIdle, false},
		{StateLoaded, StateLoading, true},
		{StateLoaded, StateErrored, false},
		{StateErrored, StateLoading, true},
		{StateErrored, StateLoaded, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	for _, s := range AllStates() {
		if !s.IsValid() {
			t.Errorf("State(%q).IsValid() = false, want true", s)
		}
	}
	if State("done").IsValid() {
		t.Error("State(done).IsValid() = true, want false")
	}
	if StateLoading.IsSettled() {
		t.Error("StateLoading.IsSettled() = true, want false")
	}
}

func TestQuery(t *testing.T) {
	base := Query{Resource: "p1", Stars: 3, Page: 4, Limit: 5}

	if got, want := base.WithStars(5), (Query{Resource: "p1", Stars: 5, Page: 1, Limit: 5}); got != want {
		t.Errorf("WithStars() = %+v, want %+v", got, want)
	}
	if got, want := base.WithPage(2), (Query{Resource: "p1", Stars: 3, Page: 2, Limit: 5}); got != want {
		t.Errorf("WithPage() = %+v, want %+v", got, want)
	}
	if got := base.WithPage(-3).Page; got != 1 {
		t.Errorf("WithPage(-3).Page = %d, want 1", got)
	}
	if got, want := base.WithResource("p2"), (Query{Resource: "p2", Page: 1, Limit: 5}); got != want {
		t.Errorf("WithResource() = %+v, want %+v", got, want)
	}

	want := url.Values{"stars": {"3"}, "page": {"4"}, "limit": {"5"}}
	if diff := cmp.Diff(want, base.Values()); diff != "" {
		t.Errorf("Values() mismatch (-want +got):\n%s", diff)
	}
	if got := (Query{Page: 1}).Values().Encode(); got != "page=1" {
		t.Errorf("Values().Encode() = %q, want page=1", got)
	}
}

func TestList_FilterResetsPage(t *testing.T) {
	l := New[review](context.Background(), Query{Resource: "p1", Limit: 5})
	req := l.SetPage(3)
	l.Apply(req, Result[review]{Page: 3, TotalPages: 4})

	req = l.SetFilter(5)
	if req.Query.Page != 1 || req.Query.Stars != 5 {
		t.Errorf("SetFilter() query = %+v, want stars=5 page=1", req.Query)
	}

	req = l.SetPage(2)
	if req.Query.Page != 2 || req.Query.Stars != 5 {
		t.Errorf("SetPage() query = %+v, want filter kept", req.Query)
	}
}

func TestList_ApplyAndFail(t *testing.T) {
	l := New[review](context.Background(), Query{Resource: "p1"})
	if got := l.Snapshot().State; got != StateIdle {
		t.Fatalf("State = %v, want idle", got)
	}

	req := l.Reload()
	if got := l.Snapshot().State; got != StateLoading {
		t.Fatalf("State = %v, want loading", got)
	}
	items := []review{{ID: "r1", Stars: 4}}
	if !l.Apply(req, Result[review]{Items: items, Total: 1, TotalPages: 1, Page: 1}) {
		t.Fatal("Apply() = false, want true")
	}
	snap := l.Snapshot()
	if snap.State != StateLoaded || snap.Total != 1 {
		t.Errorf("Snapshot() = %+v, want loaded with 1 item", snap)
	}
	if diff := cmp.Diff(items, snap.Items); diff != "" {
		t.Errorf("Items mismatch (-want +got):\n%s", diff)
	}
	if req.Ctx.Err() == nil {
		t.Error("request context still live after Apply")
	}

	req = l.SetFilter(1)
	if !l.Fail(req, errors.New("boom")) {
		t.Fatal("Fail() = false, want true")
	}
	snap = l.Snapshot()
	if snap.State != StateErrored || snap.Err != "boom" {
		t.Errorf("Snapshot() = %+v, want errored with boom", snap)
	}
	if l.Apply(req, Result[review]{}) {
		t.Error("Apply() after Fail = true, want false")
	}
}

func TestList_SetResourceClearsItems(t *testing.T) {
	l := New[review](context.Background(), Query{Resource: "p1"})
	req := l.Reload()
	l.Apply(req, Result[review]{Items: []review{{ID: "r1"}}, Total: 1, Page: 1, TotalPages: 1})
	l.SetFilter(2)

	req = l.SetResource("p2")
	snap := l.Snapshot()
	if len(snap.Items) != 0 || snap.Total != 0 {
		t.Errorf("Snapshot() = %+v, want items cleared", snap)
	}
	if req.Query != (Query{Resource: "p2", Page: 1}) {
		t.Errorf("SetResource() query = %+v, want fresh query for p2", req.Query)
	}
}

func TestList_LastRequestWins(t *testing.T) {
	l := New[review](context.Background(), Query{Resource: "p1", Limit: 5})

	slow := l.SetFilter(5)
	fast := l.SetFilter(4)

	if slow.Ctx.Err() == nil {
		t.Error("superseded request context not cancelled")
	}
	if !l.Apply(fast, Result[review]{Items: []review{{ID: "four", Stars: 4}}, Total: 1, TotalPages: 1, Page: 1}) {
		t.Fatal("Apply(fast) = false, want true")
	}
	if l.Apply(slow, Result[review]{Items: []review{{ID: "five", Stars: 5}}, Total: 9, TotalPages: 2, Page: 1}) {
		t.Error("Apply(slow) = true, want stale result dropped")
	}
	if l.Fail(slow, errors.New("late")) {
		t.Error("Fail(slow) = true, want stale failure dropped")
	}

	snap := l.Snapshot()
	if snap.Query.Stars != 4 || snap.State != StateLoaded {
		t.Errorf("Snapshot() = %+v, want loaded 4-star filter", snap)
	}
	if diff := cmp.Diff([]review{{ID: "four", Stars: 4}}, snap.Items); diff != "" {
		t.Errorf("Items mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_SlowOlderResponseArrivesLast(t *testing.T) {
	l := New[review](context.Background(), Query{Resource: "p1", Limit: 5})

	release := make(chan struct{})
	fetch := func(ctx context.Context, q Query) (Result[review], error) {
		if q.Stars == 5 {
			<-release
			return Result[review]{Items: []review{{ID: "five", Stars: 5}}, Page: 1, TotalPages: 1, Total: 1}, nil
		}
		return Result[review]{Items: []review{{ID: "four", Stars: 4}}, Page: 1, TotalPages: 1, Total: 1}, nil
	}

	var wg sync.WaitGroup
	slowApplied := make(chan bool, 1)
	slow := l.SetFilter(5)
	wg.Add(1)
	go func() {
		defer wg.Done()
		slowApplied <- Load(l, slow, fetch)
	}()

	fast := l.SetFilter(4)
	if !Load(l, fast, fetch) {
		t.Fatal("Load(fast) = false, want true")
	}
	close(release)
	wg.Wait()

	if <-slowApplied {
		t.Error("Load(slow) = true, want false")
	}
	snap := l.Snapshot()
	if snap.Query.Stars != 4 {
		t.Errorf("Query.Stars = %d, want 4", snap.Query.Stars)
	}
	if diff := cmp.Diff([]review{{ID: "four", Stars: 4}}, snap.Items); diff != "" {
		t.Errorf("Items mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_CancelledFetchIsDropped(t *testing.T) {
	l := New[review](context.Background(), Query{Resource: "p1"})
	fetch := func(ctx context.Context, q Query) (Result[review], error) {
		select {
		case <-ctx.Done():
			return Result[review]{}, ctx.Err()
		case <-time.After(2 * time.Second):
			return Result[review]{Page: 1}, nil
		}
	}

	first := l.SetPage(1)
	done := make(chan bool, 1)
	go func() { done <- Load(l, first, fetch) }()
	l.SetPage(2)

	select {
	case applied := <-done:
		if applied {
			t.Error("Load() = true for cancelled request, want false")
		}
	case <-time.After(time.Second):
		t.Fatal("superseded fetch was not cancelled")
	}
	if got := l.Snapshot().State; got != StateLoading {
		t.Errorf("State = %v, want loading for the page 2 request", got)
	}
}

func TestList_Close(t *testing.T) {
	l := New[review](context.Background(), Query{Resource: "p1"})
	req := l.Reload()
	l.Close()

	if req.Ctx.Err() == nil {
		t.Error("request context live after Close")
	}
	if l.Apply(req, Result[review]{Page: 1}) {
		t.Error("Apply() after Close = true, want false")
	}
	if got := l.Snapshot().State; got != StateIdle {
		t.Errorf("State = %v, want idle", got)
	}
}

func TestWindow(t *testing.T) {
	pages := func(items []PageItem) []string {
		var out []string
		for _, it := range items {
			switch {
			case it.Ellipsis:
				out = append(out, "...")
			case it.Current:
				out = append(out, "["+strconv.Itoa(it.Page)+"]")
			default:
				out = append(out, strconv.Itoa(it.Page))
			}
		}
		return out
	}

	tests := []struct {
		name       string
		page       int
		totalPages int
		want       []string
	}{
		{"single page", 1, 1, nil},
		{"few pages", 2, 3, []string{"1", "[2]", "3"}},
		{"start", 1, 10, []string{"[1]", "2", "3", "4", "5", "...", "10"}},
		{"middle", 5, 10, []string{"1", "...", "3", "4", "[5]", "6", "7", "...", "10"}},
		{"near end", 9, 10, []string{"1", "...", "6", "7", "8", "[9]", "10"}},
		{"adjacent first", 4, 10, []string{"1", "2", "3", "[4]", "5", "6", "...", "10"}},
		{"page past end", 12, 6, []string{"1", "2", "3", "4", "5", "[6]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pages(Window(tt.page, tt.totalPages, DefaultMaxVisible))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Window(%d, %d) mismatch (-want +got):\n%s", tt.page, tt.totalPages, diff)
			}
		})
	}
}
