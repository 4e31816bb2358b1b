package liststate

import (
	"context"
	"errors"
	"sync"
)

// Result is one successful page of items.
type Result[T any] struct {
	Items      []T
	Total      int
	TotalPages int
	Page       int
}

// Request is an issued fetch. Its context is cancelled as soon as a newer
// request is issued or the list is closed.
type Request struct {
	Gen   uint64
	Query Query
	Ctx   context.Context
}

// Snapshot is a consistent copy of a list's state.
type Snapshot[T any] struct {
	State      State
	Query      Query
	Items      []T
	Total      int
	TotalPages int
	Page       int
	Err        string
}

// Filtered reports whether a rating filter is active.
func (s Snapshot[T]) Filtered() bool {
	return s.Query.Stars > 0
}

// List is a paginated, filterable listing. It is safe for concurrent use.
type List[T any] struct {
	parent context.Context

	mu         sync.Mutex
	state      State
	query      Query
	gen        uint64
	cancel     context.CancelFunc
	items      []T
	total      int
	totalPages int
	page       int
	err        string
}

// New creates an idle list. Request contexts derive from ctx.
func New[T any](ctx context.Context, initial Query) *List[T] {
	if initial.Page < 1 {
		initial.Page = 1
	}
	return &List[T]{
		parent: ctx,
		state:  StateIdle,
		query:  initial,
	}
}

// SetResource switches to another resource, dropping the filter, the page
// and the items shown for the previous resource.
func (l *List[T]) SetResource(resource string) Request {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = nil
	l.total = 0
	l.totalPages = 0
	return l.beginLocked(l.query.WithResource(resource))
}

// SetFilter applies a rating filter (0 = all) and returns to the first page.
func (l *List[T]) SetFilter(stars int) Request {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.beginLocked(l.query.WithStars(stars))
}

// SetPage moves to page, keeping the current filter.
func (l *List[T]) SetPage(page int) Request {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.beginLocked(l.query.WithPage(page))
}

// Reload fetches the current query again.
func (l *List[T]) Reload() Request {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.beginLocked(l.query)
}

func (l *List[T]) beginLocked(q Query) Request {
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(l.parent)
	l.cancel = cancel
	l.gen++
	l.query = q
	l.state = StateLoading
	l.err = ""
	return Request{Gen: l.gen, Query: q, Ctx: ctx}
}

// Apply commits a successful result. It returns false, leaving the list
// untouched, when req has been superseded.
func (l *List[T]) Apply(req Request, res Result[T]) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if req.Gen != l.gen || l.state != StateLoading {
		return false
	}
	l.finishLocked()
	l.state = StateLoaded
	l.items = res.Items
	l.total = res.Total
	l.totalPages = res.TotalPages
	l.page = res.Page
	if res.Page > 0 {
		l.query.Page = res.Page
	}
	return true
}

// Fail commits a failed request. Superseded requests are ignored.
func (l *List[T]) Fail(req Request, err error) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if req.Gen != l.gen || l.state != StateLoading {
		return false
	}
	l.finishLocked()
	l.state = StateErrored
	if err != nil {
		l.err = err.Error()
	} else {
		l.err = "request failed"
	}
	return true
}

func (l *List[T]) finishLocked() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// Close cancels the in-flight request, if any. Pending results are
// discarded afterwards.
func (l *List[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.finishLocked()
	l.gen++
	if l.state == StateLoading {
		l.state = StateIdle
	}
}

// Snapshot returns a copy of the list's state.
func (l *List[T]) Snapshot() Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()

	return Snapshot[T]{
		State:      l.state,
		Query:      l.query,
		Items:      append([]T(nil), l.items...),
		Total:      l.total,
		TotalPages: l.totalPages,
		Page:       l.page,
		Err:        l.err,
	}
}

// Latest reports whether req is the most recently issued request.
func (l *List[T]) Latest(req Request) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return req.Gen == l.gen
}

// FetchFunc loads one page for q.
type FetchFunc[T any] func(ctx context.Context, q Query) (Result[T], error)

// Load runs fetch for req and commits the outcome. It reports whether the
// outcome was applied; a superseded or cancelled request reports false.
func Load[T any](l *List[T], req Request, fetch FetchFunc[T]) bool {
	res, err := fetch(req.Ctx, req.Query)
	if err != nil {
		if errors.Is(err, context.Canceled) && !l.Latest(req) {
			return false
		}
		return l.Fail(req, err)
	}
	return l.Apply(req, res)
}
