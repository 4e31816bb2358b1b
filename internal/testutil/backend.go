package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// BackendRequest is a request seen by a FakeBackend.
type BackendRequest struct {
	Method   string
	Path     string
	RawQuery string
	Body     string
}

// Reply is a canned backend answer.
type Reply struct {
	Status int
	Body   string

	// Delay holds the answer back. A cancelled request stops waiting.
	Delay time.Duration
}

// FakeBackend is an in-process commerce backend. Routes are matched on
// method and escaped path; anything else answers 404.
type FakeBackend struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]func(*http.Request) Reply
	reqs   []BackendRequest
}

// NewFakeBackend starts a fake backend that is closed with the test.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	b := &FakeBackend{routes: make(map[string]func(*http.Request) Reply)}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Close)
	return b
}

// Reply registers a fixed answer.
func (b *FakeBackend) Reply(method, path string, status int, body string) {
	b.ReplyFunc(method, path, func(*http.Request) Reply {
		return Reply{Status: status, Body: body}
	})
}

// ReplyFunc registers a computed answer.
func (b *FakeBackend) ReplyFunc(method, path string, f func(*http.Request) Reply) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" "+path] = f
}

// Requests returns the requests seen so far.
func (b *FakeBackend) Requests() []BackendRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]BackendRequest(nil), b.reqs...)
}

func (b *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	path := r.URL.EscapedPath()

	b.mu.Lock()
	b.reqs = append(b.reqs, BackendRequest{
		Method:   r.Method,
		Path:     path,
		RawQuery: r.URL.RawQuery,
		Body:     string(raw),
	})
	route, ok := b.routes[r.Method+" "+path]
	b.mu.Unlock()

	reply := Reply{Status: http.StatusNotFound, Body: `{"statusCode":404,"message":"Not Found"}`}
	if ok {
		reply = route(r)
	}

	if reply.Delay > 0 {
		select {
		case <-time.After(reply.Delay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reply.Status)
	_, _ = io.WriteString(w, reply.Body)
}
