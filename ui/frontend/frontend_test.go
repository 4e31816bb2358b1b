package frontend

import (
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/youssefsiam38/storefront"
	"github.com/youssefsiam38/storefront/backend"
	"github.com/youssefsiam38/storefront/driver/memory"
	"github.com/youssefsiam38/storefront/i18n"
	"github.com/youssefsiam38/storefront/internal/testutil"
	"github.com/youssefsiam38/storefront/session"
	"github.com/youssefsiam38/storefront/ui/service"
)

var bundle = i18n.NewBundle()

const (
	twoProducts = `{"items":[{"_id":"p1","name":"Mouse","price":{"uvp":20,"discount":5}},{"_id":"p2","name":"Wireless Mouse","price":{"uvp":30,"discount":0}}],"page":1,"limit":20,"total":2,"totalPages":1}`
	manyPages   = `{"items":[{"_id":"p1","name":"Mouse","price":{"uvp":20,"discount":0}}],"page":2,"limit":20,"total":95,"totalPages":5}`
	product     = `{"_id":"p1","name":"Desk Lamp","longDescription":"**bright**\n<script>alert(1)</script>","price":{"uvp":49.9,"discount":10},"inStock":true,"avgRating":4.4,"reviewCount":2}`
	reviews     = `{"items":[{"_id":"r1","name":"Ann","stars":5,"text":"Lovely light"}],"page":1,"limit":5,"total":1,"totalPages":1}`
)

type testEnv struct {
	handler  http.Handler
	fake     *testutil.FakeBackend
	sessions *session.Manager
	en       *i18n.Messages
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	fake := testutil.NewFakeBackend(t)
	svc := service.New(backend.New(fake.URL), bundle)
	sessions := session.NewManager(memory.New(), nil)

	en, err := bundle.Messages(i18n.English)
	if err != nil {
		t.Fatalf("Messages() error = %v", err)
	}

	return &testEnv{
		handler:  NewRouter(svc, sessions, &Config{}),
		fake:     fake,
		sessions: sessions,
		en:       en,
	}
}

// do serves a request in English unless the header is already set.
func (e *testEnv) do(r *http.Request) *httptest.ResponseRecorder {
	if r.Header.Get("Accept-Language") == "" {
		r.Header.Set("Accept-Language", "en")
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, r)
	return w
}

func (e *testEnv) get(target string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func postForm(target string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "sf_session" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func body(w *httptest.ResponseRecorder) string {
	b, _ := io.ReadAll(w.Result().Body)
	return string(b)
}

func TestRedirectToHome(t *testing.T) {
	env := newTestEnv(t)
	w := env.get("/")

	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusTemporaryRedirect)
	}
	if got := w.Header().Get("Location"); got != "/home" {
		t.Errorf("Location = %q, want /home", got)
	}
}

func TestSearch_TwoResultsWithoutPagination(t *testing.T) {
	env := newTestEnv(t)
	env.fake.Reply(http.MethodGet, "/products/search", http.StatusOK, twoProducts)

	w := env.get("/search?q=wireless+mouse")
	out := body(w)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", w.Code, out)
	}
	if got := strings.Count(out, "data-product-card="); got != 2 {
		t.Errorf("product cards = %d, want 2", got)
	}
	if strings.Contains(out, "data-pagination") {
		t.Error("pagination rendered for a single page")
	}
	if got := env.fake.Requests()[0].RawQuery; got != "q=wireless%20mouse&page=1&limit=20" {
		t.Errorf("backend query = %q", got)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	env := newTestEnv(t)
	w := env.get("/search?q=%20%20")

	if !strings.Contains(body(w), "data-search-empty") {
		t.Error("empty query message not rendered")
	}
	if n := len(env.fake.Requests()); n != 0 {
		t.Errorf("backend called %d times, want 0", n)
	}
}

func TestCatalog_Listing(t *testing.T) {
	env := newTestEnv(t)
	env.fake.Reply(http.MethodGet, "/products", http.StatusOK, manyPages)

	w := env.get("/catalog?sort=top-rated&page=2")
	out := body(w)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := env.fake.Requests()[0].RawQuery; got != "sort=top-rated&page=2&limit=20" {
		t.Errorf("backend query = %q", got)
	}
	if !strings.Contains(out, "data-pagination") {
		t.Error("pagination not rendered")
	}
	// Page 1 link drops the page parameter; later pages keep the sort.
	for _, want := range []string{`href="/catalog?sort=top-rated"`, `href="/catalog?page=3&amp;sort=top-rated"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing link %s", want)
		}
	}
}

func TestCatalog_SearchCommit(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"keeps page", "search=1&q=%20lamp%20&sort=top-rated&page=3", "/catalog?page=3&q=lamp"},
		{"first page dropped", "search=1&q=lamp&page=1", "/catalog?q=lamp"},
		{"cleared keeps sort", "search=1&q=&sort=top-rated&page=4", "/catalog?sort=top-rated"},
		{"cleared default sort", "search=1&q=%20", "/catalog?sort=newest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			w := env.get("/catalog?" + tt.query)

			if w.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusSeeOther)
			}
			if got := w.Header().Get("Location"); got != tt.want {
				t.Errorf("Location = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCatalog_HTMXSearch(t *testing.T) {
	env := newTestEnv(t)
	env.fake.Reply(http.MethodGet, "/products/search", http.StatusOK, twoProducts)

	r := httptest.NewRequest(http.MethodGet, "/catalog?search=1&q=mouse", nil)
	r.Header.Set("HX-Request", "true")
	w := env.do(r)
	out := body(w)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("HX-Push-Url"); got != "/catalog?q=mouse" {
		t.Errorf("HX-Push-Url = %q, want /catalog?q=mouse", got)
	}
	if strings.Contains(out, "<html") {
		t.Error("fragment response contains the layout")
	}
	if !strings.Contains(out, `id="catalog-results"`) {
		t.Error("results container missing")
	}
	if got := strings.Count(out, "data-product-card="); got != 2 {
		t.Errorf("product cards = %d, want 2", got)
	}
}

func TestProduct_Detail(t *testing.T) {
	env := newTestEnv(t)
	env.fake.Reply(http.MethodGet, "/products/p1", http.StatusOK, product)
	env.fake.Reply(http.MethodGet, "/products/p1/reviews", http.StatusOK, reviews)

	w := env.get("/catalog/p1?stars=5")
	out := body(w)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", w.Code, out)
	}
	if !strings.Contains(out, "<strong>bright</strong>") {
		t.Error("markdown description not rendered")
	}
	if strings.Contains(out, "alert(1)") {
		t.Error("script in description not removed")
	}
	if !strings.Contains(out, `data-review="r1"`) {
		t.Error("review not rendered")
	}
	if !strings.Contains(out, "€39.90") {
		t.Error("final price not rendered")
	}

	var reviewQuery string
	for _, req := range env.fake.Requests() {
		if req.Path == "/products/p1/reviews" {
			reviewQuery = req.RawQuery
		}
	}
	if reviewQuery != "stars=5&page=1&limit=5" {
		t.Errorf("reviews query = %q", reviewQuery)
	}
}

func TestProduct_NotFound(t *testing.T) {
	env := newTestEnv(t)
	env.fake.Reply(http.MethodGet, "/products/nope/reviews", http.StatusOK, reviews)

	w := env.get("/catalog/nope")

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(body(w), "data-not-found") {
		t.Error("not found page not rendered")
	}
}

func TestCreateReview_EmptyName(t *testing.T) {
	env := newTestEnv(t)
	env.fake.Reply(http.MethodGet, "/products/p1", http.StatusOK, product)
	env.fake.Reply(http.MethodGet, "/products/p1/reviews", http.StatusOK, reviews)

	w := env.do(postForm("/catalog/p1/reviews", url.Values{
		"name":  {""},
		"stars": {"4"},
		"text":  {"Great product"},
	}))
	out := body(w)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	want := `id="review-name-error"`
	if !strings.Contains(out, want) || !strings.Contains(out, template.HTMLEscapeString(env.en.Review.NameRequired)) {
		t.Errorf("name field error not rendered")
	}
	if strings.Contains(out, `id="review-text-error"`) {
		t.Error("text field error rendered for valid text")
	}
	// Entered values survive the round trip.
	if !strings.Contains(out, "Great product</textarea>") || !strings.Contains(out, `value="4" checked`) {
		t.Error("form input not preserved")
	}
	if strings.Contains(out, "disabled>") || strings.Contains(out, `disabled=`) {
		t.Error("submit button rendered disabled")
	}
	for _, req := range env.fake.Requests() {
		if req.Method == http.MethodPost {
			t.Errorf("backend received %s %s", req.Method, req.Path)
		}
	}
}

func TestCreateReview_Success(t *testing.T) {
	env := newTestEnv(t)
	env.fake.Reply(http.MethodPost, "/products/p1/reviews", http.StatusCreated, `{"ok":true,"review":{"_id":"r2"}}`)

	w := env.do(postForm("/catalog/p1/reviews", url.Values{
		"name":  {"Ann"},
		"stars": {"4"},
		"text":  {"Great product"},
	}))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if got := w.Header().Get("Location"); got != "/catalog/p1#reviews" {
		t.Errorf("Location = %q", got)
	}
}

func TestCreateReview_BackendFailure(t *testing.T) {
	env := newTestEnv(t)
	env.fake.Reply(http.MethodPost, "/products/p1/reviews", http.StatusInternalServerError, `{"statusCode":500,"message":"boom"}`)
	env.fake.Reply(http.MethodGet, "/products/p1", http.StatusOK, product)
	env.fake.Reply(http.MethodGet, "/products/p1/reviews", http.StatusOK, reviews)

	w := env.do(postForm("/catalog/p1/reviews", url.Values{
		"name":  {"Ann"},
		"stars": {"4"},
		"text":  {"Great product"},
	}))
	out := body(w)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	if !strings.Contains(out, "boom") {
		t.Error("backend message not rendered")
	}
	if !strings.Contains(out, "Great product</textarea>") {
		t.Error("form input not preserved")
	}
}

func TestFormStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"field errors", &storefront.ValidationError{Fields: map[string]string{"name": "required"}}, http.StatusBadRequest},
		{"backend bad request", storefront.NewBackendError("create review", http.StatusBadRequest, nil), http.StatusBadRequest},
		{"backend failure", &storefront.ValidationError{General: "boom", Err: storefront.NewBackendError("create review", http.StatusInternalServerError, nil)}, http.StatusBadGateway},
		{"unreachable", &storefront.ValidationError{Err: &backend.TransportError{Op: "POST /auth/login", Err: errors.New("connection refused")}}, http.StatusBadGateway},
		{"not configured", &storefront.ValidationError{Err: storefront.ErrBackendNotConfigured}, http.StatusInternalServerError},
		{"session store", errors.New("redis: connection pool timeout"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formStatus(tt.err); got != tt.want {
				t.Errorf("formStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLogin_BackendUnreachable(t *testing.T) {
	svc := service.New(backend.New("http://127.0.0.1:1"), bundle)
	h := NewRouter(svc, session.NewManager(memory.New(), nil), &Config{})

	r := postForm("/auth/login", url.Values{"email": {"ann@example.com"}, "password": {"secret1"}})
	r.Header.Set("Accept-Language", "en")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
	if !strings.Contains(body(w), "ann@example.com") {
		t.Error("login form not re-rendered")
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.fake.Reply(http.MethodPost, "/auth/login", http.StatusOK, `{"token":"tok","user":{"id":"u1","name":"Ann Smith","email":"ann@example.com"}}`)
	env.fake.Reply(http.MethodGet, "/products/home", http.StatusOK, `{"newest":[],"topRated":[]}`)

	w := env.do(postForm("/auth/login", url.Values{"email": {"ann@example.com"}, "password": {"secret1"}}))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303\n%s", w.Code, body(w))
	}
	cookie := sessionCookie(t, w)

	s, err := env.sessions.Get(t.Context(), cookie.Value)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !s.IsAuthenticated() || s.Token != "tok" {
		t.Errorf("session = %+v, want authenticated", s)
	}

	r := httptest.NewRequest(http.MethodGet, "/home", nil)
	r.AddCookie(cookie)
	if out := body(env.do(r)); !strings.Contains(out, "Ann Smith") {
		t.Error("user name not shown after login")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.fake.Reply(http.MethodPost, "/auth/login", http.StatusUnauthorized, `{"statusCode":401,"message":"Unauthorized"}`)

	w := env.do(postForm("/auth/login", url.Values{"email": {"ann@example.com"}, "password": {"wrong-password"}}))
	out := body(w)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(out, template.HTMLEscapeString(env.en.Auth.InvalidCredentials)) {
		t.Error("invalid credentials message not rendered")
	}
	if strings.Contains(out, "wrong-password") {
		t.Error("password echoed back")
	}
}

func TestLocale(t *testing.T) {
	env := newTestEnv(t)
	env.fake.Reply(http.MethodGet, "/products/home", http.StatusOK, `{"newest":[],"topRated":[]}`)

	if out := body(env.get("/home")); !strings.Contains(out, `<html lang="en">`) {
		t.Error("Accept-Language not honored")
	}

	w := env.do(postForm("/locale", url.Values{"locale": {"fr"}, "return": {"/catalog?sort=top-rated"}}))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if got := w.Header().Get("Location"); got != "/catalog?sort=top-rated" {
		t.Errorf("Location = %q", got)
	}

	r := httptest.NewRequest(http.MethodGet, "/home", nil)
	r.AddCookie(sessionCookie(t, w))
	if out := body(env.do(r)); !strings.Contains(out, `<html lang="fr">`) {
		t.Error("stored locale not used over Accept-Language")
	}
}

func TestLocalTarget(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"/catalog?q=x", "/catalog?q=x"},
		{"https://example.com/", "/home"},
		{"//example.com/", "/home"},
		{"/\\example.com", "/home"},
		{"", "/home"},
	}
	for _, tt := range tests {
		if got := localTarget(tt.target, "/home"); got != tt.want {
			t.Errorf("localTarget(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}
}

func TestBackendFailures(t *testing.T) {
	t.Run("backend error", func(t *testing.T) {
		env := newTestEnv(t)
		env.fake.Reply(http.MethodGet, "/products/home", http.StatusInternalServerError, `{"statusCode":500,"message":"boom"}`)

		w := env.get("/home")
		if w.Code != http.StatusBadGateway {
			t.Errorf("status = %d, want 502", w.Code)
		}
		if !strings.Contains(body(w), "data-error") {
			t.Error("error page not rendered")
		}
	})

	t.Run("not configured", func(t *testing.T) {
		svc := service.New(backend.New(""), bundle)
		h := NewRouter(svc, session.NewManager(memory.New(), nil), nil)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/home", nil))
		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", w.Code)
		}
	})
}

func TestUnknownPath(t *testing.T) {
	env := newTestEnv(t)
	if w := env.get("/nowhere"); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestStaticAssets(t *testing.T) {
	env := newTestEnv(t)
	w := env.get("/static/storefront.js")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
