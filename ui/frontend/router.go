package frontend

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/youssefsiam38/storefront"
	"github.com/youssefsiam38/storefront/session"
	"github.com/youssefsiam38/storefront/ui/service"
)

//go:embed templates/*
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Config holds frontend router configuration.
type Config struct {
	// BasePath is the URL prefix where the UI is mounted.
	// All navigation links will be prefixed with this path.
	BasePath string

	// QuietPeriod is the search debounce window.
	QuietPeriod time.Duration

	// CookieName is the name of the session cookie.
	CookieName string

	// CookieSecure marks the session cookie Secure.
	CookieSecure bool

	// SessionTTL is the lifetime of the session cookie.
	SessionTTL time.Duration

	// Logger for structured logging.
	Logger Logger
}

// Logger interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// router holds the frontend router state.
type router struct {
	svc      *service.Service
	sessions *session.Manager
	config   *Config
	renderer *renderer
	markdown *markdownRenderer
}

// NewRouter creates a new frontend router.
func NewRouter(svc *service.Service, sessions *session.Manager, cfg *Config) http.Handler {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.QuietPeriod == 0 {
		cfg.QuietPeriod = storefront.DefaultQuietPeriod
	}
	if cfg.CookieName == "" {
		cfg.CookieName = storefront.DefaultCookieName
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = storefront.DefaultSessionTTL
	}

	md := newMarkdownRenderer()

	// Parse base templates (layout and shared fragments).
	// Page-specific templates are parsed dynamically by the renderer
	// to avoid conflicts between "content" blocks in different pages.
	baseTmpl := template.Must(template.New("").
		Funcs(templateFuncs(md)).
		ParseFS(templatesFS,
			"templates/base.html",
			"templates/fragments/*.html",
		))

	r := &router{
		svc:      svc,
		sessions: sessions,
		config:   cfg,
		renderer: newRenderer(baseTmpl, templatesFS, cfg),
		markdown: md,
	}

	mux := http.NewServeMux()

	// Static assets
	staticSub, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// Main pages
	mux.HandleFunc("GET /{$}", r.handleRedirectToHome)
	mux.HandleFunc("GET /home", r.handleHome)
	mux.HandleFunc("GET /catalog", r.handleCatalog)
	mux.HandleFunc("GET /catalog/{id}", r.handleProduct)
	mux.HandleFunc("POST /catalog/{id}/reviews", r.handleCreateReview)
	mux.HandleFunc("GET /search", r.handleSearch)

	// Auth
	mux.HandleFunc("GET /auth/login", r.handleLoginForm)
	mux.HandleFunc("POST /auth/login", r.handleLogin)
	mux.HandleFunc("GET /auth/register", r.handleRegisterForm)
	mux.HandleFunc("POST /auth/register", r.handleRegister)
	mux.HandleFunc("POST /auth/logout", r.handleLogout)

	// Preferences
	mux.HandleFunc("POST /locale", r.handleLocale)

	// Everything else
	mux.HandleFunc("/", r.handleNotFound)

	return withFrontendMiddleware(mux, cfg)
}

// withFrontendMiddleware wraps the handler with frontend-specific middleware.
func withFrontendMiddleware(handler http.Handler, cfg *Config) http.Handler {
	handler = frontendRecoveryMiddleware(handler, cfg.Logger)
	return handler
}

// frontendRecoveryMiddleware recovers from panics.
func frontendRecoveryMiddleware(next http.Handler, logger Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if logger != nil {
					logger.Error("panic recovered", "error", err, "path", r.URL.Path)
				}
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// templateFuncs returns custom template functions.
func templateFuncs(md *markdownRenderer) template.FuncMap {
	return template.FuncMap{
		"finalPrice":      finalPrice,
		"formatPrice":     formatPrice,
		"discountPercent": discountPercent,
		"formatRating":    formatRating,
		"formatDate":      formatDate,
		"stars":           starIcons,
		"round":           round,
		"firstImage":      firstImage,
		"plural":          plural,
		"markdown":        md.render,
		"add":             add,
		"seq":             seq,
		"default":         defaultVal,
		"dict":            dictFunc,
	}
}

// dictFunc creates a map from key-value pairs for use in templates.
// Usage: {{template "foo" (dict "key1" val1 "key2" val2)}}
func dictFunc(values ...any) map[string]any {
	if len(values)%2 != 0 {
		return nil
	}
	dict := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			continue
		}
		dict[key] = values[i+1]
	}
	return dict
}
