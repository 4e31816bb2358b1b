package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/youssefsiam38/storefront/backend"
)

// RequestIDHeader carries the request ID on every response.
const RequestIDHeader = "X-Request-ID"

// Config holds API router configuration.
type Config struct {
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

// router holds the API router state.
type router struct {
	client *backend.Client
	config *Config
}

// NewRouter creates a new API router.
func NewRouter(client *backend.Client, cfg *Config) http.Handler {
	if cfg == nil {
		cfg = &Config{}
	}

	r := &router{
		client: client,
		config: cfg,
	}

	mux := http.NewServeMux()

	// Products
	mux.HandleFunc("GET /products", r.handleListProducts)
	mux.HandleFunc("GET /home", r.handleHome)
	mux.HandleFunc("GET /products/{$}", r.handleMissingID)
	mux.HandleFunc("GET /products/{id}", r.handleGetProduct)

	// Reviews
	mux.HandleFunc("GET /products/{id}/reviews", r.handleListReviews)
	mux.HandleFunc("POST /products/{id}/reviews", r.handleCreateReview)

	// Auth
	mux.HandleFunc("POST /auth/login", r.handleLogin)
	mux.HandleFunc("POST /auth/register", r.handleRegister)

	return withMiddleware(mux, cfg)
}

// withMiddleware wraps the handler with common middleware.
func withMiddleware(handler http.Handler, cfg *Config) http.Handler {
	// Add JSON content type
	handler = jsonMiddleware(handler)
	// Add error recovery
	handler = recoveryMiddleware(handler, cfg.Logger)
	// Tag and log every request
	handler = requestLogMiddleware(handler, cfg.Logger)
	return handler
}

// jsonMiddleware sets JSON content type and disables caching for all
// responses.
func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// recoveryMiddleware recovers from panics and returns 500.
func recoveryMiddleware(next http.Handler, logger Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if logger != nil {
					logger.Error("panic recovered", "error", err, "path", r.URL.Path)
				}
				http.Error(w, `{"error":"Internal server error"}`, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// statusRecorder remembers the status written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// requestLogMiddleware assigns a request ID and logs the outcome of every
// request. An incoming X-Request-ID is kept when it is a UUID.
func requestLogMiddleware(next http.Handler, logger Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		if logger != nil {
			logger.Info("api request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
				"request_id", id,
			)
		}
	})
}
