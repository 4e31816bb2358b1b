package storefront

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Session driver names accepted by Config.SessionDriver.
const (
	SessionDriverMemory = "memory"
	SessionDriverPgx    = "pgx"
	SessionDriverSQL    = "sql"
)

// Default configuration values.
const (
	DefaultAddr            = ":3000"
	DefaultLocale          = "de"
	DefaultCookieName      = "sf_session"
	DefaultSessionTTL      = 30 * 24 * time.Hour
	DefaultCleanupInterval = 10 * time.Minute
	DefaultRequestTimeout  = 15 * time.Second
)

// Config holds the storefront configuration.
//
// BackendURL may be empty: the server still starts and every proxy route
// answers with a configuration error until it is set.
type Config struct {
	// BackendURL is the base URL of the commerce backend.
	BackendURL string

	// Addr is the listen address of the HTTP server.
	Addr string

	// BasePath is the URL prefix where the storefront is mounted.
	BasePath string

	// DefaultLocale is used when neither the session nor the request
	// specifies a supported locale.
	DefaultLocale string

	// QuietPeriod is the search debounce window.
	QuietPeriod time.Duration

	// CatalogPageSize is the number of products per catalog page.
	CatalogPageSize int

	// HomeLimit is the number of products per home page section.
	HomeLimit int

	// ReviewPageSize is the number of reviews per product page.
	ReviewPageSize int

	// RequestTimeout bounds every backend request.
	RequestTimeout time.Duration

	// CookieName is the name of the session cookie.
	CookieName string

	// CookieSecure marks the session cookie Secure.
	CookieSecure bool

	// SessionDriver selects the session store: memory, pgx or sql.
	SessionDriver string

	// DatabaseURL is the PostgreSQL connection string for the pgx and sql
	// session drivers.
	DatabaseURL string

	// SessionTTL is how long an idle session is kept.
	SessionTTL time.Duration

	// CleanupInterval is how often idle sessions are purged.
	CleanupInterval time.Duration

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Logger interface for structured logging.
// Compatible with *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Addr:            DefaultAddr,
		DefaultLocale:   DefaultLocale,
		QuietPeriod:     DefaultQuietPeriod,
		CatalogPageSize: DefaultCatalogLimit,
		HomeLimit:       DefaultHomeLimit,
		ReviewPageSize:  ReviewPageSize,
		RequestTimeout:  DefaultRequestTimeout,
		CookieName:      DefaultCookieName,
		SessionDriver:   SessionDriverMemory,
		SessionTTL:      DefaultSessionTTL,
		CleanupInterval: DefaultCleanupInterval,
		LogLevel:        "info",
	}
}

// ApplyDefaults fills in default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.DefaultLocale == "" {
		c.DefaultLocale = d.DefaultLocale
	}
	if c.QuietPeriod == 0 {
		c.QuietPeriod = d.QuietPeriod
	}
	if c.CatalogPageSize == 0 {
		c.CatalogPageSize = d.CatalogPageSize
	}
	if c.HomeLimit == 0 {
		c.HomeLimit = d.HomeLimit
	}
	if c.ReviewPageSize == 0 {
		c.ReviewPageSize = d.ReviewPageSize
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = d.RequestTimeout
	}
	if c.CookieName == "" {
		c.CookieName = d.CookieName
	}
	if c.SessionDriver == "" {
		c.SessionDriver = d.SessionDriver
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = d.SessionTTL
	}
	if c.CleanupInterval == 0 {
		c.CleanupInterval = d.CleanupInterval
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	c.BackendURL = TrimBaseURL(c.BackendURL)
	c.BasePath = strings.TrimSuffix(c.BasePath, "/")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.QuietPeriod < 0 {
		return fmt.Errorf("%w: QuietPeriod must not be negative", ErrInvalidConfig)
	}
	if c.CatalogPageSize < MinLimit || c.CatalogPageSize > MaxLimit {
		return fmt.Errorf("%w: CatalogPageSize must be between %d and %d", ErrInvalidConfig, MinLimit, MaxLimit)
	}
	if c.HomeLimit < MinLimit || c.HomeLimit > MaxLimit {
		return fmt.Errorf("%w: HomeLimit must be between %d and %d", ErrInvalidConfig, MinLimit, MaxLimit)
	}
	if c.ReviewPageSize < MinLimit || c.ReviewPageSize > MaxLimit {
		return fmt.Errorf("%w: ReviewPageSize must be between %d and %d", ErrInvalidConfig, MinLimit, MaxLimit)
	}
	switch c.SessionDriver {
	case SessionDriverMemory:
	case SessionDriverPgx, SessionDriverSQL:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DatabaseURL is required for session driver %q", ErrInvalidConfig, c.SessionDriver)
		}
	default:
		return fmt.Errorf("%w: unknown session driver %q", ErrInvalidConfig, c.SessionDriver)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// fileConfig is the on-disk TOML representation of Config.
type fileConfig struct {
	BackendURL      string `toml:"backend_url"`
	Addr            string `toml:"addr"`
	BasePath        string `toml:"base_path"`
	DefaultLocale   string `toml:"default_locale"`
	QuietPeriod     string `toml:"quiet_period"`
	CatalogPageSize int    `toml:"catalog_page_size"`
	HomeLimit       int    `toml:"home_limit"`
	ReviewPageSize  int    `toml:"review_page_size"`
	RequestTimeout  string `toml:"request_timeout"`
	CookieName      string `toml:"cookie_name"`
	CookieSecure    bool   `toml:"cookie_secure"`
	SessionDriver   string `toml:"session_driver"`
	DatabaseURL     string `toml:"database_url"`
	SessionTTL      string `toml:"session_ttl"`
	CleanupInterval string `toml:"cleanup_interval"`
	LogLevel        string `toml:"log_level"`
}

// LoadConfig reads the TOML file at path (optional; an empty path or a
// missing file yields the defaults), then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			var fc fileConfig
			if err := toml.Unmarshal(data, &fc); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
			if err := fc.mergeInto(cfg); err != nil {
				return nil, err
			}
		}
	}

	applyEnv(cfg, os.Getenv)
	cfg.ApplyDefaults()
	return cfg, nil
}

func (fc *fileConfig) mergeInto(cfg *Config) error {
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, v int) {
		if v != 0 {
			*dst = v
		}
	}
	setDuration := func(dst *time.Duration, name, v string) error {
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, name, err)
		}
		*dst = d
		return nil
	}

	setString(&cfg.BackendURL, fc.BackendURL)
	setString(&cfg.Addr, fc.Addr)
	setString(&cfg.BasePath, fc.BasePath)
	setString(&cfg.DefaultLocale, fc.DefaultLocale)
	setInt(&cfg.CatalogPageSize, fc.CatalogPageSize)
	setInt(&cfg.HomeLimit, fc.HomeLimit)
	setInt(&cfg.ReviewPageSize, fc.ReviewPageSize)
	setString(&cfg.CookieName, fc.CookieName)
	cfg.CookieSecure = cfg.CookieSecure || fc.CookieSecure
	setString(&cfg.SessionDriver, fc.SessionDriver)
	setString(&cfg.DatabaseURL, fc.DatabaseURL)
	setString(&cfg.LogLevel, fc.LogLevel)

	if err := setDuration(&cfg.QuietPeriod, "quiet_period", fc.QuietPeriod); err != nil {
		return err
	}
	if err := setDuration(&cfg.RequestTimeout, "request_timeout", fc.RequestTimeout); err != nil {
		return err
	}
	if err := setDuration(&cfg.SessionTTL, "session_ttl", fc.SessionTTL); err != nil {
		return err
	}
	return setDuration(&cfg.CleanupInterval, "cleanup_interval", fc.CleanupInterval)
}

// applyEnv overrides cfg from the environment. API_BASE_URL wins over
// NEXT_PUBLIC_API_BASE_URL.
func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("API_BASE_URL"); v != "" {
		cfg.BackendURL = v
	} else if v := getenv("NEXT_PUBLIC_API_BASE_URL"); v != "" {
		cfg.BackendURL = v
	}
	if v := getenv("STOREFRONT_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
}

// TrimBaseURL removes trailing slashes and surrounding whitespace.
func TrimBaseURL(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), "/")
}
