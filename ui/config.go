package ui

import (
	"fmt"

	"github.com/youssefsiam38/storefront"
	"github.com/youssefsiam38/storefront/i18n"
	"github.com/youssefsiam38/storefront/ui/api"
	"github.com/youssefsiam38/storefront/ui/frontend"
)

// APIPrefix is where the proxy routes are mounted.
const APIPrefix = "/api"

// Logger interface for structured logging.
// Compatible with storefront.Logger and *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// prepare returns a validated copy of cfg with defaults applied.
func prepare(cfg *storefront.Config) (*storefront.Config, i18n.Locale, error) {
	if cfg == nil {
		cfg = storefront.DefaultConfig()
	} else {
		c := *cfg
		cfg = &c
		cfg.ApplyDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	locale, ok := i18n.ParseLocale(cfg.DefaultLocale)
	if !ok {
		return nil, "", fmt.Errorf("%w: unsupported default locale %q", ErrInvalidConfig, cfg.DefaultLocale)
	}
	return cfg, locale, nil
}

func frontendConfig(cfg *storefront.Config, logger Logger) *frontend.Config {
	return &frontend.Config{
		BasePath:     cfg.BasePath,
		QuietPeriod:  cfg.QuietPeriod,
		CookieName:   cfg.CookieName,
		CookieSecure: cfg.CookieSecure,
		SessionTTL:   cfg.SessionTTL,
		Logger:       logger,
	}
}

func apiConfig(logger Logger) *api.Config {
	return &api.Config{Logger: logger}
}
