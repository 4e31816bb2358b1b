package ui

import (
	"fmt"
	"net/http"

	"github.com/youssefsiam38/storefront"
	"github.com/youssefsiam38/storefront/backend"
	"github.com/youssefsiam38/storefront/driver/memory"
	"github.com/youssefsiam38/storefront/i18n"
	"github.com/youssefsiam38/storefront/session"
	"github.com/youssefsiam38/storefront/ui/api"
	"github.com/youssefsiam38/storefront/ui/frontend"
	"github.com/youssefsiam38/storefront/ui/service"
)

// Handler returns the storefront: the proxy API under /api and the pages
// everywhere else. It panics on invalid configuration; use New to get the
// error instead.
//
// sessions may be nil, in which case sessions are kept in memory. logger
// may be nil.
//
// When cfg.BasePath is set, strip it before the handler:
//
//	http.Handle("/shop/", http.StripPrefix("/shop", ui.Handler(cfg, sessions, logger)))
func Handler(cfg *storefront.Config, sessions *session.Manager, logger Logger) http.Handler {
	h, err := New(cfg, sessions, logger)
	if err != nil {
		panic("ui: invalid configuration: " + err.Error())
	}
	return h
}

// New is Handler returning configuration errors.
func New(cfg *storefront.Config, sessions *session.Manager, logger Logger) (http.Handler, error) {
	cfg, locale, err := prepare(cfg)
	if err != nil {
		return nil, err
	}

	bundle := i18n.NewBundle()
	if err := bundle.Preload(); err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	if sessions == nil {
		sessions = session.NewManager(memory.New(), logger, session.WithDefaultLocale(locale))
	}

	client := backend.New(cfg.BackendURL,
		backend.WithTimeout(cfg.RequestTimeout),
		backend.WithLogger(logger),
	)
	svc := service.New(client, bundle,
		service.WithLogger(logger),
		service.WithPageSizes(cfg.CatalogPageSize, cfg.HomeLimit, cfg.ReviewPageSize),
	)

	mux := http.NewServeMux()
	mux.Handle(APIPrefix+"/", http.StripPrefix(APIPrefix, api.NewRouter(client, apiConfig(logger))))
	mux.Handle("/", frontend.NewRouter(svc, sessions, frontendConfig(cfg, logger)))

	if logger != nil {
		logger.Info("storefront handler ready",
			"backend_configured", client.Configured(),
			"base_path", cfg.BasePath,
			"default_locale", locale,
		)
	}
	return mux, nil
}
