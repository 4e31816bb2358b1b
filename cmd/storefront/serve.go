package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/youssefsiam38/storefront"
	"github.com/youssefsiam38/storefront/driver"
	"github.com/youssefsiam38/storefront/driver/databasesql"
	"github.com/youssefsiam38/storefront/driver/memory"
	"github.com/youssefsiam38/storefront/driver/pgxv5"
	"github.com/youssefsiam38/storefront/i18n"
	"github.com/youssefsiam38/storefront/leadership"
	"github.com/youssefsiam38/storefront/maintenance"
	"github.com/youssefsiam38/storefront/session"
	"github.com/youssefsiam38/storefront/ui"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	Addr          string
	BackendURL    string
	SessionDriver string
}

func newServeCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the storefront pages and proxy API",
		Long: `Starts the HTTP server.

Sessions are kept in memory unless DATABASE_URL is set, in which case they
are stored in PostgreSQL through pgx. --session-driver=sql uses database/sql
with lib/pq instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts, func(cfg *storefront.Config) {
				if opts.Addr != "" {
					cfg.Addr = opts.Addr
				}
				if opts.BackendURL != "" {
					cfg.BackendURL = opts.BackendURL
				}
				switch {
				case opts.SessionDriver != "":
					cfg.SessionDriver = opts.SessionDriver
				case cfg.DatabaseURL != "" && (cfg.SessionDriver == "" || cfg.SessionDriver == storefront.SessionDriverMemory):
					cfg.SessionDriver = storefront.SessionDriverPgx
				}
			})
			if err != nil {
				return err
			}

			zl, err := newLogger(cfg.LogLevel, rootOpts.Verbose)
			if err != nil {
				return err
			}
			defer func() { _ = zl.Sync() }()

			return serve(cmd.Context(), cfg, zapLogger{s: zl.Sugar()}, nil)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&opts.BackendURL, "backend-url", "", "commerce backend base URL (overrides config)")
	cmd.Flags().StringVar(&opts.SessionDriver, "session-driver", "", "session store: memory, pgx or sql")

	return cmd
}

// sessionStore is an open session backend and its release func.
type sessionStore struct {
	store driver.Store
	close func() error
}

// openSessionStore opens the store selected by cfg.SessionDriver and
// migrates SQL schemas.
func openSessionStore(ctx context.Context, cfg *storefront.Config) (*sessionStore, error) {
	switch cfg.SessionDriver {
	case storefront.SessionDriverMemory:
		return &sessionStore{store: memory.New(), close: func() error { return nil }}, nil

	case storefront.SessionDriverPgx:
		drv, err := pgxv5.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := drv.Store().Migrate(ctx); err != nil {
			drv.Close()
			return nil, err
		}
		return &sessionStore{store: drv.Store(), close: drv.Close}, nil

	case storefront.SessionDriverSQL:
		drv, err := databasesql.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := drv.Store().Migrate(ctx); err != nil {
			drv.Close()
			return nil, err
		}
		return &sessionStore{store: drv.Store(), close: drv.Close}, nil
	}
	return nil, fmt.Errorf("%w: unknown session driver %q", storefront.ErrInvalidConfig, cfg.SessionDriver)
}

// startMaintenance runs idle session cleanup. Stores shared between
// replicas run it only while this replica holds the cleanup lease.
func startMaintenance(ctx context.Context, store driver.Store, cfg *storefront.Config, logger zapLogger) (func(), error) {
	cleanup := maintenance.NewCleanup(store, &maintenance.CleanupConfig{
		Interval:   cfg.CleanupInterval,
		SessionTTL: cfg.SessionTTL,
		OnSessionCleanup: func(count int64) {
			logger.Info("purged idle sessions", "count", count)
		},
		OnError: func(err error) {
			logger.Error("session cleanup failed", "error", err)
		},
	})
	stopCleanup := func(ctx context.Context) {
		if err := cleanup.Stop(ctx); err != nil && !errors.Is(err, maintenance.ErrNotStarted) {
			logger.Warn("failed to stop session cleanup", "error", err)
		}
	}

	leases, shared := store.(driver.Leaser)
	if !shared {
		if err := cleanup.Start(ctx); err != nil {
			return nil, err
		}
		return func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			stopCleanup(stopCtx)
		}, nil
	}

	elector := leadership.NewElector(leases, session.NewID(), &leadership.Config{Logger: logger}, leadership.Callbacks{
		OnBecameLeader: func(ctx context.Context) {
			if err := cleanup.Start(ctx); err != nil {
				logger.Warn("failed to start session cleanup", "error", err)
			}
		},
		OnLostLeadership: stopCleanup,
	})
	if err := elector.Start(ctx); err != nil {
		return nil, err
	}
	return func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := elector.Stop(stopCtx); err != nil {
			logger.Warn("failed to stop leader election", "error", err)
		}
		stopCleanup(stopCtx)
	}, nil
}

// newServer builds the HTTP server: the storefront under cfg.BasePath and
// a health check at /healthz.
func newServer(cfg *storefront.Config, sessions *session.Manager, logger ui.Logger) (*http.Server, error) {
	handler, err := ui.New(cfg, sessions, logger)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	if cfg.BasePath != "" {
		mux.Handle(cfg.BasePath+"/", http.StripPrefix(cfg.BasePath, handler))
		mux.Handle("/{$}", http.RedirectHandler(cfg.BasePath+"/", http.StatusTemporaryRedirect))
	} else {
		mux.Handle("/", handler)
	}

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// serve runs the storefront until ctx is done, then shuts the server down
// gracefully. When ready is non-nil it receives the bound address.
func serve(ctx context.Context, cfg *storefront.Config, logger zapLogger, ready chan<- net.Addr) error {
	locale, ok := i18n.ParseLocale(cfg.DefaultLocale)
	if !ok {
		return fmt.Errorf("%w: unsupported default locale %q", storefront.ErrInvalidConfig, cfg.DefaultLocale)
	}

	st, err := openSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(); err != nil {
			logger.Warn("failed to close session store", "error", err)
		}
	}()
	sessions := session.NewManager(st.store, logger, session.WithDefaultLocale(locale))

	stopMaintenance, err := startMaintenance(ctx, st.store, cfg, logger)
	if err != nil {
		return err
	}
	defer stopMaintenance()

	server, err := newServer(cfg, sessions, logger)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
	}
	if ready != nil {
		ready <- ln.Addr()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront listening",
			"addr", ln.Addr().String(),
			"base_path", cfg.BasePath,
			"session_driver", cfg.SessionDriver,
		)
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
