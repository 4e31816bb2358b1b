package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/youssefsiam38/storefront"
	"github.com/youssefsiam38/storefront/backend"
	"github.com/youssefsiam38/storefront/driver/filestore"
	"github.com/youssefsiam38/storefront/i18n"
	"github.com/youssefsiam38/storefront/session"
	"github.com/youssefsiam38/storefront/tui"
	"github.com/youssefsiam38/storefront/ui/service"
)

// sessionIDFile sits next to the session file and names this terminal's
// session.
const sessionIDFile = "session.id"

type browseOptions struct {
	BackendURL  string
	SessionFile string
	Query       string
	LogFile     string
}

func newBrowseCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &browseOptions{}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog in the terminal",
		Long: `Opens the catalog in a terminal UI talking to the backend directly.

Sign-in and the chosen language are kept in a session file under the user
config directory, so they survive restarts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts, func(cfg *storefront.Config) {
				if opts.BackendURL != "" {
					cfg.BackendURL = opts.BackendURL
				}
				// The terminal keeps its session in a file whatever the
				// server uses.
				cfg.SessionDriver = storefront.SessionDriverMemory
			})
			if err != nil {
				return err
			}

			logger, closeLog, err := browseLogger(cfg.LogLevel, rootOpts.Verbose, opts.LogFile)
			if err != nil {
				return err
			}
			defer closeLog()

			return browse(cmd.Context(), cfg, opts, logger)
		},
	}

	cmd.Flags().StringVar(&opts.BackendURL, "backend-url", "", "commerce backend base URL (overrides config)")
	cmd.Flags().StringVar(&opts.SessionFile, "session-file", "", "session file (default: <user config dir>/storefront/session.toml)")
	cmd.Flags().StringVar(&opts.Query, "query", "", `initial catalog query, e.g. "sort=top-rated&page=2"`)
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "write logs to this file; logging is off otherwise")

	return cmd
}

// browseLogger logs to a file, since the terminal belongs to the UI.
func browseLogger(level string, verbose bool, path string) (tui.Logger, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	zl, err := newLogger(level, verbose, path)
	if err != nil {
		return nil, nil, err
	}
	return zapLogger{s: zl.Sugar()}, func() { _ = zl.Sync() }, nil
}

func browse(ctx context.Context, cfg *storefront.Config, opts *browseOptions, logger tui.Logger) error {
	locale, ok := i18n.ParseLocale(cfg.DefaultLocale)
	if !ok {
		return fmt.Errorf("%w: unsupported default locale %q", storefront.ErrInvalidConfig, cfg.DefaultLocale)
	}

	path := opts.SessionFile
	if path == "" {
		p, err := filestore.DefaultPath()
		if err != nil {
			return fmt.Errorf("failed to locate session file: %w", err)
		}
		path = p
	}
	store, err := filestore.Open(path)
	if err != nil {
		return err
	}
	sessionID, err := terminalSessionID(filepath.Join(filepath.Dir(path), sessionIDFile))
	if err != nil {
		return err
	}

	svc, err := newService(cfg, logger)
	if err != nil {
		return err
	}

	return tui.Run(ctx, tui.Config{
		Service:     svc,
		Sessions:    session.NewManager(store, logger, session.WithDefaultLocale(locale)),
		SessionID:   sessionID,
		QuietPeriod: cfg.QuietPeriod,
		Query:       opts.Query,
		Logger:      logger,
	})
}

// newService builds the storefront service for cfg.
func newService(cfg *storefront.Config, logger service.Logger) (*service.Service, error) {
	bundle := i18n.NewBundle()
	if err := bundle.Preload(); err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	client := backend.New(cfg.BackendURL,
		backend.WithTimeout(cfg.RequestTimeout),
		backend.WithLogger(logger),
	)
	return service.New(client, bundle,
		service.WithLogger(logger),
		service.WithPageSizes(cfg.CatalogPageSize, cfg.HomeLimit, cfg.ReviewPageSize),
	), nil
}

// terminalSessionID returns the session ID stored at path, creating it on
// first use or when the stored value is not a valid ID.
func terminalSessionID(path string) (string, error) {
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if id := strings.TrimSpace(string(raw)); session.ValidID(id) {
			return id, nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("failed to read session id: %w", err)
	}

	id := session.NewID()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("failed to write session id: %w", err)
	}
	return id, nil
}
