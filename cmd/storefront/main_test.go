package main

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/youssefsiam38/storefront"
	"github.com/youssefsiam38/storefront/driver/memory"
	"github.com/youssefsiam38/storefront/internal/testutil"
	"github.com/youssefsiam38/storefront/session"
)

// clearEnv keeps the host environment out of config loading.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"API_BASE_URL", "NEXT_PUBLIC_API_BASE_URL", "STOREFRONT_ADDR", "DATABASE_URL"} {
		t.Setenv(k, "")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := newRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "storefront ")
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := newRootCommand()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "browse", "version"})
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("verbose"))
}

func TestServeCommand_InvalidConfig(t *testing.T) {
	clearEnv(t)
	missing := filepath.Join(t.TempDir(), "missing.toml")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown driver", []string{"serve", "--config", missing, "--session-driver", "redis"}},
		{"pgx without database", []string{"serve", "--config", missing, "--session-driver", "pgx"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, storefront.ErrInvalidConfig)
		})
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "storefront.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend_url = "http://file.example/"
addr = ":4000"
quiet_period = "250ms"
`), 0o600))

	cfg, err := loadConfig(&rootOptions{ConfigPath: path}, func(c *storefront.Config) {
		c.Addr = ":5000"
	})
	require.NoError(t, err)

	assert.Equal(t, "http://file.example", cfg.BackendURL)
	assert.Equal(t, ":5000", cfg.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.QuietPeriod)
	assert.Equal(t, storefront.SessionDriverMemory, cfg.SessionDriver)
}

func TestLoadConfig_EnvBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEXT_PUBLIC_API_BASE_URL", "http://public.example")

	cfg, err := loadConfig(&rootOptions{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://public.example", cfg.BackendURL)
}

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := zapLogger{s: zap.New(core).Sugar()}

	l.Debug("debug message")
	l.Info("info message", "path", "/catalog")
	l.Warn("warn message", "status", 502)
	l.Error("error message")

	require.Equal(t, 4, logs.Len())
	entries := logs.All()
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "/catalog", entries[1].ContextMap()["path"])
	assert.EqualValues(t, 502, entries[2].ContextMap()["status"])
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("warn", false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = newLogger("warn", true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = newLogger("loud", false)
	assert.Error(t, err)
}

func TestOpenSessionStore_Memory(t *testing.T) {
	cfg := storefront.DefaultConfig()

	st, err := openSessionStore(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, st.store)
	assert.NoError(t, st.close())
}

// sharedStore is a memory store that also hands out leases, standing in
// for a PostgreSQL store shared by replicas.
type sharedStore struct {
	*memory.Store
	purged   chan struct{}
	acquired chan string
}

func (s *sharedStore) DeleteIdle(ctx context.Context, before time.Time) (int64, error) {
	select {
	case s.purged <- struct{}{}:
	default:
	}
	return s.Store.DeleteIdle(ctx, before)
}

func (s *sharedStore) AcquireLease(_ context.Context, name, holder string, _ time.Duration) (bool, error) {
	select {
	case s.acquired <- name:
	default:
	}
	return true, nil
}

func (s *sharedStore) RenewLease(context.Context, string, string, time.Duration) (bool, error) {
	return true, nil
}

func (s *sharedStore) ReleaseLease(context.Context, string, string) error { return nil }

func TestStartMaintenance_SharedStoreElectsLeader(t *testing.T) {
	store := &sharedStore{
		Store:    memory.New(),
		purged:   make(chan struct{}, 1),
		acquired: make(chan string, 1),
	}
	cfg := storefront.DefaultConfig()

	stop, err := startMaintenance(context.Background(), store, cfg, zapLogger{s: zaptest.NewLogger(t).Sugar()})
	require.NoError(t, err)
	defer stop()

	select {
	case name := <-store.acquired:
		assert.Equal(t, "session_cleanup", name)
	case <-time.After(2 * time.Second):
		t.Fatal("lease never requested")
	}
	select {
	case <-store.purged:
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup did not run after election")
	}
}

func TestNewServer(t *testing.T) {
	fake := testutil.NewFakeBackend(t)
	fake.Reply(http.MethodGet, "/products/home", http.StatusOK, `{"newest":[],"topRated":[]}`)

	cfg := storefront.DefaultConfig()
	cfg.BackendURL = fake.URL
	cfg.BasePath = "/shop"
	sessions := session.NewManager(memory.New(), nil)

	server, err := newServer(cfg, sessions, nil)
	require.NoError(t, err)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantHeader string
	}{
		{"health", "/healthz", http.StatusOK, ""},
		{"root redirects to base path", "/", http.StatusTemporaryRedirect, "/shop/"},
		{"proxy under base path", "/shop/api/home", http.StatusOK, ""},
		{"outside base path", "/catalog", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantHeader != "" {
				assert.Equal(t, tt.wantHeader, w.Header().Get("Location"))
			}
		})
	}
}

func TestServe_GracefulShutdown(t *testing.T) {
	fake := testutil.NewFakeBackend(t)
	fake.Reply(http.MethodGet, "/products/home", http.StatusOK, `{"newest":[],"topRated":[]}`)

	cfg := storefront.DefaultConfig()
	cfg.BackendURL = fake.URL
	cfg.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, cfg, zapLogger{s: zaptest.NewLogger(t).Sugar()}, ready)
	}()

	var addr net.Addr
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("serve() returned early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr.String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("serve() did not return after cancel")
	}
}

func TestTerminalSessionID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront", sessionIDFile)

	first, err := terminalSessionID(path)
	require.NoError(t, err)
	assert.True(t, session.ValidID(first))

	again, err := terminalSessionID(path)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	require.NoError(t, os.WriteFile(path, []byte("not-an-id"), 0o600))
	replaced, err := terminalSessionID(path)
	require.NoError(t, err)
	assert.NotEqual(t, "not-an-id", replaced)
	assert.True(t, session.ValidID(replaced))
}

func TestBrowseLogger_Disabled(t *testing.T) {
	logger, closeLog, err := browseLogger("info", false, "")
	require.NoError(t, err)
	assert.Nil(t, logger)
	closeLog()
}
