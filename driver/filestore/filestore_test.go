package filestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/youssefsiam38/storefront/driver/drivertest"
)

func TestStore(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "session.toml"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	drivertest.RunStoreTests(t, s)
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.toml")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Set(ctx, "local", "auth_token", "abc"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set(ctx, "local", "app_locale", "fr"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %v, want 0600", perm)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	got, err := reopened.Get(ctx, "local", "app_locale")
	if err != nil || got != "fr" {
		t.Errorf("Get() = %q, %v, want fr", got, err)
	}
}

func TestOpen_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	if err := os.WriteFile(path, []byte("sessions = ["), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse session file") {
		t.Errorf("Open() error = %v, want parse error", err)
	}
}
