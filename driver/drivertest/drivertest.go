// Package drivertest provides a conformance suite run against every session
// store implementation.
package drivertest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/youssefsiam38/storefront/driver"
)

// RunStoreTests exercises store. Each subtest uses fresh session IDs so the
// suite can share one backing database.
func RunStoreTests(t *testing.T, store driver.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("GetMissing", func(t *testing.T) {
		_, err := store.Get(ctx, uuid.NewString(), "auth_token")
		if !errors.Is(err, driver.ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("SetGetOverwrite", func(t *testing.T) {
		sid := uuid.NewString()
		if err := store.Set(ctx, sid, "app_locale", "en"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if err := store.Set(ctx, sid, "app_locale", "fr"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := store.Get(ctx, sid, "app_locale")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != "fr" {
			t.Errorf("Get() = %q, want fr", got)
		}
	})

	t.Run("SessionsAreIsolated", func(t *testing.T) {
		a, b := uuid.NewString(), uuid.NewString()
		if err := store.Set(ctx, a, "auth_token", "tok-a"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if _, err := store.Get(ctx, b, "auth_token"); !errors.Is(err, driver.ErrNotFound) {
			t.Errorf("Get() other session error = %v, want ErrNotFound", err)
		}
	})

	t.Run("DeleteKeys", func(t *testing.T) {
		sid := uuid.NewString()
		for k, v := range map[string]string{"auth_token": "t", "auth_user": "{}", "app_locale": "de"} {
			if err := store.Set(ctx, sid, k, v); err != nil {
				t.Fatalf("Set(%s) error = %v", k, err)
			}
		}
		if err := store.Delete(ctx, sid, "auth_token", "auth_user"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := store.Get(ctx, sid, "auth_token"); !errors.Is(err, driver.ErrNotFound) {
			t.Errorf("Get(auth_token) error = %v, want ErrNotFound", err)
		}
		if got, err := store.Get(ctx, sid, "app_locale"); err != nil || got != "de" {
			t.Errorf("Get(app_locale) = %q, %v, want de", got, err)
		}
	})

	t.Run("DeleteSession", func(t *testing.T) {
		sid := uuid.NewString()
		if err := store.Set(ctx, sid, "app_locale", "de"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if err := store.Delete(ctx, sid); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := store.Get(ctx, sid, "app_locale"); !errors.Is(err, driver.ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
		if err := store.Delete(ctx, uuid.NewString(), "missing"); err != nil {
			t.Errorf("Delete() unknown session error = %v, want nil", err)
		}
	})

	t.Run("TouchUnknown", func(t *testing.T) {
		if err := store.Touch(ctx, uuid.NewString()); err != nil {
			t.Errorf("Touch() error = %v, want nil", err)
		}
	})

	t.Run("DeleteIdle", func(t *testing.T) {
		sid := uuid.NewString()
		if err := store.Set(ctx, sid, "auth_token", "t"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if err := store.Set(ctx, sid, "app_locale", "en"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		n, err := store.DeleteIdle(ctx, time.Now().Add(-time.Hour))
		if err != nil {
			t.Fatalf("DeleteIdle() error = %v", err)
		}
		if _, err := store.Get(ctx, sid, "auth_token"); err != nil {
			t.Fatalf("fresh session removed by DeleteIdle (n=%d): %v", n, err)
		}

		n, err = store.DeleteIdle(ctx, time.Now().Add(time.Hour))
		if err != nil {
			t.Fatalf("DeleteIdle() error = %v", err)
		}
		if n < 1 {
			t.Errorf("DeleteIdle() = %d, want at least 1", n)
		}
		if _, err := store.Get(ctx, sid, "app_locale"); !errors.Is(err, driver.ErrNotFound) {
			t.Errorf("Get() after DeleteIdle error = %v, want ErrNotFound", err)
		}
	})
}

// RunLeaserTests exercises lease handoff between two holders.
func RunLeaserTests(t *testing.T, leaser driver.Leaser) {
	t.Helper()
	ctx := context.Background()

	t.Run("AcquireRenewRelease", func(t *testing.T) {
		name := "lease-" + uuid.NewString()

		ok, err := leaser.AcquireLease(ctx, name, "a", time.Minute)
		if err != nil || !ok {
			t.Fatalf("AcquireLease(a) = %v, %v, want true", ok, err)
		}
		ok, err = leaser.AcquireLease(ctx, name, "b", time.Minute)
		if err != nil || ok {
			t.Fatalf("AcquireLease(b) = %v, %v, want false while held", ok, err)
		}
		ok, err = leaser.RenewLease(ctx, name, "a", time.Minute)
		if err != nil || !ok {
			t.Fatalf("RenewLease(a) = %v, %v, want true", ok, err)
		}
		ok, err = leaser.RenewLease(ctx, name, "b", time.Minute)
		if err != nil || ok {
			t.Fatalf("RenewLease(b) = %v, %v, want false", ok, err)
		}

		if err := leaser.ReleaseLease(ctx, name, "a"); err != nil {
			t.Fatalf("ReleaseLease() error = %v", err)
		}
		ok, err = leaser.AcquireLease(ctx, name, "b", time.Minute)
		if err != nil || !ok {
			t.Fatalf("AcquireLease(b) after release = %v, %v, want true", ok, err)
		}
	})

	t.Run("ExpiredLeaseIsTaken", func(t *testing.T) {
		name := "lease-" + uuid.NewString()

		if ok, err := leaser.AcquireLease(ctx, name, "a", time.Millisecond); err != nil || !ok {
			t.Fatalf("AcquireLease(a) = %v, %v, want true", ok, err)
		}
		time.Sleep(20 * time.Millisecond)

		if ok, err := leaser.RenewLease(ctx, name, "a", time.Minute); err != nil || ok {
			t.Fatalf("RenewLease(a) after expiry = %v, %v, want false", ok, err)
		}
		if ok, err := leaser.AcquireLease(ctx, name, "b", time.Minute); err != nil || !ok {
			t.Fatalf("AcquireLease(b) after expiry = %v, %v, want true", ok, err)
		}
	})
}
