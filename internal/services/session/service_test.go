package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"t4auto/internal/agent"
	"t4auto/internal/config"
	"t4auto/internal/domain"
	"t4auto/internal/redcat/redcattest"
	"t4auto/internal/services/auth"
	"t4auto/internal/storecache"
)

func newTestService(t *testing.T, password string) (*Service, *redcattest.Server, *storecache.Cache) {
	t.Helper()
	f := redcattest.NewServer(t, []domain.Store{{ID: 42, Name: "Perth CBD"}}, nil)

	store := auth.NewMockStore()
	if password != "" {
		if err := store.SetPassword("ops@example.com", password); err != nil {
			t.Fatalf("SetPassword: %v", err)
		}
	}

	cache := storecache.New(t.TempDir(), storecache.DefaultTTL)
	cfg := &config.Config{BaseURL: f.URL, Username: "ops@example.com"}
	return NewService(cfg, store, cache, nil), f, cache
}

func TestLogin_CachesStores(t *testing.T) {
	svc, f, cache := newTestService(t, redcattest.Password)

	a := agent.New(svc.NewClient())
	if err := svc.Login(context.Background(), a); err != nil {
		t.Fatalf("Login: %v", err)
	}

	got, ok, err := cache.Get(f.URL, "ops@example.com")
	if err != nil || !ok {
		t.Fatalf("cache.Get = ok %v, err %v", ok, err)
	}
	want := []domain.Store{{ID: 42, Name: "Perth CBD"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cached stores mismatch (-want +got):\n%s", diff)
	}
}

func TestLogin_Rejected(t *testing.T) {
	svc, _, _ := newTestService(t, "wrong")

	err := svc.Login(context.Background(), agent.New(svc.NewClient()))
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestLogin_NoPassword(t *testing.T) {
	svc, f, _ := newTestService(t, "")

	if err := svc.Login(context.Background(), agent.New(svc.NewClient())); err == nil {
		t.Fatal("expected error without stored password")
	}
	if n := f.Logins(); n != 0 {
		t.Errorf("login requests = %d, want 0", n)
	}
}

func TestStores_ColdThenWarm(t *testing.T) {
	svc, f, _ := newTestService(t, redcattest.Password)
	ctx := context.Background()

	for range 2 {
		stores, err := svc.Stores(ctx, false)
		if err != nil {
			t.Fatalf("Stores: %v", err)
		}
		if len(stores) != 1 || stores[0].ID != 42 {
			t.Fatalf("stores = %+v", stores)
		}
	}

	if n := f.Logins(); n != 1 {
		t.Errorf("login requests = %d, want 1", n)
	}
	if n := f.Logouts(); n != 1 {
		t.Errorf("logout requests = %d, want 1", n)
	}
}

func TestStores_Refresh(t *testing.T) {
	svc, f, _ := newTestService(t, redcattest.Password)
	ctx := context.Background()

	if _, err := svc.Stores(ctx, false); err != nil {
		t.Fatalf("Stores: %v", err)
	}
	if _, err := svc.Stores(ctx, true); err != nil {
		t.Fatalf("Stores(refresh): %v", err)
	}
	if n := f.Logins(); n != 2 {
		t.Errorf("login requests = %d, want 2", n)
	}
}

func TestVerify(t *testing.T) {
	svc, f, cache := newTestService(t, "")
	ctx := context.Background()

	status, err := svc.Verify(ctx, domain.Credentials{Username: "ops@example.com", Password: "nope"})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if status.Success {
		t.Fatal("expected rejected login")
	}

	status, err = svc.Verify(ctx, domain.Credentials{Username: "ops@example.com", Password: redcattest.Password})
	if err != nil || !status.Success {
		t.Fatalf("Verify = %+v, %v", status, err)
	}
	if _, ok, _ := cache.Get(f.URL, "ops@example.com"); !ok {
		t.Error("expected stores cached after verify")
	}
	if n := f.Logouts(); n != 1 {
		t.Errorf("logout requests = %d, want 1", n)
	}
}

func TestRememberForget(t *testing.T) {
	svc, _, _ := newTestService(t, "")
	path := filepath.Join(t.TempDir(), "config.json")
	config.SetPath(path)
	t.Cleanup(config.ResetPath)

	if ok, err := svc.HasPassword(); err != nil || ok {
		t.Fatalf("HasPassword before Remember = %v, %v", ok, err)
	}

	creds := domain.Credentials{Username: "other@example.com", Password: "pw"}
	if err := svc.Remember(creds); err != nil {
		t.Fatalf("Remember: %v", err)
	}
	if ok, err := svc.HasPassword(); err != nil || !ok {
		t.Fatalf("HasPassword after Remember = %v, %v", ok, err)
	}

	saved, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if saved.Username != "other@example.com" {
		t.Errorf("saved username = %q", saved.Username)
	}

	if err := svc.Forget(); err != nil {
		t.Fatalf("Forget: %v", err)
	}
	if ok, _ := svc.HasPassword(); ok {
		t.Error("password still stored after Forget")
	}
	if err := svc.Forget(); !errors.Is(err, auth.ErrPasswordNotFound) {
		t.Errorf("second Forget = %v, want ErrPasswordNotFound", err)
	}
}
