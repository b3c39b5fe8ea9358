package redcattest

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"t4auto/internal/domain"
	"t4auto/internal/redcat"
	"t4auto/internal/retry"
)

func TestServer_OfflineOnlineRoundTrip(t *testing.T) {
	srv := NewServer(t,
		[]domain.Store{{ID: 42, Name: "Perth CBD"}},
		[]domain.Item{{PLUCode: "101", Name: "Choc Muffin"}, {PLUCode: "102", Name: "Choc Cookie"}, {PLUCode: "200", Name: "Flat White"}},
	)

	c := redcat.New(redcat.Options{BaseURL: srv.URL, Retry: &retry.Config{MaxAttempts: 1}})
	ctx := context.Background()

	status, err := c.Login(ctx, domain.Credentials{Username: Username, Password: Password})
	if err != nil || !status.Success {
		t.Fatalf("Login = %+v, %v", status, err)
	}

	action := domain.ActionRow{Index: 1, Keyword: "choc", StoreID: 42, Kind: domain.TakeOffline}
	n, err := c.TakeItemsOffline(ctx, action)
	if err != nil || n != 2 {
		t.Fatalf("TakeItemsOffline = %d, %v", n, err)
	}
	if diff := cmp.Diff([]string{"101", "102"}, srv.Offline(42)); diff != "" {
		t.Errorf("offline mismatch (-want +got):\n%s", diff)
	}

	action.Kind = domain.TakeOnline
	n, err = c.TakeItemsOnline(ctx, action)
	if err != nil || n != 2 {
		t.Fatalf("TakeItemsOnline = %d, %v", n, err)
	}
	if got := srv.Offline(42); len(got) != 0 {
		t.Errorf("still offline: %v", got)
	}
}

func TestServer_RejectsWrongPassword(t *testing.T) {
	srv := NewServer(t, nil, nil)
	c := redcat.New(redcat.Options{BaseURL: srv.URL, Retry: &retry.Config{MaxAttempts: 1}})

	status, err := c.Login(context.Background(), domain.Credentials{Username: Username, Password: "nope"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if status.Success {
		t.Fatal("expected rejected login")
	}
	if srv.Logins() != 0 {
		t.Errorf("Logins = %d, want 0", srv.Logins())
	}
}
