package domain

import (
	"errors"
	"testing"
	"time"
)

func TestActionRow_Before(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a, b ActionRow
		want bool
	}{
		{"earlier time", ActionRow{ActionTime: at}, ActionRow{ActionTime: at.Add(time.Second)}, true},
		{"later time", ActionRow{ActionTime: at.Add(time.Second)}, ActionRow{ActionTime: at}, false},
		{"same time lower index", ActionRow{ActionTime: at, Index: 0}, ActionRow{ActionTime: at, Index: 1}, true},
		{"same time higher index", ActionRow{ActionTime: at, Index: 2}, ActionRow{ActionTime: at, Index: 1}, false},
		{"same row offline first", ActionRow{ActionTime: at, Kind: TakeOffline}, ActionRow{ActionTime: at, Kind: TakeOnline}, true},
		{"identical", ActionRow{ActionTime: at}, ActionRow{ActionTime: at}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Before(tt.b); got != tt.want {
				t.Errorf("Before() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestActionRow_RearmKeepsWallClockAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Australia/Perth")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	syd, err := time.LoadLocation("Australia/Sydney")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	for _, l := range []*time.Location{loc, syd} {
		// Sydney moves clocks forward on the first Sunday of October.
		a := ActionRow{ActionTime: time.Date(2024, 10, 5, 9, 0, 0, 0, l)}
		a.Rearm()

		if a.ActionTime.Day() != 6 || a.ActionTime.Hour() != 9 || a.ActionTime.Minute() != 0 {
			t.Errorf("%s: expected 2024-10-06 09:00, got %v", l, a.ActionTime)
		}
	}
}

func TestActionRow_Validate(t *testing.T) {
	if err := (ActionRow{Keyword: "milk", StoreID: 42}).Validate(); err != nil {
		t.Errorf("expected valid action, got %v", err)
	}
	if err := (ActionRow{Keyword: "  ", StoreID: 42}).Validate(); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction for blank keyword, got %v", err)
	}
	if err := (ActionRow{Keyword: "milk"}).Validate(); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction for missing store, got %v", err)
	}
}

func TestActionRow_EffectiveReason(t *testing.T) {
	if got := (ActionRow{}).EffectiveReason(); got != DefaultReason {
		t.Errorf("expected default reason, got %q", got)
	}
	if got := (ActionRow{Reason: "out of stock"}).EffectiveReason(); got != "out of stock" {
		t.Errorf("expected custom reason, got %q", got)
	}
}

func TestParseActionKind(t *testing.T) {
	for _, k := range []ActionKind{TakeOffline, TakeOnline} {
		got, err := ParseActionKind(k.String())
		if err != nil {
			t.Fatalf("ParseActionKind(%q) failed: %v", k.String(), err)
		}
		if got != k {
			t.Errorf("ParseActionKind(%q) = %v, want %v", k.String(), got, k)
		}
	}
	if _, err := ParseActionKind("sideways"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestFindStore(t *testing.T) {
	stores := []Store{{ID: 1, Name: "Morley"}, {ID: 42, Name: "Perth CBD"}}

	s, ok := FindStore(stores, 42)
	if !ok || s.Name != "Perth CBD" {
		t.Errorf("expected Perth CBD, got %+v (ok=%v)", s, ok)
	}
	if _, ok := FindStore(stores, 7); ok {
		t.Error("expected missing store to report false")
	}
}
