package tui

import (
	"bytes"
	"strings"
	"testing"

	"t4auto/internal/agent"
	"t4auto/internal/domain"
	"t4auto/internal/schedule"
)

func TestRowSummary(t *testing.T) {
	row := schedule.Row{
		StoreID:   42,
		StoreName: "Perth CBD",
		Keyword:   "milk",
		Start:     schedule.MustParseTimeOfDay("09:00"),
		End:       schedule.MustParseTimeOfDay("17:00"),
	}

	got := RowSummary(row)
	for _, want := range []string{"Perth CBD (42)", "milk", "09:00", "17:00", domain.DefaultReason + " (default)"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "overnight") {
		t.Error("day row should not be marked overnight")
	}

	row.Start, row.End = schedule.MustParseTimeOfDay("22:00"), schedule.MustParseTimeOfDay("06:00")
	row.Reason = "Licensing hours"
	got = RowSummary(row)
	if !strings.Contains(got, "Runs overnight.") || !strings.Contains(got, "Licensing hours") {
		t.Errorf("unexpected overnight summary:\n%s", got)
	}
}

func TestRowLabel(t *testing.T) {
	row := schedule.Row{StoreID: 7, Keyword: "eggs", Start: schedule.TimeOfDay{Hour: 6}, End: schedule.TimeOfDay{Hour: 8, Minute: 30}}
	if got, want := RowLabel(2, row), "3. eggs @ 7  06:00-08:30"; got != want {
		t.Errorf("RowLabel() = %q, want %q", got, want)
	}
}

func TestStoreOptions(t *testing.T) {
	opts := storeOptions([]domain.Store{{ID: 42, Name: "Perth CBD"}})
	if len(opts) != 1 || opts[0].Key != "Perth CBD (42)" || opts[0].Value != 42 {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestValidators(t *testing.T) {
	if err := validateKeyword("  "); err == nil {
		t.Error("expected blank keyword to fail")
	}
	if err := validateTime("7pm"); err == nil {
		t.Error("expected invalid time to fail")
	}
	if err := validateTime("19:00"); err != nil {
		t.Errorf("expected valid time, got %v", err)
	}
	if err := validateStoreID("0"); err == nil {
		t.Error("expected store 0 to fail")
	}
	if err := validateStoreID(" 42 "); err != nil {
		t.Errorf("expected valid store ID, got %v", err)
	}
}

func TestStatusPrinter(t *testing.T) {
	var buf bytes.Buffer
	StatusPrinter(&buf)(agent.StatusRunning)

	if !strings.Contains(buf.String(), "Running") {
		t.Errorf("expected status text, got %q", buf.String())
	}
}
