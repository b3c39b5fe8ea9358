package runlog

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"t4auto/internal/domain"
)

func tempRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "t4auto.db")
	r, err := OpenAt(path)
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSave_InsertAndGet(t *testing.T) {
	r := tempRepo(t)

	due := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	record := &Record{
		RunID:       "run-1",
		Keyword:     "milk",
		StoreID:     42,
		Kind:        "offline",
		ScheduledAt: due,
		StartedAt:   due.Add(150 * time.Millisecond),
		Duration:    1200 * time.Millisecond,
		Items:       12,
		Status:      StatusSuccess,
	}
	if err := r.Save(record); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if record.ID == 0 {
		t.Fatal("expected ID to be assigned after insert")
	}

	got, err := r.Get(record.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if diff := cmp.Diff(record, got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_Defaults(t *testing.T) {
	r := tempRepo(t)

	record := &Record{Keyword: "milk", StoreID: 42, Kind: "online"}
	if err := r.Save(record); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if record.StartedAt.IsZero() {
		t.Error("expected StartedAt to be set")
	}
	if record.Status != StatusSuccess {
		t.Errorf("expected default status %q, got %q", StatusSuccess, record.Status)
	}
}

func TestGet_NotFound(t *testing.T) {
	r := tempRepo(t)

	got, err := r.Get(999)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing record, got %+v", got)
	}
}

func TestListRecent_NewestFirstWithLimit(t *testing.T) {
	r := tempRepo(t)
	base := time.Now().Add(-time.Hour)

	for i, kw := range []string{"milk", "bread", "eggs"} {
		rec := &Record{Keyword: kw, StoreID: 1, Kind: "offline", StartedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := r.Save(rec); err != nil {
			t.Fatal(err)
		}
	}

	got, err := r.ListRecent(2)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	var keywords []string
	for _, rec := range got {
		keywords = append(keywords, rec.Keyword)
	}
	if diff := cmp.Diff([]string{"eggs", "bread"}, keywords); diff != "" {
		t.Errorf("ListRecent mismatch (-want +got):\n%s", diff)
	}
}

func TestListRun(t *testing.T) {
	r := tempRepo(t)

	for _, run := range []string{"a", "b", "a"} {
		if err := r.Save(&Record{RunID: run, Keyword: "milk", StoreID: 1, Kind: "offline"}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := r.ListRun("a")
	if err != nil {
		t.Fatalf("ListRun failed: %v", err)
	}
	if len(got) != 2 || got[0].ID > got[1].ID {
		t.Errorf("expected 2 records of run a in insert order, got %+v", got)
	}
}

func TestDeleteOlderThan(t *testing.T) {
	r := tempRepo(t)

	old := &Record{Keyword: "old", StoreID: 1, Kind: "offline", StartedAt: time.Now().Add(-48 * time.Hour)}
	fresh := &Record{Keyword: "fresh", StoreID: 1, Kind: "offline", StartedAt: time.Now()}
	for _, rec := range []*Record{old, fresh} {
		if err := r.Save(rec); err != nil {
			t.Fatal(err)
		}
	}

	n, err := r.DeleteOlderThan(24 * time.Hour)
	if err != nil {
		t.Fatalf("DeleteOlderThan failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted, got %d", n)
	}
	if got, _ := r.Get(fresh.ID); got == nil {
		t.Error("expected fresh record to survive")
	}
}

func TestRecorder_RecordsExecutions(t *testing.T) {
	r := tempRepo(t)
	rec := NewRecorder(r, nil)
	if rec.RunID() == "" {
		t.Fatal("expected a run ID")
	}

	due := time.Date(2024, 5, 1, 17, 0, 0, 0, time.UTC)
	rec.Record(domain.Execution{
		Action:   domain.ActionRow{Keyword: "milk", StoreID: 42, Kind: domain.TakeOnline, ActionTime: due},
		Started:  due,
		Duration: 2 * time.Second,
		Items:    3,
	})
	rec.Record(domain.Execution{
		Action:  domain.ActionRow{Keyword: "eggs", StoreID: 42, Kind: domain.TakeOffline, ActionTime: due},
		Started: due,
		Err:     errors.New("request rejected by server: invalid store"),
	})

	got, err := r.ListRun(rec.RunID())
	if err != nil {
		t.Fatalf("ListRun failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Kind != "online" || got[0].Items != 3 || got[0].Status != StatusSuccess || got[0].Duration != 2*time.Second {
		t.Errorf("unexpected success record %+v", got[0])
	}
	if got[1].Status != StatusError || got[1].ErrorMessage != "request rejected by server: invalid store" {
		t.Errorf("unexpected error record %+v", got[1])
	}
}

type failingRepo struct{ Repository }

func (failingRepo) Save(*Record) error { return errors.New("disk full") }

func TestRecorder_SaveFailureIsContained(t *testing.T) {
	rec := NewRecorder(failingRepo{}, nil)
	rec.Record(domain.Execution{Action: domain.ActionRow{Keyword: "milk", StoreID: 1}})
}
