// Package runlog keeps an audit trail of executed actions in SQLite.
//
// The history is written by the scheduler through a Recorder and read only
// by the CLI; the engine never reads it back, so a restart always begins
// from the configured schedule.
package runlog

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"t4auto/internal/database"
)

// Repository defines the persistence interface for execution records.
type Repository interface {
	// Save inserts a record and assigns its ID.
	Save(record *Record) error

	// Get retrieves a single record by ID. It returns nil, nil when absent.
	Get(id int64) (*Record, error)

	// ListRecent returns the most recent n records, newest first.
	ListRecent(n int) ([]Record, error)

	// ListRun returns the records of one run in execution order.
	ListRun(runID string) ([]Record, error)

	// DeleteOlderThan removes records started more than d ago and returns
	// the number removed.
	DeleteOlderThan(d time.Duration) (int64, error)

	// Close releases database resources.
	Close() error
}

// SQLiteRepository implements Repository backed by a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// Open creates or opens the repository at the default database path.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, err
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, err
	}

	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepository) migrate() error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS executions (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT    NOT NULL DEFAULT '',
			keyword       TEXT    NOT NULL,
			store_id      INTEGER NOT NULL,
			kind          TEXT    NOT NULL,
			scheduled_at  TEXT    NOT NULL,
			started_at    TEXT    NOT NULL,
			duration_ms   INTEGER NOT NULL DEFAULT 0,
			items         INTEGER NOT NULL DEFAULT 0,
			status        TEXT    NOT NULL,
			error_message TEXT    NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_executions_started ON executions(started_at);
		CREATE INDEX IF NOT EXISTS idx_executions_run ON executions(run_id);
	`
	if _, err := r.db.Exec(ddl); err != nil {
		return fmt.Errorf("runlog: migration failed: %w", err)
	}
	return nil
}

const selectColumns = `
	SELECT id, run_id, keyword, store_id, kind, scheduled_at, started_at,
	       duration_ms, items, status, error_message
	FROM executions`

// Save inserts a record.
func (r *SQLiteRepository) Save(record *Record) error {
	if record.StartedAt.IsZero() {
		record.StartedAt = time.Now()
	}
	if record.Status == "" {
		record.Status = StatusSuccess
	}

	result, err := r.db.Exec(`
		INSERT INTO executions (run_id, keyword, store_id, kind, scheduled_at, started_at, duration_ms, items, status, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.RunID, record.Keyword, record.StoreID, record.Kind,
		formatTime(record.ScheduledAt), formatTime(record.StartedAt),
		record.Duration.Milliseconds(), record.Items, record.Status, record.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("runlog: insert failed: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("runlog: failed to get last insert ID: %w", err)
	}
	record.ID = id
	return nil
}

// Get retrieves a single record by ID.
func (r *SQLiteRepository) Get(id int64) (*Record, error) {
	row := r.db.QueryRow(selectColumns+` WHERE id = ?`, id)

	record, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("runlog: query failed: %w", err)
	}
	return record, nil
}

// ListRecent returns the most recent n records.
func (r *SQLiteRepository) ListRecent(n int) ([]Record, error) {
	rows, err := r.db.Query(selectColumns+` ORDER BY started_at DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("runlog: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// ListRun returns the records of one run in execution order.
func (r *SQLiteRepository) ListRun(runID string) ([]Record, error) {
	rows, err := r.db.Query(selectColumns+` WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("runlog: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// DeleteOlderThan removes records started more than d ago.
func (r *SQLiteRepository) DeleteOlderThan(d time.Duration) (int64, error) {
	cutoff := formatTime(time.Now().Add(-d))
	result, err := r.db.Exec(`DELETE FROM executions WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("runlog: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Times are stored as UTC RFC 3339 so string order is time order.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*Record, error) {
	var (
		record                 Record
		scheduledStr, startStr string
		durationMS             int64
	)
	err := s.Scan(
		&record.ID, &record.RunID, &record.Keyword, &record.StoreID, &record.Kind,
		&scheduledStr, &startStr, &durationMS, &record.Items, &record.Status, &record.ErrorMessage,
	)
	if err != nil {
		return nil, err
	}
	record.ScheduledAt, _ = time.Parse(time.RFC3339Nano, scheduledStr)
	record.StartedAt, _ = time.Parse(time.RFC3339Nano, startStr)
	record.Duration = time.Duration(durationMS) * time.Millisecond
	return &record, nil
}

func scanRows(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		record, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("runlog: scan failed: %w", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}
