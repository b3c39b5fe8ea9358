package runlog

import "time"

// Outcome values stored in Record.Status.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Record is one persisted action execution.
type Record struct {
	// ID is the auto-increment primary key (assigned on insert).
	ID int64

	// RunID groups the executions of one 'schedule run' invocation.
	RunID string

	Keyword string
	StoreID int

	// Kind is "offline" or "online".
	Kind string

	// ScheduledAt is the instant the action was due.
	ScheduledAt time.Time

	// StartedAt is when the dispatch began. It is later than ScheduledAt
	// when the action was overdue at start-up.
	StartedAt time.Time

	Duration time.Duration

	// Items is the number of catalog items or rules the action touched.
	Items int

	// Status is StatusSuccess or StatusError.
	Status string

	// ErrorMessage contains a human-readable explanation when Status is "error".
	ErrorMessage string
}
