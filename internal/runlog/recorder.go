package runlog

import (
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"t4auto/internal/domain"
	"t4auto/internal/logger"
)

// Recorder persists scheduler executions under one run ID. It satisfies
// scheduler.Recorder. Write failures are logged and otherwise ignored so
// a broken history never stops a schedule.
type Recorder struct {
	repo  Repository
	runID string
	log   *log.Logger
}

// NewRecorder starts a new run in repo.
func NewRecorder(repo Repository, l *log.Logger) *Recorder {
	return &Recorder{
		repo:  repo,
		runID: uuid.NewString(),
		log:   logger.OrDiscard(l),
	}
}

// RunID identifies the run this recorder writes.
func (r *Recorder) RunID() string {
	return r.runID
}

// Record saves one execution.
func (r *Recorder) Record(exec domain.Execution) {
	rec := &Record{
		RunID:       r.runID,
		Keyword:     exec.Action.Keyword,
		StoreID:     exec.Action.StoreID,
		Kind:        exec.Action.Kind.String(),
		ScheduledAt: exec.Action.ActionTime,
		StartedAt:   exec.Started,
		Duration:    exec.Duration,
		Items:       exec.Items,
		Status:      StatusSuccess,
	}
	if exec.Err != nil {
		rec.Status = StatusError
		rec.ErrorMessage = exec.Err.Error()
	}

	if err := r.repo.Save(rec); err != nil {
		r.log.Warn("failed to record execution", "keyword", rec.Keyword, "err", err)
	}
}
