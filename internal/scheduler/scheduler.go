package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"t4auto/internal/cancel"
	"t4auto/internal/domain"
	"t4auto/internal/logger"

	"github.com/charmbracelet/log"
)

// DefaultActionTimeout bounds a single dispatch, including pagination.
const DefaultActionTimeout = 2 * time.Minute

// Executor performs the remote mutation for an action. Both methods return
// the number of items or rules touched.
type Executor interface {
	TakeItemsOffline(ctx context.Context, action domain.ActionRow) (int, error)
	TakeItemsOnline(ctx context.Context, action domain.ActionRow) (int, error)
}

// Recorder receives one Execution per dispatch.
type Recorder interface {
	Record(exec domain.Execution)
}

// Scheduler runs a set of actions against an Executor. A Scheduler holds
// no per-run state and may be reused for successive runs, but Run must not
// be called concurrently with the same Executor session.
type Scheduler struct {
	exec            Executor
	log             *log.Logger
	now             func() time.Time
	recorder        Recorder
	actionTimeout   time.Duration
	collisionOffset time.Duration
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) { s.log = logger.OrDiscard(l) }
}

// WithClock overrides the time source used for due-time computation.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRecorder reports every dispatch to r.
func WithRecorder(r Recorder) Option {
	return func(s *Scheduler) { s.recorder = r }
}

// WithActionTimeout bounds each dispatch. Zero or negative disables the
// deadline.
func WithActionTimeout(d time.Duration) Option {
	return func(s *Scheduler) { s.actionTimeout = d }
}

// WithCollisionOffset spreads actions that share an exact instant when a
// run starts: the n-th action at an instant (in Index order) is moved n*d
// later. Zero disables spreading.
//
// Only exact collisions are shifted, so a shifted action can land after a
// later action it never collided with: A and B at 09:00 with C at 09:00:30
// and a 60s offset run A, C, B. The queue order stays total and every
// action still runs once per day.
func WithCollisionOffset(d time.Duration) Option {
	return func(s *Scheduler) { s.collisionOffset = d }
}

// New creates a Scheduler dispatching to exec.
func New(exec Executor, opts ...Option) *Scheduler {
	s := &Scheduler{
		exec:          exec,
		log:           logger.Discard(),
		now:           time.Now,
		actionTimeout: DefaultActionTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes actions until sig is triggered or ctx is cancelled, and then
// returns nil. It returns an error immediately, without waiting, when the
// action set is empty or contains an invalid action.
//
// Run takes ownership of the actions: their ActionTime is advanced by one
// day after every attempt.
func (s *Scheduler) Run(ctx context.Context, actions []*domain.ActionRow, sig *cancel.Signal) error {
	if s.exec == nil {
		return errors.New("scheduler: nil executor")
	}
	if sig == nil {
		return errors.New("scheduler: nil cancellation signal")
	}
	if len(actions) == 0 {
		return domain.ErrEmptySchedule
	}
	for i, a := range actions {
		if a == nil {
			return fmt.Errorf("%w: action %d is nil", domain.ErrInvalidAction, i)
		}
		if err := a.Validate(); err != nil {
			return err
		}
	}

	stop := context.AfterFunc(ctx, sig.Trigger)
	defer stop()

	q := &actionQueue{}
	for _, a := range s.spread(actions) {
		q.push(a)
	}

	s.log.Info("schedule started", "actions", q.Len(), "first", q.peek().ActionTime.Format(time.DateTime))

	for !sig.IsTriggered() {
		next := q.peek()

		// Recomputed every iteration so a late wake-up or a slow dispatch
		// never shifts later actions.
		if wait := next.ActionTime.Sub(s.now()); wait > 0 {
			s.log.Debug("waiting for next action",
				"keyword", next.Keyword,
				"kind", next.Kind,
				"due", next.ActionTime.Format(time.DateTime),
				"in", wait.Round(time.Second),
			)
			if sig.Wait(wait) {
				break
			}
		}
		if sig.IsTriggered() {
			break
		}

		action := q.pop()
		s.dispatch(ctx, action)
		action.Rearm()
		q.push(action)
	}

	s.log.Info("schedule stopped")
	return nil
}

// dispatch runs one action and reports the outcome. It never panics and
// never returns an error: failures are contained here.
func (s *Scheduler) dispatch(ctx context.Context, action *domain.ActionRow) {
	exec := domain.Execution{Action: *action, Started: s.now()}
	started := time.Now()

	exec.Items, exec.Err = s.call(ctx, *action)
	exec.Duration = time.Since(started)

	fields := []any{
		"keyword", action.Keyword,
		"store", action.StoreID,
		"kind", action.Kind,
		"items", exec.Items,
		"took", exec.Duration.Round(time.Millisecond),
	}
	if exec.Err != nil {
		s.log.Error("action failed, retrying at next occurrence", append(fields, "err", exec.Err)...)
	} else {
		s.log.Info("action done", fields...)
	}

	if s.recorder != nil {
		s.recorder.Record(exec)
	}
}

func (s *Scheduler) call(ctx context.Context, action domain.ActionRow) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scheduler: action panicked: %v", r)
		}
	}()

	runCtx := ctx
	if s.actionTimeout > 0 {
		var cancelRun context.CancelFunc
		runCtx, cancelRun = context.WithTimeout(ctx, s.actionTimeout)
		defer cancelRun()
	}

	switch action.Kind {
	case domain.TakeOffline:
		return s.exec.TakeItemsOffline(runCtx, action)
	case domain.TakeOnline:
		return s.exec.TakeItemsOnline(runCtx, action)
	default:
		return 0, fmt.Errorf("%w: unknown kind %v", domain.ErrInvalidAction, action.Kind)
	}
}

// spread applies the collision offset. Actions are returned in queue order.
func (s *Scheduler) spread(actions []*domain.ActionRow) []*domain.ActionRow {
	sorted := make([]*domain.ActionRow, len(actions))
	copy(sorted, actions)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Before(*sorted[j]) })

	if s.collisionOffset <= 0 {
		return sorted
	}

	var instant time.Time
	shift := 0
	for i, a := range sorted {
		if i > 0 && a.ActionTime.Equal(instant) {
			shift++
			a.ActionTime = a.ActionTime.Add(time.Duration(shift) * s.collisionOffset)
			s.log.Debug("spreading colliding action",
				"keyword", a.Keyword,
				"kind", a.Kind,
				"due", a.ActionTime.Format(time.DateTime),
			)
			continue
		}
		instant = a.ActionTime
		shift = 0
	}
	return sorted
}
