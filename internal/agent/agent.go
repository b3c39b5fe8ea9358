// Package agent is the facade an interface layer drives: it owns the
// remote session and runs a schedule on a background goroutine until told
// to stop.
package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"t4auto/internal/cancel"
	"t4auto/internal/domain"
	"t4auto/internal/logger"
	"t4auto/internal/scheduler"
)

// Client is the remote inventory session the agent drives.
// *redcat.Client satisfies it.
type Client interface {
	scheduler.Executor

	Login(ctx context.Context, creds domain.Credentials) (domain.LoginStatus, error)
	Logout(ctx context.Context) (domain.LoginStatus, error)
	Stores() []domain.Store
	LoggedIn() bool
}

// Status is the agent state shown to the operator.
type Status int

const (
	StatusLoggedOut Status = iota
	StatusLoggedIn
	StatusRunning
)

func (s Status) String() string {
	switch s {
	case StatusLoggedIn:
		return "Logged in"
	case StatusRunning:
		return "Running"
	default:
		return "Not logged in"
	}
}

// Agent couples a Client with a Scheduler. At most one schedule runs at a
// time.
type Agent struct {
	client    Client
	schedOpts []scheduler.Option
	log       *log.Logger
	ctx       context.Context
	onStatus  func(Status)

	mu      sync.Mutex
	sig     *cancel.Signal // non-nil while running
	done    chan struct{}
	lastErr error
}

// Option configures an Agent.
type Option func(*Agent)

// WithScheduler passes options to the scheduler built for each run.
func WithScheduler(opts ...scheduler.Option) Option {
	return func(a *Agent) { a.schedOpts = append(a.schedOpts, opts...) }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(a *Agent) { a.log = logger.OrDiscard(l) }
}

// WithContext sets the parent context of every remote call made by a run.
// Cancelling it also stops the run.
func WithContext(ctx context.Context) Option {
	return func(a *Agent) {
		if ctx != nil {
			a.ctx = ctx
		}
	}
}

// WithStatusHandler registers fn to be called after every status change.
// fn may be called from the run goroutine.
func WithStatusHandler(fn func(Status)) Option {
	return func(a *Agent) { a.onStatus = fn }
}

// New creates an idle Agent.
func New(client Client, opts ...Option) *Agent {
	done := make(chan struct{})
	close(done)

	a := &Agent{
		client: client,
		log:    logger.Discard(),
		ctx:    context.Background(),
		done:   done,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Login authenticates the client session.
func (a *Agent) Login(ctx context.Context, username, password string) (domain.LoginStatus, error) {
	status, err := a.client.Login(ctx, domain.Credentials{Username: username, Password: password})
	a.notify()
	return status, err
}

// Logout ends the client session. A running schedule keeps running, and its
// actions fail with domain.ErrNotLoggedIn until the next Login.
func (a *Agent) Logout(ctx context.Context) (domain.LoginStatus, error) {
	if a.running() {
		a.log.Warn("logging out while a schedule is running")
	}
	status, err := a.client.Logout(ctx)
	a.notify()
	return status, err
}

// Stores returns the stores available to the logged-in account.
func (a *Agent) Stores() []domain.Store {
	return a.client.Stores()
}

// Start runs actions on a new goroutine and returns immediately. The
// caller expands and filters schedule rows; any invalid action is rejected
// here before anything runs.
func (a *Agent) Start(actions []*domain.ActionRow) error {
	a.mu.Lock()
	if a.sig != nil {
		a.mu.Unlock()
		return domain.ErrAlreadyRunning
	}
	if !a.client.LoggedIn() {
		a.mu.Unlock()
		return domain.ErrNotLoggedIn
	}
	if len(actions) == 0 {
		a.mu.Unlock()
		return domain.ErrEmptySchedule
	}
	for i, act := range actions {
		if act == nil {
			a.mu.Unlock()
			return fmt.Errorf("%w: action %d is nil", domain.ErrInvalidAction, i)
		}
		if err := act.Validate(); err != nil {
			a.mu.Unlock()
			return err
		}
	}

	sig := cancel.New()
	done := make(chan struct{})
	a.sig = sig
	a.done = done
	a.lastErr = nil
	a.mu.Unlock()

	opts := append([]scheduler.Option{scheduler.WithLogger(a.log)}, a.schedOpts...)
	sched := scheduler.New(a.client, opts...)

	a.notify()

	go func() {
		err := sched.Run(a.ctx, actions, sig)
		if err != nil {
			a.log.Error("run ended with error", "err", err)
		}

		a.mu.Lock()
		a.sig = nil
		a.lastErr = err
		a.mu.Unlock()

		close(done)
		a.notify()
	}()
	return nil
}

// Stop asks a running schedule to end and returns without waiting. An
// in-flight remote call is allowed to finish. Stop is a no-op when idle.
func (a *Agent) Stop() {
	a.mu.Lock()
	sig := a.sig
	a.mu.Unlock()
	if sig != nil {
		sig.Trigger()
	}
}

// Done is closed when the current (or last) run has ended. It is already
// closed if no run was ever started.
func (a *Agent) Done() <-chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.done
}

// Err returns the error the last run ended with.
func (a *Agent) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Status reports the current agent state.
func (a *Agent) Status() Status {
	if a.running() {
		return StatusRunning
	}
	if a.client.LoggedIn() {
		return StatusLoggedIn
	}
	return StatusLoggedOut
}

func (a *Agent) running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sig != nil
}

func (a *Agent) notify() {
	if a.onStatus != nil {
		a.onStatus(a.Status())
	}
}
