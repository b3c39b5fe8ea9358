package schedule

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"t4auto/internal/agent"
	"t4auto/internal/domain"
	"t4auto/internal/logger"
	"t4auto/internal/runlog"
	"t4auto/internal/schedule"
	"t4auto/internal/scheduler"
	"t4auto/internal/services/session"
	"t4auto/internal/tui"

	"golang.org/x/sync/errgroup"

	"github.com/spf13/cobra"
)

// logoutTimeout bounds the logout sent when a run ends.
const logoutTimeout = 10 * time.Second

// errStopped ends the watcher group once the agent has finished.
var errStopped = errors.New("schedule stopped")

// RunCommand returns the "schedule run" command.
func RunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the schedule until interrupted",
		Long: `Log in with the stored credentials and run the schedule, repeating every
day until Ctrl+C (or --for elapses). Actions already due today run at once.
A failed action is logged and retried at its next daily occurrence.

Every execution is recorded; see 't4auto schedule history'.

Examples:
  t4auto schedule run
  t4auto --debug schedule run --for 8h`,
		Args:         cobra.NoArgs,
		RunE:         runRun,
		SilenceUsage: true,
	}

	cmd.Flags().Duration("for", 0, "Stop after this long (0 = until interrupted)")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	l := logger.FromContext(cmd.Context())
	out := cmd.OutOrStdout()

	runFor, _ := cmd.Flags().GetDuration("for")

	svc, err := session.Load(l)
	if err != nil {
		return err
	}
	cfg := svc.Config()
	if len(cfg.Schedule) == 0 {
		return fmt.Errorf("%w: add rows with 't4auto schedule add'", domain.ErrEmptySchedule)
	}

	offset, err := cfg.CollisionOffsetDuration()
	if err != nil {
		return err
	}
	timeout, err := cfg.ActionTimeoutDuration()
	if err != nil {
		return err
	}

	schedOpts := []scheduler.Option{
		scheduler.WithActionTimeout(timeout),
		scheduler.WithCollisionOffset(offset),
	}

	var rec *runlog.Recorder
	repo, err := runlog.Open()
	if err != nil {
		l.Warn("run history unavailable", "err", err)
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: run history unavailable: %v\n", err)
	} else {
		defer repo.Close()
		rec = runlog.NewRecorder(repo, l)
		schedOpts = append(schedOpts, scheduler.WithRecorder(rec))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if runFor > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runFor)
		defer cancel()
	}

	// The agent gets a context that is never cancelled: stopping goes
	// through Stop so an in-flight request can finish.
	a := agent.New(svc.NewClient(),
		agent.WithLogger(l),
		agent.WithContext(context.WithoutCancel(ctx)),
		agent.WithStatusHandler(tui.StatusPrinter(out)),
		agent.WithScheduler(schedOpts...),
	)

	if err := svc.Login(ctx, a); err != nil {
		return err
	}
	defer func() {
		logoutCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), logoutTimeout)
		defer cancel()
		if _, err := a.Logout(logoutCtx); err != nil {
			l.Warn("logout failed", "err", err)
		}
	}()

	rows := withDefaultReason(cfg.Schedule, cfg.EffectiveReason())
	actions, skipped := schedule.Expand(rows, time.Now(), a.Stores())
	for _, s := range skipped {
		l.Warn("skipping schedule row", "row", s.Position+1, "keyword", s.Row.Keyword, "reason", s.Reason)
		fmt.Fprintf(cmd.ErrOrStderr(), "Skipping row %d (%s): %s\n", s.Position+1, s.Row.Keyword, s.Reason)
	}

	if err := a.Start(actions); err != nil {
		return err
	}
	fmt.Fprintf(out, "Running %d row(s). Press Ctrl+C to stop.\n", len(actions)/2)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-a.Done()
		if err := a.Err(); err != nil {
			return err
		}
		return errStopped
	})
	g.Go(func() error {
		<-gctx.Done()
		a.Stop()
		return nil
	})
	if err := g.Wait(); err != nil && !errors.Is(err, errStopped) {
		return err
	}

	if rec != nil {
		printRunSummary(cmd, repo, rec.RunID())
	}
	return nil
}

// withDefaultReason returns a copy of rows with reason filled in where a
// row has none.
func withDefaultReason(rows []schedule.Row, reason string) []schedule.Row {
	out := make([]schedule.Row, len(rows))
	for i, r := range rows {
		if r.Reason == "" {
			r.Reason = reason
		}
		out[i] = r
	}
	return out
}

func printRunSummary(cmd *cobra.Command, repo runlog.Repository, runID string) {
	records, err := repo.ListRun(runID)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to read run history: %v\n", err)
		return
	}

	failed := 0
	for _, r := range records {
		if r.Status == runlog.StatusError {
			failed++
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stopped after %d action(s), %d failed.\n", len(records), failed)
}
