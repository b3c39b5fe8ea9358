package schedule

import (
	"fmt"
	"text/tabwriter"
	"time"

	"t4auto/internal/runlog"
	"t4auto/internal/tui/styles"

	"github.com/spf13/cobra"
)

// HistoryCommand returns the "schedule history" command.
func HistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent action executions",
		Long: `Show recent action executions recorded by 't4auto schedule run'.

Examples:
  t4auto schedule history
  t4auto schedule history --limit 50`,
		Args:         cobra.NoArgs,
		RunE:         runHistory,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 20, "Number of executions to show")
	cmd.Flags().String("run", "", "Show only the executions of this run ID")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	runID, _ := cmd.Flags().GetString("run")

	repo, err := runlog.Open()
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer repo.Close()

	var records []runlog.Record
	if runID != "" {
		records, err = repo.ListRun(runID)
	} else {
		records, err = repo.ListRecent(limit)
	}
	if err != nil {
		return fmt.Errorf("failed to read run history: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No executions recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tKIND\tKEYWORD\tSTORE\tITEMS\tTOOK\tSTATUS\tERROR")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			r.StartedAt.Local().Format(time.DateTime),
			r.Kind,
			r.Keyword,
			r.StoreID,
			r.Items,
			r.Duration.Round(time.Millisecond),
			styles.StatusStyle(r.Status).Render(r.Status),
			r.ErrorMessage,
		)
	}
	return w.Flush()
}

// PruneCommand returns the "schedule prune" command.
func PruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "prune",
		Short:        "Delete old execution history",
		Args:         cobra.NoArgs,
		RunE:         runPrune,
		SilenceUsage: true,
	}

	cmd.Flags().Duration("older-than", 30*24*time.Hour, "Delete executions started before this long ago")

	return cmd
}

func runPrune(cmd *cobra.Command, args []string) error {
	age, _ := cmd.Flags().GetDuration("older-than")
	if age <= 0 {
		return fmt.Errorf("--older-than must be positive")
	}

	repo, err := runlog.Open()
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer repo.Close()

	n, err := repo.DeleteOlderThan(age)
	if err != nil {
		return fmt.Errorf("failed to prune run history: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d execution(s)\n", n)
	return nil
}
