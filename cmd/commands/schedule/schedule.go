package schedule

import (
	"fmt"
	"os"
	"strings"

	"t4auto/internal/schedule"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

// NewCommand returns the "schedule" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Edit and run the daily offline/online schedule",
		Long: `Edit and run the daily offline/online schedule.

Each row takes the items matching a keyword offline at a store at its start
time and back online at its end time. An end time earlier than the start
time runs overnight. Rows are stored in the config file.`,
	}

	cmd.AddCommand(AddCommand())
	cmd.AddCommand(ListCommand())
	cmd.AddCommand(RemoveCommand())
	cmd.AddCommand(ImportCommand())
	cmd.AddCommand(ExportCommand())
	cmd.AddCommand(RunCommand())
	cmd.AddCommand(HistoryCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}

// interactive reports whether forms can be shown.
func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// validateRow checks the fields every stored row needs. Store names are
// resolved when the schedule runs.
func validateRow(r schedule.Row) error {
	if strings.TrimSpace(r.Keyword) == "" {
		return fmt.Errorf("keyword is required")
	}
	if r.StoreID <= 0 && strings.TrimSpace(r.StoreName) == "" {
		return fmt.Errorf("store is required")
	}
	return nil
}
