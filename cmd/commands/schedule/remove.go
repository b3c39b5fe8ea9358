package schedule

import (
	"errors"
	"fmt"
	"strconv"

	"t4auto/internal/config"
	"t4auto/internal/tui"

	"github.com/spf13/cobra"
)

// RemoveCommand returns the "schedule remove" command.
func RemoveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove [number]",
		Short: "Remove a schedule row",
		Long: `Remove a schedule row by its number in 't4auto schedule list'.
Without a number, pick the row interactively.`,
		Aliases: []string{"rm"},
		Args:    cobra.MaximumNArgs(1),
		Run:     runRemove,
	}

	return cmd
}

func runRemove(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}
	if len(cfg.Schedule) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No schedule rows.")
		return
	}

	var pos int
	switch {
	case len(args) == 1:
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > len(cfg.Schedule) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: row number must be between 1 and %d\n", len(cfg.Schedule))
			return
		}
		pos = n - 1
	case interactive():
		pos, err = tui.SelectRowForm("Remove which row?", cfg.Schedule)
		if err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
				return
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}
	default:
		fmt.Fprintln(cmd.ErrOrStderr(), "Error: row number is required")
		return
	}

	removed := cfg.Schedule[pos]
	cfg.Schedule = append(cfg.Schedule[:pos], cfg.Schedule[pos+1:]...)
	if err := cfg.Save(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", tui.RowLabel(pos, removed))
}
