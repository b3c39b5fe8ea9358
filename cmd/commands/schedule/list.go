package schedule

import (
	"fmt"
	"text/tabwriter"

	"t4auto/internal/config"

	"github.com/spf13/cobra"
)

// ListCommand returns the "schedule list" command.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List schedule rows",
		Args:         cobra.NoArgs,
		RunE:         runList,
		SilenceUsage: true,
	}

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if len(cfg.Schedule) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No schedule rows. Add one with 't4auto schedule add'.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSTORE\tKEYWORD\tOFFLINE\tONLINE\tREASON")
	for i, r := range cfg.Schedule {
		reason := r.Reason
		if reason == "" {
			reason = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, r.Store(), r.Keyword, r.Start, r.End, reason)
	}
	return w.Flush()
}
