package stores

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"t4auto/internal/domain"
	"t4auto/internal/logger"
	"t4auto/internal/services/session"
	"t4auto/internal/tui"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

// ListCommand returns the "stores list" command.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stores",
		Long: `List the stores the configured account may manage. The list is cached
for a day; --refresh logs in and fetches it again.

Example:
  t4auto stores list --refresh`,
		Args:         cobra.NoArgs,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("refresh", false, "Ignore the cached list")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	refresh, _ := cmd.Flags().GetBool("refresh")

	svc, err := session.Load(logger.FromContext(cmd.Context()))
	if err != nil {
		return err
	}

	var stores []domain.Store
	fetch := func(ctx context.Context) error {
		var err error
		stores, err = svc.Stores(ctx, refresh)
		return err
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		err = tui.Spin("Fetching stores...", fetch)
	} else {
		err = fetch(cmd.Context())
	}
	if err != nil {
		return err
	}

	if len(stores) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No stores available.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME")
	for _, s := range stores {
		fmt.Fprintf(w, "%d\t%s\n", s.ID, s.Name)
	}
	return w.Flush()
}
