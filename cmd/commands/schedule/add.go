package schedule

import (
	"errors"
	"fmt"
	"strings"

	"t4auto/internal/domain"
	"t4auto/internal/logger"
	"t4auto/internal/schedule"
	"t4auto/internal/services/session"
	"t4auto/internal/tui"

	"github.com/spf13/cobra"
)

// AddCommand returns the "schedule add" command.
func AddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a schedule row",
		Long: `Add a schedule row.

In a terminal, missing fields are asked for with an interactive form.
Otherwise --store, --keyword, --start and --end are required.

Examples:
  t4auto schedule add
  t4auto schedule add --store 42 --keyword "choc muffin" --start 14:00 --end 06:00`,
		Args: cobra.NoArgs,
		Run:  runAdd,
	}

	cmd.Flags().Int("store", 0, "Store ID")
	cmd.Flags().String("store-name", "", "Store name (resolved when the schedule runs)")
	cmd.Flags().String("keyword", "", "Search keyword selecting the items")
	cmd.Flags().String("start", "", "Time to take items offline (HH:MM)")
	cmd.Flags().String("end", "", "Time to bring items back online (HH:MM)")
	cmd.Flags().String("reason", "", "Reason recorded on the offline rule")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) {
	svc, err := session.Load(logger.FromContext(cmd.Context()))
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}
	cfg := svc.Config()
	stores := svc.CachedStores()

	row, err := rowFromFlags(cmd)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}

	if validateRow(row) != nil || row.Start == row.End {
		if !interactive() {
			if err := validateRow(row); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			} else {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error: --start and --end are required and must differ")
			}
			return
		}
		filled, err := tui.ScheduleRowForm(stores, row)
		if err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
				return
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}
		row = *filled
	}

	if row.StoreName == "" {
		if s, ok := domain.FindStore(stores, row.StoreID); ok {
			row.StoreName = s.Name
		}
	}

	cfg.Schedule = append(cfg.Schedule, row)
	if err := cfg.Save(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", tui.RowLabel(len(cfg.Schedule)-1, row))
}

func rowFromFlags(cmd *cobra.Command) (schedule.Row, error) {
	storeID, _ := cmd.Flags().GetInt("store")
	storeName, _ := cmd.Flags().GetString("store-name")
	keyword, _ := cmd.Flags().GetString("keyword")
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	reason, _ := cmd.Flags().GetString("reason")

	row := schedule.Row{
		StoreID:   storeID,
		StoreName: strings.TrimSpace(storeName),
		Keyword:   strings.TrimSpace(keyword),
		Reason:    strings.TrimSpace(reason),
	}

	var err error
	if start != "" {
		if row.Start, err = schedule.ParseTimeOfDay(start); err != nil {
			return row, fmt.Errorf("--start: %w", err)
		}
	}
	if end != "" {
		if row.End, err = schedule.ParseTimeOfDay(end); err != nil {
			return row, fmt.Errorf("--end: %w", err)
		}
	}
	return row, nil
}
