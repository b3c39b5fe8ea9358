package schedule

import (
	"fmt"

	"t4auto/internal/config"
	"t4auto/internal/schedule"

	"github.com/spf13/cobra"
)

// ImportCommand returns the "schedule import" command.
func ImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add rows from a YAML or JSON file",
		Long: `Add rows from a YAML or JSON file with a top-level "schedule" list.

Example file:
  schedule:
    - store_id: 42
      keyword: choc muffin
      start: "14:00"
      end: "06:00"
      reason: Sold out`,
		Args:         cobra.ExactArgs(1),
		RunE:         runImport,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("replace", false, "Replace the current schedule instead of appending")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	replace, _ := cmd.Flags().GetBool("replace")

	rows, err := schedule.LoadFile(args[0])
	if err != nil {
		return err
	}
	for i, r := range rows {
		if err := validateRow(r); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if replace {
		cfg.Schedule = rows
	} else {
		cfg.Schedule = append(cfg.Schedule, rows...)
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d row(s); schedule has %d\n", len(rows), len(cfg.Schedule))
	return nil
}

// ExportCommand returns the "schedule export" command.
func ExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "export <file>",
		Short:        "Write the schedule to a YAML or JSON file",
		Args:         cobra.ExactArgs(1),
		RunE:         runExport,
		SilenceUsage: true,
	}

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := schedule.SaveFile(args[0], cfg.Schedule); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d row(s) to %s\n", len(cfg.Schedule), args[0])
	return nil
}
