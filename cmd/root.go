package cmd

import (
	"os"
	"path/filepath"

	"t4auto/cmd/commands/auth"
	cfgcmd "t4auto/cmd/commands/config"
	"t4auto/cmd/commands/schedule"
	"t4auto/cmd/commands/stores"
	"t4auto/internal/config"
	"t4auto/internal/logger"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var debug bool

	var cmd = &cobra.Command{
		Use:   "t4auto",
		Short: "Take catalog items offline and back online on a daily schedule",
		Long: `t4auto drives a Redcat back office on a daily timetable. Each schedule
row names a store, a keyword, and a window: items matching the keyword
are taken offline at the start of the window and brought back online at
the end, every day, until the run is stopped.

Quick start:
  t4auto auth login                  # Store your back-office password
  t4auto stores list                 # Show the stores you can manage
  t4auto schedule add                # Add a row interactively
  t4auto schedule run                # Run the schedule until Ctrl+C`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.Dir()
			if err != nil {
				return err
			}
			l, err := logger.New(logger.Config{Debug: debug, Dir: filepath.Join(dir, "logs")})
			if err != nil {
				return err
			}
			cmd.SetContext(logger.WithContext(cmd.Context(), l))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Mirror debug logs to stderr")

	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(stores.NewCommand())
	cmd.AddCommand(schedule.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	var root = rootCmd()
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
