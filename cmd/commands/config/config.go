package config

import (
	"t4auto/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage t4auto configuration",
		Long: "View and modify persistent t4auto settings.\n\n" +
			"Configuration is stored at ~/.config/t4auto/config.json.\n" +
			"Schedule rows are edited with 't4auto schedule'.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
