package stores

import (
	"github.com/spf13/cobra"
)

// NewCommand returns the "stores" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stores",
		Short: "Inspect the stores the account can manage",
	}

	cmd.AddCommand(ListCommand())

	return cmd
}
