package auth

import (
	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage back-office credentials",
		Long: `Manage back-office credentials.

Use this command group to store the password 't4auto schedule run' logs in
with. Passwords live in the OS keychain, never in the config file.`,
	}

	cmd.AddCommand(LoginCommand())
	cmd.AddCommand(StatusCommand())
	cmd.AddCommand(LogoutCommand())

	return cmd
}
