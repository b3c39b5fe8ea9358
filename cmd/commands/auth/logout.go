package auth

import (
	"errors"
	"fmt"

	"t4auto/internal/logger"
	"t4auto/internal/services/auth"
	"t4auto/internal/services/session"

	"github.com/spf13/cobra"
)

func LogoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored password",
		Long: `Remove the configured account's password from the keychain and clear
its cached store list.

Example:
  t4auto auth logout`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			svc, err := session.Load(logger.FromContext(cmd.Context()))
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return
			}
			if svc.Username() == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No account configured.")
				return
			}

			err = svc.Forget()
			switch {
			case err == nil:
				fmt.Fprintf(cmd.OutOrStdout(), "Removed stored password for %s\n", svc.Username())
			case errors.Is(err, auth.ErrPasswordNotFound):
				fmt.Fprintf(cmd.OutOrStdout(), "No password stored for %s\n", svc.Username())
			default:
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			}
		},
	}

	return cmd
}
