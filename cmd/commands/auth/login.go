package auth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"t4auto/internal/domain"
	"t4auto/internal/logger"
	"t4auto/internal/services/session"
	"t4auto/internal/tui"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Verify and store back-office credentials",
		Long: `Log in to the back office once to check the credentials, then store the
password in the local keychain and make the account the default.

Example:
  t4auto auth login --username ops@example.com`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			svc, err := session.Load(logger.FromContext(cmd.Context()))
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return
			}

			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			skipVerify, _ := cmd.Flags().GetBool("no-verify")

			in := bufio.NewReader(cmd.InOrStdin())

			username = strings.TrimSpace(username)
			if username == "" {
				username = svc.Username()
			}
			if username == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Username: ")
				username, err = readLine(in)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
					return
				}
			}
			if username == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error: username cannot be empty")
				return
			}

			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				password, err = readPassword(in)
				fmt.Fprintln(cmd.OutOrStdout())
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
					return
				}
			}
			if password == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error: password cannot be empty")
				return
			}

			creds := domain.Credentials{Username: username, Password: password}

			if !skipVerify {
				status, err := verify(cmd.Context(), svc, creds)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
					return
				}
				if !status.Success {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: login failed: %s\n", status.Message)
					return
				}
			}

			if err := svc.Remember(creds); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved credentials for %s\n", username)
		},
	}

	cmd.Flags().String("username", "", "Back-office username (defaults to the configured account)")
	cmd.Flags().String("password", "", "Password (optional, overrides prompt)")
	cmd.Flags().Bool("no-verify", false, "Store the password without logging in first")

	return cmd
}

// verify checks creds against the back office, behind a spinner when
// attached to a terminal.
func verify(ctx context.Context, svc *session.Service, creds domain.Credentials) (domain.LoginStatus, error) {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return svc.Verify(ctx, creds)
	}

	var status domain.LoginStatus
	err := tui.Spin("Logging in...", func(spinCtx context.Context) error {
		var err error
		status, err = svc.Verify(spinCtx, creds)
		return err
	})
	return status, err
}

func readPassword(in *bufio.Reader) (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		bytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(bytes)), nil
	}
	return readLine(in)
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
