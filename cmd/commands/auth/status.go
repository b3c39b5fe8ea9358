package auth

import (
	"context"
	"fmt"
	"os"

	"t4auto/internal/agent"
	"t4auto/internal/logger"
	"t4auto/internal/services/session"
	"t4auto/internal/tui"
	"t4auto/internal/tui/styles"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the configured account and whether its password is stored",
		Long: `Show the configured account and whether its password is stored.

With --check, also log in and out again to confirm the back office
accepts the stored password.

Example:
  t4auto auth status --check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := logger.FromContext(cmd.Context())
			svc, err := session.Load(l)
			if err != nil {
				return err
			}

			check, _ := cmd.Flags().GetBool("check")
			out := cmd.OutOrStdout()

			username := svc.Username()
			if username == "" {
				fmt.Fprintln(out, "No account configured. Run 't4auto auth login'.")
				return nil
			}

			stored, err := svc.HasPassword()
			if err != nil {
				return fmt.Errorf("failed to read keychain: %w", err)
			}

			fmt.Fprintf(out, "%s %s\n", styles.Label.Render("Account:"), username)
			fmt.Fprintf(out, "%s %s\n", styles.Label.Render("Back office:"), svc.Config().EffectiveBaseURL())
			if stored {
				fmt.Fprintf(out, "%s %s\n", styles.Label.Render("Password:"), "stored in keychain")
			} else {
				fmt.Fprintf(out, "%s %s\n", styles.Label.Render("Password:"), styles.WarningText.Render("missing"))
			}

			if !check || !stored {
				return nil
			}

			a := agent.New(svc.NewClient(), agent.WithLogger(l), agent.WithStatusHandler(tui.StatusPrinter(out)))
			login := func(ctx context.Context) error { return svc.Login(ctx, a) }
			if term.IsTerminal(int(os.Stderr.Fd())) {
				err = tui.Spin("Logging in...", login)
			} else {
				err = login(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("login check failed: %w", err)
			}
			fmt.Fprintf(out, "%d store(s) available\n", len(a.Stores()))

			if _, err := a.Logout(cmd.Context()); err != nil {
				l.Warn("logout failed", "err", err)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().Bool("check", false, "Log in to verify the stored password")

	return cmd
}
