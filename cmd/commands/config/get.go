package config

import (
	"fmt"
	"os"
	"strings"

	"t4auto/internal/config"
	"t4auto/internal/tui/styles"

	"golang.org/x/term"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// GetCommand returns the "config get" command.
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get a configuration value",
		Long: "Get a persistent configuration value.\n\n" +
			"Without a key, prints every setting.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  t4auto config get              # all settings\n" +
			"  t4auto config get username     # print a single value",
		Args:         cobra.MaximumNArgs(1),
		RunE:         runGet,
		SilenceUsage: true,
	}

	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return nil
	}

	if len(args) == 0 {
		if f, ok := cmd.OutOrStdout().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			fmt.Fprintln(cmd.OutOrStdout(), renderConfigCard(cfg))
			return nil
		}
		for _, spec := range config.Keys {
			value := spec.Get(cfg)
			if value == "" {
				value = "(not set)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", spec.Name, value)
		}
		return nil
	}

	spec := config.Lookup(args[0])
	if spec == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: unknown configuration key %q\n", args[0])
		fmt.Fprintf(cmd.ErrOrStderr(), "Valid keys: %s\n", strings.Join(config.KeyNames(), ", "))
		return nil
	}

	value := spec.Get(cfg)
	if value == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "not set")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), value)
	}
	return nil
}

func renderConfigCard(cfg *config.Config) string {
	width := 0
	for _, k := range config.Keys {
		width = max(width, len(k.Name))
	}

	lines := []string{styles.Title.Render("Configuration"), ""}
	for _, spec := range config.Keys {
		value := styles.Value.Render(spec.Get(cfg))
		if spec.Get(cfg) == "" {
			value = styles.MutedText.Render("not set")
		}
		label := styles.Label.Width(width + 2).Render(spec.Name)
		lines = append(lines, label+value)
	}
	lines = append(lines, "", styles.MutedText.Render(fmt.Sprintf("%d schedule row(s)", len(cfg.Schedule))))

	return styles.Card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
