package tui

import (
	"fmt"
	"io"

	"t4auto/internal/agent"
	"t4auto/internal/tui/styles"
)

// StatusLabel renders an agent status as a colored badge.
func StatusLabel(s agent.Status) string {
	return styles.StatusIndicator(s.String())
}

// StatusPrinter returns an agent status handler that prints each change to
// w.
func StatusPrinter(w io.Writer) func(agent.Status) {
	return func(s agent.Status) {
		fmt.Fprintln(w, StatusLabel(s))
	}
}
