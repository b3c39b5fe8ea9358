package styles

import "github.com/charmbracelet/lipgloss"

// --- Typography ---

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(White)

	// Label is used for field names in detail views.
	Label = lipgloss.NewStyle().
		Foreground(Gray).
		Bold(true)

	Value = lipgloss.NewStyle().
		Foreground(White)

	// MutedText is for help text, hints, and less important info.
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	ErrorText = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	SuccessText = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	WarningText = lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true)
)

// --- Status badges ---

// StatusStyle returns the style for an agent status or execution outcome.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "Logged in", "success":
		return lipgloss.NewStyle().Foreground(Green).Bold(true)
	case "Running":
		return lipgloss.NewStyle().Foreground(Blue).Bold(true)
	case "Not logged in", "error":
		return lipgloss.NewStyle().Foreground(Red).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(Gray)
	}
}

// StatusIndicator returns a dot followed by the status text, both colored.
func StatusIndicator(status string) string {
	style := StatusStyle(status)
	return style.Render("•") + " " + style.Render(status)
}

// Card is a rounded-border panel for summaries.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(DimGray).
	Padding(0, 1)
