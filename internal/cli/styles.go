package cli

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Success renders a completed step, e.g. "✓ Accounts retrieved"
func Success(msg string) string {
	return successStyle.Render("✓ " + msg)
}

// Failure renders a failed step, e.g. "✗ Failed to fetch accounts"
func Failure(msg string) string {
	return errorStyle.Render("✗ " + msg)
}

// Progress renders a pending step
func Progress(msg string) string {
	return subtleStyle.Render(msg)
}

// ErrorLine renders the final error message printed before exiting
func ErrorLine(err error) string {
	return errorStyle.Render("Error: " + err.Error())
}

func notSet() string {
	return subtleStyle.Render("(not set)")
}
