// SPDX-License-Identifier: MPL-2.0

package commands

import "github.com/charmbracelet/lipgloss"

const (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorMuted     = lipgloss.Color("#6B7280")
	colorSuccess   = lipgloss.Color("#10B981")
	colorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// alertStyle frames the banner a command prints when it starts.
	alertStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), true, false).
			BorderForeground(colorPrimary)

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	valueStyle   = lipgloss.NewStyle().Foreground(colorHighlight)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

const checkMark = "✔"

func alert(msg string) string {
	return alertStyle.Render("* " + msg + " *")
}
