package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/klidoop/fire-calculation/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar: key hints on the left,
// right-aligned status text on the right.
func RenderStatusBar(width int, right string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)

	left := " [?]help  [m]ode  [e]dit  [s]ave  [w]rite csv  [q]uit"
	if right != "" {
		right += " "
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return style.Render(left + strings.Repeat(" ", padding) + right)
}
