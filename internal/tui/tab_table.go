package tui

import (
	"fmt"
	"strings"

	"github.com/klidoop/fire-calculation/internal/cli"
	"github.com/klidoop/fire-calculation/internal/tui/components"
)

func (a App) renderTableTab(cw int) string {
	tbl := cli.StepTable(a.cmp)
	lines := strings.Split(strings.TrimRight(cli.RenderTable(tbl), "\n"), "\n")
	if len(lines) < 4 {
		return components.ContentCard("Year by year", "no data", cw)
	}

	// Keep the header (top border, headings, rule) and footer fixed.
	head, body, foot := lines[:3], lines[3:len(lines)-1], lines[len(lines)-1]
	start := min(a.tableScroll, len(body))
	end := min(start+a.tableRows(), len(body))

	visible := append(append(append([]string{}, head...), body[start:end]...), foot)
	title := fmt.Sprintf("Year by year (%d-%d of %d)", start+1, end, len(body))
	return components.ContentCard(title, strings.Join(visible, "\n"), cw)
}
