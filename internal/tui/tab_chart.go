package tui

import (
	"strconv"

	"github.com/klidoop/fire-calculation/internal/tui/components"
	"github.com/klidoop/fire-calculation/internal/tui/theme"
)

func (a App) renderChartTab(cw, contentH int) string {
	t := theme.Active
	pv := a.cmp.Pivot()

	labels := make([]string, len(pv.Steps))
	for i, s := range pv.Steps {
		labels[i] = strconv.Itoa(s)
	}
	lines := make([]components.Line, len(pv.Series))
	for i, s := range pv.Series {
		lines[i] = components.Line{Name: s.Scenario, Values: s.Values, Color: t.SeriesColor(i)}
	}

	// card border (2) + title (1) + axis, labels and legend (3)
	chartH := max(contentH-6, 5)
	title := "Balance by " + a.mode.StepLabel()
	return components.ContentCard(title, components.LineChart(lines, labels, components.CardInnerWidth(cw), chartH), cw)
}
