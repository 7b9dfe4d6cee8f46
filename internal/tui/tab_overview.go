package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/klidoop/fire-calculation/internal/cli"
	"github.com/klidoop/fire-calculation/internal/engine"
	"github.com/klidoop/fire-calculation/internal/model"
	"github.com/klidoop/fire-calculation/internal/tui/components"
	"github.com/klidoop/fire-calculation/internal/tui/theme"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	summaries := a.cmp.Summaries()
	var b strings.Builder

	// Row 1: one card per scenario
	metrics := make([]components.Metric, 0, len(summaries))
	for i, s := range summaries {
		m := components.Metric{Label: s.Scenario, Accent: t.SeriesColor(i)}
		if s.Feasible {
			m.Value = cli.FormatStep(a.mode, s.TriggerStep)
			m.Delta = "FIRE " + cli.FormatCompact(s.FireNumber) + " · end " + cli.FormatCompact(s.FinalBalance)
		} else {
			m.Value = "not reachable"
			m.Accent = t.Red
			m.Delta = "no retirement point before " + cli.FormatStep(model.ModeSolvency, a.cfg.Plan.LifespanAge)
		}
		if s.Capped {
			m.Delta = fmt.Sprintf("target not reached in %d years", engine.MaxAccumulationYears)
			m.Accent = t.Orange
		}
		metrics = append(metrics, m)
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	innerW := components.CardInnerWidth(cw)
	labelW := 0
	for _, s := range summaries {
		labelW = max(labelW, lipgloss.Width(s.Scenario))
	}

	// Row 2: current savings against each FIRE number
	var progress strings.Builder
	barW := max(min(innerW-labelW-30, 50), 10)
	for i, s := range summaries {
		if i > 0 {
			progress.WriteString("\n")
		}
		progress.WriteString(components.TargetBar(s.Scenario, a.cfg.Plan.CurrentSavings, s.FireNumber, labelW, barW))
	}
	b.WriteString(components.ContentCard("Progress to FIRE number", progress.String(), cw))
	b.WriteString("\n")

	// Row 3: trajectory sparklines
	var sparks strings.Builder
	sparkW := max(innerW-labelW-2, 10)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	for i, r := range a.cmp.Results {
		if i > 0 {
			sparks.WriteString("\n")
		}
		vals := make([]float64, len(r.Points))
		for j, p := range r.Points {
			vals[j] = p.Balance
		}
		sparks.WriteString(labelStyle.Render(padRight(r.Scenario, labelW)))
		sparks.WriteString("  ")
		if len(vals) == 0 {
			sparks.WriteString(labelStyle.Render("(empty)"))
			continue
		}
		sparks.WriteString(components.Sparkline(resample(vals, sparkW), t.SeriesColor(i)))
	}
	b.WriteString(components.ContentCard("Balance trajectory", sparks.String(), cw))

	return b.String()
}

func padRight(s string, w int) string {
	return s + strings.Repeat(" ", max(w-lipgloss.Width(s), 0))
}

// resample picks at most n evenly spaced values, keeping both ends.
func resample(vals []float64, n int) []float64 {
	if len(vals) <= n || n < 2 {
		return vals
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = vals[i*(len(vals)-1)/(n-1)]
	}
	return out
}
