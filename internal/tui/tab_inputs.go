package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/klidoop/fire-calculation/internal/cli"
	"github.com/klidoop/fire-calculation/internal/config"
	"github.com/klidoop/fire-calculation/internal/pipeline"
	"github.com/klidoop/fire-calculation/internal/tui/components"
	"github.com/klidoop/fire-calculation/internal/tui/theme"
)

func (a App) renderInputsTab(cw int) string {
	t := theme.Active
	p := a.cfg.Plan

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent)

	fields := []struct{ label, value string }{
		{"Mode", string(a.mode)},
		{"Current age", strconv.Itoa(p.CurrentAge)},
		{"Lifespan age", strconv.Itoa(p.LifespanAge)},
		{"Retirement years", strconv.Itoa(p.RetirementYears)},
		{"Annual expenses", cli.FormatMoney(p.AnnualExpenses)},
		{"Annual savings", cli.FormatMoney(p.AnnualSavings)},
		{"Current savings", cli.FormatMoney(p.CurrentSavings)},
		{"Return before retirement", cli.FormatPercent(p.PreRetirementReturn)},
		{"Return after retirement", cli.FormatPercent(p.PostRetirementReturn)},
		{"Inflation", cli.FormatPercent(p.InflationRate)},
		{"Withdrawal rate", cli.FormatPercent(p.WithdrawalRate)},
		{"Expense reduction", cli.FormatPercent(p.ExpenseReduction)},
	}

	var plan strings.Builder
	for i, f := range fields {
		if i > 0 {
			plan.WriteString("\n")
		}
		plan.WriteString(labelStyle.Render(fmt.Sprintf("%-26s", f.label)))
		plan.WriteString(valueStyle.Render(f.value))
	}

	var sc strings.Builder
	for i, o := range pipeline.BuildScenarios(a.cfg.Scenarios) {
		if i > 0 {
			sc.WriteString("\n")
		}
		sc.WriteString(lipgloss.NewStyle().Foreground(t.SeriesColor(i)).Render("■ "))
		sc.WriteString(valueStyle.Render(o.Label))
		if desc := describeOverlay(o.AnnualExpenses, o.AnnualSavings, o.PartTimeIncome); desc != "" {
			sc.WriteString(labelStyle.Render("  " + desc))
		}
		if d := o.Dependent; d != nil {
			sc.WriteString(labelStyle.Render(fmt.Sprintf("  ages %d-%d: %s spend, %s saved",
				d.StartAge, d.StartAge+d.Years-1, cli.FormatMoney(d.AnnualExpenses), cli.FormatMoney(d.AnnualSavings))))
		}
	}

	halves := components.LayoutRow(cw, 2)
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		components.ContentCard("Plan", plan.String(), halves[0]),
		components.ContentCard("Scenarios", sc.String(), halves[1]),
	)

	footer := labelStyle.Render("  config: ") + accentStyle.Render(config.ConfigPath()) +
		labelStyle.Render("   [e] edit  [s] save")
	return row + "\n" + footer
}

func describeOverlay(expenses, savings *float64, partTime float64) string {
	var parts []string
	if expenses != nil {
		parts = append(parts, cli.FormatMoney(*expenses)+" spend")
	}
	if savings != nil {
		parts = append(parts, cli.FormatMoney(*savings)+" saved")
	}
	if partTime > 0 {
		parts = append(parts, cli.FormatMoney(partTime)+" part-time income")
	}
	return strings.Join(parts, ", ")
}
