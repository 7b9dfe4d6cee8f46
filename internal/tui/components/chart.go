package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/klidoop/fire-calculation/internal/cli"
	"github.com/klidoop/fire-calculation/internal/tui/theme"
)

// Line is one series on a LineChart. NaN values are not plotted.
type Line struct {
	Name   string
	Values []float64
	Color  lipgloss.Color
}

// Sparkline renders a unicode sparkline from values in the given color.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	style := lipgloss.NewStyle().Foreground(color)
	return style.Render(cli.RenderSparkline(values))
}

// LineChart plots every line on a shared y axis that always includes zero,
// so drawdowns into deficit read as falling below the axis. Earlier lines
// are drawn over later ones where they collide.
func LineChart(lines []Line, xLabels []string, width, height int) string {
	n := len(xLabels)
	for _, l := range lines {
		n = max(n, len(l.Values))
	}
	if n == 0 {
		return ""
	}
	height = max(height, 3)

	t := theme.Active
	lo, hi := 0.0, 0.0
	for _, l := range lines {
		for _, v := range l.Values {
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi == lo {
		hi = lo + 1
	}

	topLabel := formatChartLabel(hi)
	bottomLabel := formatChartLabel(lo)
	yLabelW := max(len(topLabel), len(bottomLabel), 4) + 1

	plotW := min(max(width-yLabelW-1, 5), n)

	rowOf := func(v float64) int {
		return int(math.Round((v - lo) / (hi - lo) * float64(height-1)))
	}
	colIndex := func(c int) int {
		if plotW <= 1 {
			return 0
		}
		return int(math.Round(float64(c) * float64(n-1) / float64(plotW-1)))
	}

	// grid[row][col] holds a line index, or -1 for empty.
	grid := make([][]int, height)
	for r := range grid {
		grid[r] = make([]int, plotW)
		for c := range grid[r] {
			grid[r][c] = -1
		}
	}
	for li := len(lines) - 1; li >= 0; li-- {
		vals := lines[li].Values
		for c := 0; c < plotW; c++ {
			idx := colIndex(c)
			if idx >= len(vals) || math.IsNaN(vals[idx]) {
				continue
			}
			grid[rowOf(vals[idx])][c] = li
		}
	}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	zeroRow := rowOf(0)

	var b strings.Builder
	for r := height - 1; r >= 0; r-- {
		label := ""
		switch r {
		case height - 1:
			label = topLabel
		case zeroRow:
			label = "0"
		case 0:
			label = bottomLabel
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, label)))
		b.WriteString(axisStyle.Render("│"))

		for c := 0; c < plotW; c++ {
			li := grid[r][c]
			switch {
			case li >= 0:
				b.WriteString(lipgloss.NewStyle().Foreground(lines[li].Color).Render("•"))
			case r == zeroRow && lo < 0:
				b.WriteString(axisStyle.Render("┈"))
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat(" ", yLabelW))
	b.WriteString(axisStyle.Render("└" + strings.Repeat("─", plotW)))
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", yLabelW+1))
	b.WriteString(axisStyle.Render(xAxisLabels(xLabels, plotW, colIndex)))
	b.WriteString("\n")
	b.WriteString(Legend(lines))

	return b.String()
}

// Legend renders a single line of colored series names.
func Legend(lines []Line) string {
	t := theme.Active
	nameStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, lipgloss.NewStyle().Foreground(l.Color).Render("■")+" "+nameStyle.Render(l.Name))
	}
	return " " + strings.Join(parts, "   ")
}

// xAxisLabels places the first, middle and last labels under their columns.
func xAxisLabels(labels []string, plotW int, colIndex func(int) int) string {
	if len(labels) == 0 || plotW == 0 {
		return ""
	}
	buf := []byte(strings.Repeat(" ", plotW))
	place := func(c int, align int) {
		idx := colIndex(c)
		if idx >= len(labels) {
			return
		}
		lbl := labels[idx]
		pos := c
		switch align {
		case 0:
			pos = c - len(lbl)/2
		case 1:
			pos = c - len(lbl) + 1
		}
		pos = max(pos, 0)
		if pos+len(lbl) > plotW {
			return
		}
		copy(buf[pos:], lbl)
	}
	place(0, -1)
	if plotW >= 24 {
		place(plotW/2, 0)
	}
	if plotW > 1 {
		place(plotW-1, 1)
	}
	return strings.TrimRight(string(buf), " ")
}

func formatChartLabel(v float64) string {
	if v < 0 {
		return "-" + formatChartLabel(-v)
	}
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.0fk", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
