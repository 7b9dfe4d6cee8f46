package components

import (
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/klidoop/fire-calculation/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	widths := LayoutRow(100, 3)
	if widths[0] != 34 || widths[1] != 33 || widths[2] != 33 {
		t.Fatalf("widths = %v", widths)
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("zero columns should give nil")
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")
	row := MetricCardRow([]Metric{
		{Label: "No Kid", Value: "age 57", Delta: "$1.01M"},
		{Label: "With Kid", Value: "age 65"},
		{Label: "Part-Time Work", Value: "age 55", Accent: theme.Active.Green},
	}, 90)

	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Errorf("line %d width = %d, want 90", i, w)
		}
	}
	if !strings.Contains(row, "age 65") {
		t.Error("card value missing")
	}
}

func TestTabIdxByKey(t *testing.T) {
	for want, key := range []rune{'o', 'c', 't', 'i'} {
		if got := TabIdxByKey(key); got != want {
			t.Errorf("TabIdxByKey(%q) = %d, want %d", key, got, want)
		}
	}
	if TabIdxByKey('z') != -1 {
		t.Error("unknown key should map to -1")
	}
}

func TestLineChartShape(t *testing.T) {
	theme.SetActive("flexoki-dark")
	labels := make([]string, 61)
	a := make([]float64, 61)
	b := make([]float64, 61)
	for i := range labels {
		labels[i] = string(rune('0' + i%10))
		a[i] = float64(i) * 1000
		b[i] = float64(30-i) * 1000
	}
	b[60] = math.NaN()

	out := LineChart([]Line{
		{Name: "Rising", Values: a, Color: theme.Active.Accent},
		{Name: "Falling", Values: b, Color: theme.Active.Orange},
	}, labels, 80, 12)

	lines := strings.Split(out, "\n")
	// plot rows, x axis, x labels, legend
	if len(lines) != 12+3 {
		t.Fatalf("lines = %d, want 15:\n%s", len(lines), out)
	}
	if !strings.Contains(out, "Rising") || !strings.Contains(out, "Falling") {
		t.Error("legend missing series names")
	}
	if !strings.Contains(out, "┈") {
		t.Error("negative values should draw a zero line")
	}
	for i, l := range lines[:12] {
		if w := lipgloss.Width(l); w > 80 {
			t.Errorf("row %d overflows: %d", i, w)
		}
	}
}

func TestLineChartEmpty(t *testing.T) {
	if LineChart(nil, nil, 80, 10) != "" {
		t.Error("empty chart should render nothing")
	}
}

func TestFormatChartLabel(t *testing.T) {
	tests := map[float64]string{
		0:       "0",
		950:     "950",
		12_000:  "12k",
		1.5e6:   "1.5M",
		-250000: "-250k",
	}
	for in, want := range tests {
		if got := formatChartLabel(in); got != want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestTargetBarClamps(t *testing.T) {
	theme.SetActive("flexoki-dark")
	over := TargetBar("No Kid", 2e6, 1e6, 10, 20)
	if !strings.Contains(over, "100%") {
		t.Errorf("over-target bar should clamp to 100%%: %q", over)
	}
	none := TargetBar("No Kid", 50000, 0, 10, 20)
	if !strings.Contains(none, "  0%") {
		t.Errorf("zero target should show 0%%: %q", none)
	}
}

func TestStatusBarWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")
	bar := RenderStatusBar(100, "solvency")
	if w := lipgloss.Width(bar); w != 100 {
		t.Errorf("status bar width = %d, want 100", w)
	}
}
