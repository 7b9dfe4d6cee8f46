package cli

import (
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/klidoop/fire-calculation/internal/config"
	"github.com/klidoop/fire-calculation/internal/model"
	"github.com/klidoop/fire-calculation/internal/pipeline"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{12.5, "$12.50"},
		{999.994, "$999.99"},
		{1006709.71, "$1,006,710"},
		{-3400, "-$3,400"},
		{math.NaN(), "-"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.in); got != tt.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{500, "$500"},
		{1234, "$1.2K"},
		{1006709, "$1.01M"},
		{2.5e9, "$2.50B"},
		{-1500, "-$1.5K"},
	}
	for _, tt := range tests {
		if got := FormatCompact(tt.in); got != tt.want {
			t.Errorf("FormatCompact(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-42000, "-42,000"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPercentAndStep(t *testing.T) {
	if got := FormatPercent(0.04); got != "4.0%" {
		t.Errorf("FormatPercent(0.04) = %q", got)
	}
	if got := FormatStep(model.ModeSolvency, 57); got != "age 57" {
		t.Errorf("FormatStep solvency = %q", got)
	}
	if got := FormatStep(model.ModeWithdrawalRate, 27); got != "27 years" {
		t.Errorf("FormatStep withdrawal-rate = %q", got)
	}
	if got := FormatStep(model.ModeWithdrawalRate, 1); got != "1 year" {
		t.Errorf("FormatStep single year = %q", got)
	}
}

func TestFormatDelta(t *testing.T) {
	if got := FormatDelta(1500, 1000); got != "+$500.00" {
		t.Errorf("FormatDelta up = %q", got)
	}
	if got := FormatDelta(1000, 3000); got != "-$2,000" {
		t.Errorf("FormatDelta down = %q", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline(nil); got != "" {
		t.Errorf("empty sparkline = %q", got)
	}

	got := []rune(RenderSparkline([]float64{0, 50, 100}))
	if string(got) != "▁▄█" {
		t.Errorf("sparkline = %q, want ▁▄█", string(got))
	}

	// Deficits sit below zero instead of clamping to it.
	got = []rune(RenderSparkline([]float64{100, 0, -100}))
	if got[0] != '█' || got[2] != '▁' || got[1] == got[2] {
		t.Errorf("negative sparkline = %q", string(got))
	}

	got = []rune(RenderSparkline([]float64{1, math.NaN(), 1}))
	if got[1] != ' ' {
		t.Errorf("NaN should render as a gap, got %q", string(got))
	}
}

func TestRenderHorizontalBar(t *testing.T) {
	bar := RenderHorizontalBar("No Kid", 50, 100, 10)
	if strings.Count(bar, "█") != 5 || strings.Count(bar, "░") != 5 {
		t.Errorf("half bar = %q", bar)
	}
	if !strings.Contains(bar, "$50.00") {
		t.Errorf("bar should carry the value: %q", bar)
	}
	if empty := RenderHorizontalBar("None", 0, 100, 10); strings.Contains(empty, "█") {
		t.Errorf("zero bar should be empty: %q", empty)
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Summary",
		Headers: []string{"Scenario", "FIRE Age"},
		Rows: [][]string{
			{"No Kid", "57"},
			{"---"},
			{"Part-Time Work", "55"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// title, top, header, header rule, row, separator, row, bottom
	if len(lines) != 8 {
		t.Fatalf("lines = %d:\n%s", len(lines), out)
	}
	width := lipgloss.Width(lines[1])
	for _, l := range lines[1:] {
		if lipgloss.Width(l) != width {
			t.Errorf("ragged table line %q", l)
		}
	}
	if !strings.Contains(lines[4], "No Kid        ") || !strings.Contains(lines[4], "      57 ") {
		t.Errorf("alignment wrong: %q", lines[4])
	}
	if RenderTable(Table{}) != "" {
		t.Error("empty table should render nothing")
	}
}

func TestSummaryAndStepTables(t *testing.T) {
	cfg := config.DefaultConfig()
	c := pipeline.NewRunner(nil).Run(cfg.Plan.Parameters(), pipeline.BuildScenarios(cfg.Scenarios), model.ModeSolvency)

	sum := SummaryTable(c)
	if len(sum.Rows) != 3 {
		t.Fatalf("summary rows = %d", len(sum.Rows))
	}
	if got := sum.Rows[0]; got[0] != "No Kid" || got[1] != "age 57" || got[2] != "$1,006,710" {
		t.Errorf("baseline row = %v", got)
	}

	steps := StepTable(c)
	if len(steps.Rows) != 61 || steps.Headers[0] != "Age" {
		t.Fatalf("step table = %d rows, headers %v", len(steps.Rows), steps.Headers)
	}
	if !strings.HasPrefix(steps.Rows[57-30][1], "*") {
		t.Errorf("trigger row not starred: %v", steps.Rows[57-30])
	}

	p := cfg.Plan.Parameters()
	p.CurrentAge = 89
	empty := pipeline.NewRunner(nil).Run(p, []model.Overlay{{Label: "Late"}}, model.ModeSolvency)
	if got := SummaryTable(empty).Rows[0]; got[1] != "never" || got[2] != "-" {
		t.Errorf("infeasible row = %v", got)
	}
}
