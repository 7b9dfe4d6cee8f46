package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/klidoop/fire-calculation/internal/cli"
	"github.com/klidoop/fire-calculation/internal/config"
	"github.com/klidoop/fire-calculation/internal/model"
	"github.com/klidoop/fire-calculation/internal/tui/components"
)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

// loadedApp returns an App sized to 120x40 holding a finished default run.
func loadedApp(t *testing.T, mode model.Mode) App {
	t.Helper()
	cfg := config.DefaultConfig()
	a := NewApp(cfg, mode, nil)
	msg := computeCmd(a.runner, cfg, mode)()
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = m.Update(msg)
	return m.(App)
}

func press(m tea.Model, key string) tea.Model {
	var msg tea.KeyMsg
	switch key {
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	a := App{}
	pos := 0
	for i, tab := range components.Tabs {
		w := len(tab.Name) + 2
		if got := a.tabAtX(pos + w/2); got != i {
			t.Fatalf("x=%d -> tab=%d, want %d", pos+w/2, got, i)
		}
		pos += w + 1
	}
	if got := a.tabAtX(pos + 50); got != -1 {
		t.Fatalf("click past the last tab = %d, want -1", got)
	}
}

func TestLoadingView(t *testing.T) {
	a := NewApp(config.DefaultConfig(), model.ModeSolvency, nil)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if !strings.Contains(m.View(), "Projecting scenarios") {
		t.Fatal("expected loading view before the first result")
	}
}

func TestTooNarrow(t *testing.T) {
	a := loadedApp(t, model.ModeSolvency)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	if !strings.Contains(m.View(), "too narrow") {
		t.Fatal("expected narrow-terminal message")
	}
}

func TestOverviewShowsTriggerAges(t *testing.T) {
	a := loadedApp(t, model.ModeSolvency)
	view := a.View()
	for _, want := range []string{"No Kid", "With Kid", "Part-Time Work", "age 57", "age 65", "age 55"} {
		if !strings.Contains(view, want) {
			t.Errorf("overview missing %q", want)
		}
	}
}

func TestTabNavigation(t *testing.T) {
	var m tea.Model = loadedApp(t, model.ModeSolvency)

	steps := []struct {
		key  string
		want int
	}{
		{"c", tabChart},
		{"t", tabTable},
		{"i", tabInputs},
		{"right", tabOverview},
		{"left", tabInputs},
		{"o", tabOverview},
	}
	for _, s := range steps {
		m = press(m, s.key)
		if got := m.(App).activeTab; got != s.want {
			t.Fatalf("after %q active tab = %d, want %d", s.key, got, s.want)
		}
	}
}

func TestChartAndInputsTabsRender(t *testing.T) {
	m := press(loadedApp(t, model.ModeSolvency), "c")
	if v := m.View(); !strings.Contains(v, "Balance by Age") || !strings.Contains(v, "Part-Time Work") {
		t.Error("chart tab should title by step and show a legend")
	}

	m = press(m, "i")
	v := m.View()
	for _, want := range []string{"Annual expenses", "$40,000", "5.0%", "Scenarios"} {
		if !strings.Contains(v, want) {
			t.Errorf("inputs tab missing %q", want)
		}
	}
}

func TestTableScrollClamps(t *testing.T) {
	m := press(loadedApp(t, model.ModeSolvency), "t")
	for i := 0; i < 200; i++ {
		m = press(m, "j")
	}
	a := m.(App)
	rows := len(a.cmp.Pivot().Steps)
	if a.tableScroll != rows-a.tableRows() {
		t.Fatalf("scroll = %d, want clamp at %d", a.tableScroll, rows-a.tableRows())
	}
	if !strings.Contains(a.View(), "90") {
		t.Error("scrolled table should reach the lifespan row")
	}

	m = press(m, "g")
	if m.(App).tableScroll != 0 {
		t.Fatal("g should jump to the top")
	}
	m = press(m, "k")
	if m.(App).tableScroll != 0 {
		t.Fatal("scroll should not go negative")
	}
}

func TestStepTableMarksTrigger(t *testing.T) {
	a := loadedApp(t, model.ModeSolvency)
	tbl := cli.StepTable(a.cmp)
	if tbl.Headers[0] != "Age" || len(tbl.Headers) != 4 {
		t.Fatalf("headers = %v", tbl.Headers)
	}
	// Row for age 57: baseline column starred.
	row := tbl.Rows[57-30]
	if !strings.HasPrefix(row[1], "*") || strings.HasPrefix(row[2], "*") {
		t.Errorf("age 57 row = %v", row)
	}
}

func TestModeToggleRecomputes(t *testing.T) {
	a := loadedApp(t, model.ModeSolvency)
	m, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	if cmd == nil {
		t.Fatal("mode toggle should schedule a recompute")
	}
	got := m.(App)
	if got.mode != model.ModeWithdrawalRate || !got.computing {
		t.Fatalf("mode = %s computing = %v", got.mode, got.computing)
	}

	m, _ = got.Update(computeCmd(got.runner, got.cfg, got.mode)())
	if v := m.View(); !strings.Contains(v, "27 years") {
		t.Error("withdrawal-rate overview should show years to FIRE")
	}
}

func TestHelpToggle(t *testing.T) {
	m := press(loadedApp(t, model.ModeSolvency), "?")
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("help overlay not shown")
	}
	m = press(m, "x")
	if m.(App).showHelp {
		t.Fatal("any key should close help")
	}
}

func TestPlanValuesRoundTrip(t *testing.T) {
	cfg := config.DefaultConfig()
	v := NewPlanValues(cfg)
	if v.PreReturn != "5" || v.Inflation != "2" || v.AnnualExpenses != "40000" {
		t.Fatalf("seeded values = %+v", v)
	}

	v.CurrentAge = "35"
	v.AnnualSavings = "$20,000"
	v.WithdrawalRate = "3.5%"
	v.PartTime = false
	if err := v.Apply(&cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.Plan.CurrentAge != 35 || cfg.Plan.AnnualSavings != 20000 || cfg.Plan.WithdrawalRate != 0.035 {
		t.Fatalf("applied plan = %+v", cfg.Plan)
	}
	if cfg.Plan.PreRetirementReturn != 0.05 {
		t.Fatalf("pre-retirement return = %v, want 0.05", cfg.Plan.PreRetirementReturn)
	}
	if cfg.Scenarios.PartTime.Enabled {
		t.Fatal("part-time scenario should be disabled")
	}
}

func TestPlanValuesApplyRejectsBadInput(t *testing.T) {
	cfg := config.DefaultConfig()
	v := NewPlanValues(cfg)
	v.CurrentAge = "thirty"
	if err := v.Apply(&cfg); err == nil {
		t.Fatal("expected error for non-numeric age")
	}

	v = NewPlanValues(cfg)
	v.LifespanAge = "20"
	if err := v.Apply(&cfg); err == nil {
		t.Fatal("expected validation error for lifespan below current age")
	}
	if cfg.Plan.LifespanAge != 90 {
		t.Fatal("failed Apply must leave cfg untouched")
	}
}
