// Package tui provides the interactive Bubble Tea dashboard for firecalc.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/klidoop/fire-calculation/internal/config"
	"github.com/klidoop/fire-calculation/internal/export"
	"github.com/klidoop/fire-calculation/internal/model"
	"github.com/klidoop/fire-calculation/internal/pipeline"
	"github.com/klidoop/fire-calculation/internal/tui/components"
	"github.com/klidoop/fire-calculation/internal/tui/theme"
)

// ResultMsg is sent when a projection run finishes.
type ResultMsg struct {
	Comparison pipeline.Comparison
	Elapsed    time.Duration
}

// ExportedMsg reports the outcome of a CSV write.
type ExportedMsg struct {
	Path string
	Err  error
}

// SavedMsg reports the outcome of a config save.
type SavedMsg struct {
	Path string
	Err  error
}

// App is the root Bubble Tea model.
type App struct {
	cfg    config.Config
	mode   model.Mode
	runner *pipeline.Runner

	cmp       pipeline.Comparison
	computed  bool
	computing bool
	elapsed   time.Duration

	// UI state
	width       int
	height      int
	activeTab   int
	showHelp    bool
	tableScroll int
	flash       string

	// Plan editor (huh form)
	editForm *huh.Form
	editVals PlanValues

	spinner spinner.Model
}

const (
	minTerminalWidth = 70
	maxContentWidth  = 160
	minContentHeight = 5

	tabOverview = 0
	tabChart    = 1
	tabTable    = 2
	tabInputs   = 3
)

// NewApp creates the dashboard for cfg, projecting in mode.
func NewApp(cfg config.Config, mode model.Mode, log logrus.FieldLogger) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	return App{
		cfg:       cfg,
		mode:      mode,
		runner:    pipeline.NewRunner(log),
		computing: true,
		spinner:   sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		a.spinner.Tick,
		computeCmd(a.runner, a.cfg, a.mode),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.editForm != nil {
			a.editForm = a.editForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.computed || a.showHelp || a.editForm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabTable {
				a.scrollTable(-3)
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabTable {
				a.scrollTable(3)
			}
		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress && msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// The plan editor intercepts all keys
		if a.editForm != nil {
			return a.updateEditForm(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		a.flash = ""
		switch key {
		case "q":
			return a, tea.Quit
		case "left":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		case "m":
			if a.mode == model.ModeSolvency {
				a.mode = model.ModeWithdrawalRate
			} else {
				a.mode = model.ModeSolvency
			}
			a.cfg.General.Mode = string(a.mode)
			return a.recompute()
		case "e":
			return a.openEditForm()
		case "s":
			return a, saveCmd(a.cfg)
		case "w":
			if a.computed {
				return a, exportCmd(a.cfg.Export.Path, a.cmp)
			}
		case "j", "down":
			a.scrollTable(1)
		case "k", "up":
			a.scrollTable(-1)
		case "ctrl+d", "pgdown":
			a.scrollTable(a.tablePage())
		case "ctrl+u", "pgup":
			a.scrollTable(-a.tablePage())
		case "g", "home":
			a.tableScroll = 0
		case "G", "end":
			a.scrollTable(len(a.cmp.Pivot().Steps))
		default:
			if len(msg.Runes) == 1 {
				if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
					a.activeTab = idx
				}
			}
		}
		return a, nil

	case ResultMsg:
		a.cmp = msg.Comparison
		a.elapsed = msg.Elapsed
		a.computed = true
		a.computing = false
		a.scrollTable(0)
		return a, nil

	case ExportedMsg:
		if msg.Err != nil {
			a.flash = "export failed: " + msg.Err.Error()
		} else {
			a.flash = "wrote " + msg.Path
		}
		return a, nil

	case SavedMsg:
		if msg.Err != nil {
			a.flash = "save failed: " + msg.Err.Error()
		} else {
			a.flash = "saved " + msg.Path
		}
		return a, nil

	case spinner.TickMsg:
		if a.computing {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward cursor blinks etc. to the open form
	if a.editForm != nil {
		return a.updateEditForm(msg)
	}
	return a, nil
}

func (a App) recompute() (tea.Model, tea.Cmd) {
	a.computing = true
	return a, tea.Batch(a.spinner.Tick, computeCmd(a.runner, a.cfg, a.mode))
}

func (a App) openEditForm() (tea.Model, tea.Cmd) {
	a.editVals = NewPlanValues(a.cfg)
	a.editVals.Mode = string(a.mode)
	a.editForm = NewPlanForm(&a.editVals)
	if a.width > 0 {
		a.editForm = a.editForm.WithWidth(a.width).WithHeight(a.height)
	}
	return a, a.editForm.Init()
}

func (a App) updateEditForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.editForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.editForm = f
	}

	switch a.editForm.State {
	case huh.StateCompleted:
		a.editForm = nil
		cfg := a.cfg
		if err := a.editVals.Apply(&cfg); err != nil {
			a.flash = firstLine(err.Error())
			return a, nil
		}
		a.cfg = cfg
		if mode, err := cfg.Mode(); err == nil {
			a.mode = mode
		}
		theme.SetActive(cfg.Appearance.Theme)
		a.flash = "plan updated (s to save)"
		return a.recompute()
	case huh.StateAborted:
		a.editForm = nil
		return a, nil
	}
	return a, cmd
}

func (a *App) scrollTable(delta int) {
	rows := len(a.cmp.Pivot().Steps)
	maxScroll := max(rows-a.tableRows(), 0)
	a.tableScroll = min(max(a.tableScroll+delta, 0), maxScroll)
}

// tableRows is the number of data rows visible on the Table tab.
func (a App) tableRows() int {
	// header (3) + footer (1) + tab bar + status bar + card chrome
	return max(a.height-10, 1)
}

func (a App) tablePage() int {
	return max(a.tableRows()/2, 1)
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.editForm != nil {
		return a.editForm.View()
	}
	if !a.computed {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  firecalc needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)

	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ firecalc"))
	b.WriteString(subtitleStyle.Render(" · FIRE projection"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Projecting scenarios..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	bindings := []struct{ key, desc string }{
		{"o c t i", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Scroll table"},
		{"^d ^u", "Half-page scroll"},
		{"m", "Toggle solvency / withdrawal-rate mode"},
		{"e", "Edit plan"},
		{"s", "Save plan to config"},
		{"w", "Write CSV export"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
			descStyle.Render(bind.desc))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()))
}

func (a App) viewMain() string {
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)

	status := string(a.mode)
	if a.flash != "" {
		status = a.flash
	} else if a.computing {
		status = a.spinner.View() + " projecting"
	} else if a.elapsed > 0 {
		status = fmt.Sprintf("%s · %s", a.mode, a.elapsed.Round(time.Microsecond))
	}
	statusBar := components.RenderStatusBar(w, status)

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabChart:
		content = a.renderChartTab(cw, contentH)
	case tabTable:
		content = a.renderTableTab(cw)
	case tabInputs:
		content = a.renderInputsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.PlaceHorizontal(w, lipgloss.Center, content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// tabAtX maps a click on the tab bar to a tab index, or -1.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		w := len(tab.Name) + 2
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1
	}
	return -1
}

func computeCmd(r *pipeline.Runner, cfg config.Config, mode model.Mode) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		c := r.Run(cfg.Plan.Parameters(), pipeline.BuildScenarios(cfg.Scenarios), mode)
		return ResultMsg{Comparison: c, Elapsed: time.Since(start)}
	}
}

func exportCmd(path string, c pipeline.Comparison) tea.Cmd {
	if path == "" {
		path = export.DefaultFileName
	}
	return func() tea.Msg {
		return ExportedMsg{Path: path, Err: export.WriteCSVFile(path, c.Points(), c.Mode)}
	}
}

func saveCmd(cfg config.Config) tea.Cmd {
	return func() tea.Msg {
		return SavedMsg{Path: config.ConfigPath(), Err: config.Save(cfg)}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
