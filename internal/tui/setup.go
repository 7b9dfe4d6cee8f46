package tui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/klidoop/fire-calculation/internal/config"
	"github.com/klidoop/fire-calculation/internal/model"
	"github.com/klidoop/fire-calculation/internal/tui/theme"
)

// PlanValues backs the plan form. Rates are entered as percentages.
type PlanValues struct {
	Mode  string
	Theme string

	CurrentAge      string
	LifespanAge     string
	RetirementYears string

	AnnualExpenses string
	AnnualSavings  string
	CurrentSavings string

	PreReturn        string
	PostReturn       string
	Inflation        string
	WithdrawalRate   string
	ExpenseReduction string

	Dependent bool
	PartTime  bool
}

// NewPlanValues seeds the form from cfg.
func NewPlanValues(cfg config.Config) PlanValues {
	p := cfg.Plan
	mode, err := cfg.Mode()
	if err != nil {
		mode = model.ModeSolvency
	}
	return PlanValues{
		Mode:             string(mode),
		Theme:            theme.ByName(cfg.Appearance.Theme).Name,
		CurrentAge:       strconv.Itoa(p.CurrentAge),
		LifespanAge:      strconv.Itoa(p.LifespanAge),
		RetirementYears:  strconv.Itoa(p.RetirementYears),
		AnnualExpenses:   money(p.AnnualExpenses),
		AnnualSavings:    money(p.AnnualSavings),
		CurrentSavings:   money(p.CurrentSavings),
		PreReturn:        percent(p.PreRetirementReturn),
		PostReturn:       percent(p.PostRetirementReturn),
		Inflation:        percent(p.InflationRate),
		WithdrawalRate:   percent(p.WithdrawalRate),
		ExpenseReduction: percent(p.ExpenseReduction),
		Dependent:        cfg.Scenarios.Dependent.Enabled,
		PartTime:         cfg.Scenarios.PartTime.Enabled,
	}
}

// Apply parses the form values into cfg and validates the result.
func (v PlanValues) Apply(cfg *config.Config) error {
	next := *cfg
	var errs []error
	intField := func(dst *int, name, s string) {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not a whole number", name, s))
			return
		}
		*dst = n
	}
	floatField := func(dst *float64, name, s string, div float64) {
		f, err := parseAmount(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			return
		}
		*dst = f / div
	}

	p := &next.Plan
	intField(&p.CurrentAge, "current age", v.CurrentAge)
	intField(&p.LifespanAge, "lifespan", v.LifespanAge)
	intField(&p.RetirementYears, "retirement years", v.RetirementYears)
	floatField(&p.AnnualExpenses, "annual expenses", v.AnnualExpenses, 1)
	floatField(&p.AnnualSavings, "annual savings", v.AnnualSavings, 1)
	floatField(&p.CurrentSavings, "current savings", v.CurrentSavings, 1)
	floatField(&p.PreRetirementReturn, "pre-retirement return", v.PreReturn, 100)
	floatField(&p.PostRetirementReturn, "post-retirement return", v.PostReturn, 100)
	floatField(&p.InflationRate, "inflation", v.Inflation, 100)
	floatField(&p.WithdrawalRate, "withdrawal rate", v.WithdrawalRate, 100)
	floatField(&p.ExpenseReduction, "expense reduction", v.ExpenseReduction, 100)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	next.General.Mode = v.Mode
	if v.Theme != "" {
		next.Appearance.Theme = v.Theme
	}
	next.Scenarios.Dependent.Enabled = v.Dependent
	next.Scenarios.PartTime.Enabled = v.PartTime

	if err := next.Validate(); err != nil {
		return err
	}
	*cfg = next
	return nil
}

// NewPlanForm builds the huh form used by `firecalc setup` and the
// dashboard's edit action.
func NewPlanForm(v *PlanValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("firecalc setup").
				Description("Project when your savings can fund retirement.\nRates are percentages: enter 5 for 5%."),
			huh.NewSelect[string]().
				Title("Retirement trigger").
				Options(
					huh.NewOption("Solvency: first age the balance lasts to lifespan", string(model.ModeSolvency)),
					huh.NewOption("Withdrawal rate: balance reaches expenses / rate", string(model.ModeWithdrawalRate)),
				).
				Value(&v.Mode),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.Theme),
		),
		huh.NewGroup(
			huh.NewInput().Title("Current age").Value(&v.CurrentAge).Validate(validWhole),
			huh.NewInput().Title("Lifespan age").Value(&v.LifespanAge).Validate(validWhole),
			huh.NewInput().Title("Retirement years (withdrawal-rate mode)").Value(&v.RetirementYears).Validate(validWhole),
		).Title("Timeline"),
		huh.NewGroup(
			huh.NewInput().Title("Annual expenses").Value(&v.AnnualExpenses).Validate(validAmount),
			huh.NewInput().Title("Annual savings").Value(&v.AnnualSavings).Validate(validAmount),
			huh.NewInput().Title("Current savings").Value(&v.CurrentSavings).Validate(validAmount),
		).Title("Money"),
		huh.NewGroup(
			huh.NewInput().Title("Return before retirement (%)").Value(&v.PreReturn).Validate(validAmount),
			huh.NewInput().Title("Return after retirement (%)").Value(&v.PostReturn).Validate(validAmount),
			huh.NewInput().Title("Inflation (%)").Value(&v.Inflation).Validate(validAmount),
			huh.NewInput().Title("Withdrawal rate (%)").Value(&v.WithdrawalRate).Validate(validAmount),
			huh.NewInput().Title("Expense reduction in retirement (%)").Value(&v.ExpenseReduction).Validate(validAmount),
		).Title("Rates"),
		huh.NewGroup(
			huh.NewConfirm().Title("Compare a dependent scenario?").Value(&v.Dependent),
			huh.NewConfirm().Title("Compare a part-time income scenario?").Value(&v.PartTime),
		).Title("Scenarios"),
	)
}

func validWhole(s string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return errors.New("enter a whole number")
	}
	return nil
}

func validAmount(s string) error {
	f, err := parseAmount(s)
	if err != nil {
		return err
	}
	if f < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

// parseAmount accepts "40000", "40,000", "$40,000" and "5%".
func parseAmount(s string) (float64, error) {
	clean := strings.NewReplacer(",", "", "$", "", "%", "", "_", "").Replace(strings.TrimSpace(s))
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return f, nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func percent(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e8)/1e6, 'f', -1, 64)
}
