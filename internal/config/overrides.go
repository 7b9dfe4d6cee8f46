package config

import (
	"fmt"
	"net/url"
	"strconv"
)

// Overrides are per-run changes layered over a loaded Config by CLI flags
// or API query parameters. Nil fields leave the config value alone.
type Overrides struct {
	Mode *string

	CurrentAge      *int
	LifespanAge     *int
	RetirementYears *int

	AnnualExpenses *float64
	AnnualSavings  *float64
	CurrentSavings *float64

	PreRetirementReturn  *float64
	PostRetirementReturn *float64
	InflationRate        *float64
	WithdrawalRate       *float64
	ExpenseReduction     *float64

	NoDependent bool
	NoPartTime  bool
}

// Apply writes every set override into cfg.
func (o Overrides) Apply(cfg *Config) {
	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setFloat := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}

	if o.Mode != nil {
		cfg.General.Mode = *o.Mode
	}
	p := &cfg.Plan
	setInt(&p.CurrentAge, o.CurrentAge)
	setInt(&p.LifespanAge, o.LifespanAge)
	setInt(&p.RetirementYears, o.RetirementYears)
	setFloat(&p.AnnualExpenses, o.AnnualExpenses)
	setFloat(&p.AnnualSavings, o.AnnualSavings)
	setFloat(&p.CurrentSavings, o.CurrentSavings)
	setFloat(&p.PreRetirementReturn, o.PreRetirementReturn)
	setFloat(&p.PostRetirementReturn, o.PostRetirementReturn)
	setFloat(&p.InflationRate, o.InflationRate)
	setFloat(&p.WithdrawalRate, o.WithdrawalRate)
	setFloat(&p.ExpenseReduction, o.ExpenseReduction)

	if o.NoDependent {
		cfg.Scenarios.Dependent.Enabled = false
	}
	if o.NoPartTime {
		cfg.Scenarios.PartTime.Enabled = false
	}
}

// OverridesFromQuery reads overrides from URL query parameters named after
// the plan's config keys, e.g. ?current_age=35&withdrawal_rate=0.035.
func OverridesFromQuery(q url.Values) (Overrides, error) {
	var o Overrides
	var err error

	str := func(key string) *string {
		if !q.Has(key) {
			return nil
		}
		v := q.Get(key)
		return &v
	}
	intParam := func(key string) *int {
		if err != nil || !q.Has(key) {
			return nil
		}
		n, perr := strconv.Atoi(q.Get(key))
		if perr != nil {
			err = fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidConfig, key, q.Get(key))
			return nil
		}
		return &n
	}
	floatParam := func(key string) *float64 {
		if err != nil || !q.Has(key) {
			return nil
		}
		f, perr := strconv.ParseFloat(q.Get(key), 64)
		if perr != nil {
			err = fmt.Errorf("%w: %s must be a number, got %q", ErrInvalidConfig, key, q.Get(key))
			return nil
		}
		return &f
	}
	boolParam := func(key string) bool {
		if err != nil || !q.Has(key) {
			return false
		}
		b, perr := strconv.ParseBool(q.Get(key))
		if perr != nil {
			err = fmt.Errorf("%w: %s must be true or false, got %q", ErrInvalidConfig, key, q.Get(key))
			return false
		}
		return b
	}

	o.Mode = str("mode")
	o.CurrentAge = intParam("current_age")
	o.LifespanAge = intParam("lifespan_age")
	o.RetirementYears = intParam("retirement_years")
	o.AnnualExpenses = floatParam("annual_expenses")
	o.AnnualSavings = floatParam("annual_savings")
	o.CurrentSavings = floatParam("current_savings")
	o.PreRetirementReturn = floatParam("pre_retirement_return")
	o.PostRetirementReturn = floatParam("post_retirement_return")
	o.InflationRate = floatParam("inflation_rate")
	o.WithdrawalRate = floatParam("withdrawal_rate")
	o.ExpenseReduction = floatParam("expense_reduction")
	o.NoDependent = boolParam("no_dependent")
	o.NoPartTime = boolParam("no_part_time")
	return o, err
}
