// Package model defines the inputs and outputs of a FIRE projection.
package model

import "fmt"

// Mode selects how the retirement trigger point is found.
type Mode string

const (
	// ModeSolvency retires at the first age whose balance survives a full
	// drawdown through the lifespan.
	ModeSolvency Mode = "solvency"
	// ModeWithdrawalRate retires once the balance reaches expenses divided
	// by the withdrawal rate.
	ModeWithdrawalRate Mode = "withdrawal-rate"
)

// ParseMode accepts the canonical names plus a few short aliases.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "solvency", "a", "age":
		return ModeSolvency, nil
	case "withdrawal-rate", "withdrawal", "swr", "b", "rate":
		return ModeWithdrawalRate, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want solvency or withdrawal-rate)", s)
	}
}

// StepLabel is the column name for a point's time step in this mode.
func (m Mode) StepLabel() string {
	if m == ModeWithdrawalRate {
		return "Year"
	}
	return "Age"
}

// Parameters is the scalar input set shared by every scenario of a run.
// Rates are fractions (0.05 means 5%).
type Parameters struct {
	CurrentAge  int `json:"current_age"`
	LifespanAge int `json:"lifespan_age"`
	// RetirementYears is the drawdown length used by ModeWithdrawalRate.
	RetirementYears int `json:"retirement_years"`

	AnnualExpenses float64 `json:"annual_expenses"`
	AnnualSavings  float64 `json:"annual_savings"`
	CurrentSavings float64 `json:"current_savings"`

	PreRetirementReturn  float64 `json:"pre_retirement_return"`
	PostRetirementReturn float64 `json:"post_retirement_return"`
	InflationRate        float64 `json:"inflation_rate"`
	WithdrawalRate       float64 `json:"withdrawal_rate"`
	// ExpenseReduction is the fraction of expenses dropped once retired.
	ExpenseReduction float64 `json:"expense_reduction"`
}

// DependentWindow substitutes expense and savings figures for the ages
// [StartAge, StartAge+Years).
type DependentWindow struct {
	StartAge       int     `json:"start_age"`
	Years          int     `json:"years"`
	AnnualExpenses float64 `json:"annual_expenses"`
	AnnualSavings  float64 `json:"annual_savings"`
}

// Contains reports whether the absolute age falls inside the window.
func (w DependentWindow) Contains(age int) bool {
	return age >= w.StartAge && age < w.StartAge+w.Years
}

// Overlay adjusts the shared Parameters for one scenario. The zero value is
// the baseline scenario.
type Overlay struct {
	Label string `json:"label"`

	// AnnualExpenses and AnnualSavings replace the baseline amounts for the
	// whole horizon when set.
	AnnualExpenses *float64 `json:"annual_expenses,omitempty"`
	AnnualSavings  *float64 `json:"annual_savings,omitempty"`

	// PartTimeIncome is netted against every retirement withdrawal.
	PartTimeIncome float64 `json:"part_time_income,omitempty"`

	Dependent *DependentWindow `json:"dependent,omitempty"`
}

// ExpenseAt returns the annual expense in force at an absolute age,
// before inflation and retirement reduction.
func (o Overlay) ExpenseAt(p Parameters, age int) float64 {
	if o.Dependent != nil && o.Dependent.Contains(age) {
		return o.Dependent.AnnualExpenses
	}
	if o.AnnualExpenses != nil {
		return *o.AnnualExpenses
	}
	return p.AnnualExpenses
}

// SavingsAt returns the annual contribution in force at an absolute age.
func (o Overlay) SavingsAt(p Parameters, age int) float64 {
	if o.Dependent != nil && o.Dependent.Contains(age) {
		return o.Dependent.AnnualSavings
	}
	if o.AnnualSavings != nil {
		return *o.AnnualSavings
	}
	return p.AnnualSavings
}

// Amount returns a pointer to v, for populating optional Overlay fields.
func Amount(v float64) *float64 {
	return &v
}
