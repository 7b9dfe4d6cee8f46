// Package engine computes savings trajectories and retirement trigger
// points. Every function is pure: identical inputs give identical results.
package engine

import "github.com/klidoop/fire-calculation/internal/model"

// MaxAccumulationYears bounds the withdrawal-rate accumulation loop.
const MaxAccumulationYears = 100

// Project runs one scenario in the given mode.
func Project(p model.Parameters, o model.Overlay, mode model.Mode) model.Result {
	if mode == model.ModeWithdrawalRate {
		return ProjectWithdrawalRate(p, o)
	}
	return ProjectSolvency(p, o)
}

// ProjectSolvency searches forward one year at a time for the first age at
// which the accumulated balance survives a drawdown through LifespanAge.
// If the lifespan is reached first the result is empty.
func ProjectSolvency(p model.Parameters, o model.Overlay) model.Result {
	res := model.Result{Scenario: o.Label, Mode: model.ModeSolvency}
	if p.CurrentAge >= p.LifespanAge {
		return res
	}

	age := p.CurrentAge
	balance := p.CurrentSavings
	points := make([]model.Point, 0, p.LifespanAge-p.CurrentAge+1)

	var retirement Trial
	for {
		points = append(points, point(o, age, balance, model.PhaseAccumulation))
		balance = balance*(1+p.PreRetirementReturn) + o.SavingsAt(p, age)
		age++
		if age >= p.LifespanAge {
			return res
		}

		retirement = Drawdown(p, o, balance, age, p.LifespanAge-age, true)
		if retirement.Solvent {
			break
		}
	}

	// The solvent trial ran the full horizon, so it is the committed drawdown.
	points = append(points, point(o, age, balance, model.PhaseRetirement))
	for i, b := range retirement.Balances {
		points = append(points, point(o, age+i+1, b, model.PhaseRetirement))
	}

	res.Points = points
	res.FireNumber = balance
	res.TriggerStep = age
	res.Feasible = true
	return res
}

// ProjectWithdrawalRate accumulates until the balance reaches
// expense/WithdrawalRate, then draws down for RetirementYears with no
// solvency check. Steps are elapsed years from CurrentAge.
func ProjectWithdrawalRate(p model.Parameters, o model.Overlay) model.Result {
	res := model.Result{Scenario: o.Label, Mode: model.ModeWithdrawalRate}
	if p.CurrentAge >= p.LifespanAge || p.WithdrawalRate <= 0 {
		return res
	}

	fire := FireNumber(p, o)
	balance := p.CurrentSavings
	points := make([]model.Point, 0, max(p.RetirementYears, 0)+16)

	year := 0
	for balance < fire && year < MaxAccumulationYears {
		points = append(points, point(o, year, balance, model.PhaseAccumulation))
		balance = balance*(1+p.PreRetirementReturn) + o.SavingsAt(p, p.CurrentAge+year)
		year++
	}

	points = append(points, point(o, year, balance, model.PhaseRetirement))
	drawdown := Drawdown(p, o, balance, p.CurrentAge+year, p.RetirementYears, false)
	for i, b := range drawdown.Balances {
		points = append(points, point(o, year+i+1, b, model.PhaseRetirement))
	}

	res.Points = points
	res.FireNumber = fire
	res.TriggerStep = year
	res.Feasible = true
	res.Capped = balance < fire
	return res
}

// FireNumber is the withdrawal-rate target: the retirement expense in force
// at CurrentAge divided by WithdrawalRate. It is zero when the rate is not
// positive.
func FireNumber(p model.Parameters, o model.Overlay) float64 {
	if p.WithdrawalRate <= 0 {
		return 0
	}
	return o.ExpenseAt(p, p.CurrentAge) * (1 - p.ExpenseReduction) / p.WithdrawalRate
}

func point(o model.Overlay, step int, balance float64, phase model.Phase) model.Point {
	return model.Point{Step: step, Balance: balance, Scenario: o.Label, Phase: phase}
}
