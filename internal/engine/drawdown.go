package engine

import (
	"math"

	"github.com/klidoop/fire-calculation/internal/model"
)

// Trial is the outcome of a simulated drawdown.
type Trial struct {
	// Balances holds the end-of-year balance for years 1..n. When the
	// drawdown stopped early it ends at the first negative balance.
	Balances []float64
	// Solvent is false if any balance went below zero or became NaN.
	Solvent bool
}

// Drawdown simulates years of retirement starting from balance at startAge.
// Year i (1-based) is charged at absolute age startAge+i with i years of
// inflation applied. A balance of exactly zero is solvent.
func Drawdown(p model.Parameters, o model.Overlay, balance float64, startAge, years int, stopOnDeficit bool) Trial {
	if years < 0 {
		years = 0
	}
	t := Trial{
		Balances: make([]float64, 0, years),
		Solvent:  true,
	}
	for i := 1; i <= years; i++ {
		balance = balance*(1+p.PostRetirementReturn) - withdrawal(p, o, startAge+i, i)
		t.Balances = append(t.Balances, balance)
		// NaN counts as a deficit.
		if !(balance >= 0) {
			t.Solvent = false
			if stopOnDeficit {
				break
			}
		}
	}
	return t
}

// Solvent reports whether retiring at age with balance lasts through the
// lifespan.
func Solvent(p model.Parameters, o model.Overlay, balance float64, age int) bool {
	return Drawdown(p, o, balance, age, p.LifespanAge-age, true).Solvent
}

// withdrawal is the amount drawn in retirement year i at the given age.
func withdrawal(p model.Parameters, o model.Overlay, age, i int) float64 {
	expense := o.ExpenseAt(p, age) * (1 - p.ExpenseReduction)
	draw := expense*math.Pow(1+p.InflationRate, float64(i)) - o.PartTimeIncome
	return math.Max(0, draw)
}
