package cli

import (
	"strconv"

	"github.com/klidoop/fire-calculation/internal/pipeline"
)

// SummaryTable lists each scenario's trigger point and balances.
// Infeasible scenarios read "never".
func SummaryTable(c pipeline.Comparison) Table {
	rows := make([][]string, 0, len(c.Results))
	for _, s := range c.Summaries() {
		retire := "never"
		fire, final := "-", "-"
		if s.Feasible {
			retire = FormatStep(c.Mode, s.TriggerStep)
			if s.Capped {
				retire += " (capped)"
			}
			fire = FormatMoney(s.FireNumber)
			final = FormatMoney(s.FinalBalance)
		}
		rows = append(rows, []string{s.Scenario, retire, fire, final})
	}
	return Table{
		Headers: []string{"Scenario", "Retire", "FIRE Number", "Final Balance"},
		Rows:    rows,
	}
}

// StepTable lays the comparison pivot out one row per step. The trigger
// step of each scenario is starred.
func StepTable(c pipeline.Comparison) Table {
	pv := c.Pivot()
	headers := []string{c.Mode.StepLabel()}
	for _, s := range pv.Series {
		headers = append(headers, s.Scenario)
	}

	triggers := make([]int, len(c.Results))
	for i, r := range c.Results {
		triggers[i] = -1
		if r.Feasible {
			triggers[i] = r.TriggerStep
		}
	}

	rows := make([][]string, 0, len(pv.Steps))
	for i, step := range pv.Steps {
		row := []string{strconv.Itoa(step)}
		for j, s := range pv.Series {
			cell := FormatMoney(s.Values[i])
			if j < len(triggers) && triggers[j] == step {
				cell = "*" + cell
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	return Table{Headers: headers, Rows: rows}
}
