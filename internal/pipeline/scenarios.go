// Package pipeline turns configuration into scenario runs and shapes the
// engine output for display and export.
package pipeline

import (
	"strings"

	"github.com/klidoop/fire-calculation/internal/config"
	"github.com/klidoop/fire-calculation/internal/model"
)

// BuildScenarios returns the overlays to compare, baseline first.
func BuildScenarios(sc config.ScenariosConfig) []model.Overlay {
	baseline := strings.TrimSpace(sc.BaselineLabel)
	if baseline == "" {
		baseline = "Baseline"
	}
	overlays := []model.Overlay{{Label: baseline}}

	if d := sc.Dependent; d.Enabled {
		overlays = append(overlays, dependentOverlay(d))
	}
	if pt := sc.PartTime; pt.Enabled {
		label := pt.Label
		if label == "" {
			label = "Part-Time Work"
		}
		overlays = append(overlays, model.Overlay{Label: label, PartTimeIncome: pt.Income})
	}

	for _, x := range sc.Extra {
		o := model.Overlay{
			Label:          x.Label,
			AnnualExpenses: x.AnnualExpenses,
			AnnualSavings:  x.AnnualSavings,
			PartTimeIncome: x.PartTimeIncome,
		}
		if x.DependentYears > 0 {
			o.Dependent = &model.DependentWindow{
				StartAge:       x.DependentStartAge,
				Years:          x.DependentYears,
				AnnualExpenses: x.DependentExpenses,
				AnnualSavings:  x.DependentSavings,
			}
		}
		overlays = append(overlays, o)
	}
	return overlays
}

func dependentOverlay(d config.DependentScenario) model.Overlay {
	label := d.Label
	if label == "" {
		label = "With Dependent"
	}
	if d.Years == 0 {
		return model.Overlay{
			Label:          label,
			AnnualExpenses: model.Amount(d.AnnualExpenses),
			AnnualSavings:  model.Amount(d.AnnualSavings),
		}
	}
	return model.Overlay{
		Label: label,
		Dependent: &model.DependentWindow{
			StartAge:       d.StartAge,
			Years:          d.Years,
			AnnualExpenses: d.AnnualExpenses,
			AnnualSavings:  d.AnnualSavings,
		},
	}
}
