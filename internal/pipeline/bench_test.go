package pipeline

import (
	"testing"

	"github.com/klidoop/fire-calculation/internal/config"
	"github.com/klidoop/fire-calculation/internal/model"
)

func BenchmarkRunSolvency(b *testing.B) {
	cfg := config.DefaultConfig()
	p := cfg.Plan.Parameters()
	overlays := BuildScenarios(cfg.Scenarios)
	r := NewRunner(nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := r.Run(p, overlays, model.ModeSolvency)
		if len(c.Results) != len(overlays) {
			b.Fatalf("got %d results", len(c.Results))
		}
	}
}

func BenchmarkRunWithdrawalRate(b *testing.B) {
	cfg := config.DefaultConfig()
	p := cfg.Plan.Parameters()
	overlays := BuildScenarios(cfg.Scenarios)
	r := NewRunner(nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Run(p, overlays, model.ModeWithdrawalRate)
	}
}

func BenchmarkPivot(b *testing.B) {
	c := defaultRun(model.ModeWithdrawalRate)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pv := c.Pivot()
		_ = pv
	}
}
