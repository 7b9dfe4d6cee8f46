package config

import (
	"errors"
	"net/url"
	"testing"
)

func TestOverridesApply(t *testing.T) {
	age := 40
	savings := 30000.0
	mode := "withdrawal-rate"

	cfg := DefaultConfig()
	Overrides{
		Mode:          &mode,
		CurrentAge:    &age,
		AnnualSavings: &savings,
		NoPartTime:    true,
	}.Apply(&cfg)

	if cfg.General.Mode != mode || cfg.Plan.CurrentAge != 40 || cfg.Plan.AnnualSavings != 30000 {
		t.Fatalf("overrides not applied: %+v %+v", cfg.General, cfg.Plan)
	}
	if cfg.Plan.AnnualExpenses != 40000 {
		t.Fatalf("unset override changed annual_expenses to %g", cfg.Plan.AnnualExpenses)
	}
	if cfg.Scenarios.PartTime.Enabled || !cfg.Scenarios.Dependent.Enabled {
		t.Fatalf("scenario toggles wrong: %+v", cfg.Scenarios)
	}
}

func TestOverridesFromQuery(t *testing.T) {
	q, err := url.ParseQuery("mode=swr&current_age=35&withdrawal_rate=0.035&no_dependent=true")
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	o, err := OverridesFromQuery(q)
	if err != nil {
		t.Fatalf("OverridesFromQuery: %v", err)
	}
	if o.Mode == nil || *o.Mode != "swr" {
		t.Fatalf("mode = %v", o.Mode)
	}
	if o.CurrentAge == nil || *o.CurrentAge != 35 {
		t.Fatalf("current_age = %v", o.CurrentAge)
	}
	if o.WithdrawalRate == nil || *o.WithdrawalRate != 0.035 {
		t.Fatalf("withdrawal_rate = %v", o.WithdrawalRate)
	}
	if o.LifespanAge != nil || !o.NoDependent || o.NoPartTime {
		t.Fatalf("unexpected overrides %+v", o)
	}
}

func TestOverridesFromQuery_Bad(t *testing.T) {
	for _, raw := range []string{"current_age=old", "inflation_rate=2%25", "no_part_time=maybe", "lifespan_age=1e3"} {
		q, err := url.ParseQuery(raw)
		if err != nil {
			t.Fatalf("ParseQuery(%s): %v", raw, err)
		}
		if _, err := OverridesFromQuery(q); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: err = %v, want ErrInvalidConfig", raw, err)
		}
	}

	// Unescaped values reach the parser as-is.
	if _, err := OverridesFromQuery(url.Values{"inflation_rate": {"2%"}}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("inflation_rate=2%%: err = %v, want ErrInvalidConfig", err)
	}
}
