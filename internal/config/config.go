// Package config loads and saves firecalc settings and the default plan.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/klidoop/fire-calculation/internal/model"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Horizon limits. Projection cost grows with the square of the horizon.
const (
	MaxAge             = 150
	MaxRetirementYears = 100
)

// Config holds all firecalc configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Plan       PlanConfig       `toml:"plan"`
	Scenarios  ScenariosConfig  `toml:"scenarios"`
	Export     ExportConfig     `toml:"export"`
	Serve      ServeConfig      `toml:"serve"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	Mode     string `toml:"mode"`
	LogLevel string `toml:"log_level"`
}

// PlanConfig is the baseline financial plan. Rates are fractions.
type PlanConfig struct {
	CurrentAge           int     `toml:"current_age"`
	LifespanAge          int     `toml:"lifespan_age"`
	RetirementYears      int     `toml:"retirement_years"`
	AnnualExpenses       float64 `toml:"annual_expenses"`
	AnnualSavings        float64 `toml:"annual_savings"`
	CurrentSavings       float64 `toml:"current_savings"`
	PreRetirementReturn  float64 `toml:"pre_retirement_return"`
	PostRetirementReturn float64 `toml:"post_retirement_return"`
	InflationRate        float64 `toml:"inflation_rate"`
	WithdrawalRate       float64 `toml:"withdrawal_rate"`
	ExpenseReduction     float64 `toml:"expense_reduction"`
}

// ScenariosConfig selects the scenarios compared against the baseline.
type ScenariosConfig struct {
	BaselineLabel string            `toml:"baseline_label"`
	Dependent     DependentScenario `toml:"dependent"`
	PartTime      PartTimeScenario  `toml:"part_time"`
	Extra         []ExtraScenario   `toml:"extra,omitempty"`
}

// DependentScenario substitutes expense and savings figures while a
// dependent is supported. Years = 0 applies them for the whole horizon.
type DependentScenario struct {
	Enabled        bool    `toml:"enabled"`
	Label          string  `toml:"label"`
	AnnualExpenses float64 `toml:"annual_expenses"`
	AnnualSavings  float64 `toml:"annual_savings"`
	StartAge       int     `toml:"start_age"`
	Years          int     `toml:"years"`
}

// PartTimeScenario offsets retirement withdrawals with part-time income.
type PartTimeScenario struct {
	Enabled bool    `toml:"enabled"`
	Label   string  `toml:"label"`
	Income  float64 `toml:"income"`
}

// ExtraScenario is a user-defined scenario.
type ExtraScenario struct {
	Label             string   `toml:"label"`
	AnnualExpenses    *float64 `toml:"annual_expenses,omitempty"`
	AnnualSavings     *float64 `toml:"annual_savings,omitempty"`
	PartTimeIncome    float64  `toml:"part_time_income,omitempty"`
	DependentStartAge int      `toml:"dependent_start_age,omitempty"`
	DependentYears    int      `toml:"dependent_years,omitempty"`
	DependentExpenses float64  `toml:"dependent_expenses,omitempty"`
	DependentSavings  float64  `toml:"dependent_savings,omitempty"`
}

// ExportConfig holds CSV export settings.
type ExportConfig struct {
	EnableCSV bool   `toml:"enable_csv"`
	Path      string `toml:"path"`
}

// ServeConfig holds HTTP API settings.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Mode:     string(model.ModeSolvency),
			LogLevel: "warn",
		},
		Plan: PlanConfig{
			CurrentAge:           30,
			LifespanAge:          90,
			RetirementYears:      30,
			AnnualExpenses:       40000,
			AnnualSavings:        15000,
			CurrentSavings:       50000,
			PreRetirementReturn:  0.05,
			PostRetirementReturn: 0.04,
			InflationRate:        0.02,
			WithdrawalRate:       0.04,
		},
		Scenarios: ScenariosConfig{
			BaselineLabel: "No Kid",
			Dependent: DependentScenario{
				Enabled:        true,
				Label:          "With Kid",
				AnnualExpenses: 60000,
				AnnualSavings:  10000,
			},
			PartTime: PartTimeScenario{
				Enabled: true,
				Label:   "Part-Time Work",
				Income:  10000,
			},
		},
		Export: ExportConfig{
			EnableCSV: false,
			Path:      "fire_projection.csv",
		},
		Serve: ServeConfig{
			Addr: "127.0.0.1:8787",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Parameters converts the plan into engine input.
func (p PlanConfig) Parameters() model.Parameters {
	return model.Parameters{
		CurrentAge:           p.CurrentAge,
		LifespanAge:          p.LifespanAge,
		RetirementYears:      p.RetirementYears,
		AnnualExpenses:       p.AnnualExpenses,
		AnnualSavings:        p.AnnualSavings,
		CurrentSavings:       p.CurrentSavings,
		PreRetirementReturn:  p.PreRetirementReturn,
		PostRetirementReturn: p.PostRetirementReturn,
		InflationRate:        p.InflationRate,
		WithdrawalRate:       p.WithdrawalRate,
		ExpenseReduction:     p.ExpenseReduction,
	}
}

// PlanFrom is the inverse of PlanConfig.Parameters.
func PlanFrom(p model.Parameters) PlanConfig {
	return PlanConfig{
		CurrentAge:           p.CurrentAge,
		LifespanAge:          p.LifespanAge,
		RetirementYears:      p.RetirementYears,
		AnnualExpenses:       p.AnnualExpenses,
		AnnualSavings:        p.AnnualSavings,
		CurrentSavings:       p.CurrentSavings,
		PreRetirementReturn:  p.PreRetirementReturn,
		PostRetirementReturn: p.PostRetirementReturn,
		InflationRate:        p.InflationRate,
		WithdrawalRate:       p.WithdrawalRate,
		ExpenseReduction:     p.ExpenseReduction,
	}
}

// Mode parses General.Mode.
func (c Config) Mode() (model.Mode, error) {
	return model.ParseMode(c.General.Mode)
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "firecalc")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "firecalc")
}

// ConfigPath returns the config file in use: $FIRE_CONFIG if set, else
// config.toml in ConfigDir.
func ConfigPath() string {
	if p := os.Getenv(EnvPrefix + "CONFIG"); p != "" {
		return p
	}
	return filepath.Join(ConfigDir(), "config.toml")
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Save writes the config to ConfigPath.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config as TOML to path.
func SaveTo(path string, cfg Config) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".toml" && ext != "" {
		return fmt.Errorf("%w: can only save TOML, got %s", ErrInvalidConfig, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// Validate checks the ranges the engine relies on.
func (c Config) Validate() error {
	var errs []error
	mode, err := c.Mode()
	if err != nil {
		errs = append(errs, err)
	}

	p := c.Plan
	if p.CurrentAge < 0 {
		errs = append(errs, fmt.Errorf("plan.current_age must be >= 0, got %d", p.CurrentAge))
	}
	if p.LifespanAge <= p.CurrentAge {
		errs = append(errs, fmt.Errorf("plan.lifespan_age (%d) must exceed plan.current_age (%d)", p.LifespanAge, p.CurrentAge))
	}
	if p.LifespanAge > MaxAge {
		errs = append(errs, fmt.Errorf("plan.lifespan_age must be <= %d, got %d", MaxAge, p.LifespanAge))
	}
	if p.RetirementYears < 0 || p.RetirementYears > MaxRetirementYears {
		errs = append(errs, fmt.Errorf("plan.retirement_years must be in [0, %d], got %d", MaxRetirementYears, p.RetirementYears))
	}
	for name, v := range map[string]float64{
		"annual_expenses":        p.AnnualExpenses,
		"annual_savings":         p.AnnualSavings,
		"current_savings":        p.CurrentSavings,
		"pre_retirement_return":  p.PreRetirementReturn,
		"post_retirement_return": p.PostRetirementReturn,
		"inflation_rate":         p.InflationRate,
		"withdrawal_rate":        p.WithdrawalRate,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("plan.%s must be a finite number >= 0, got %g", name, v))
		}
	}
	if p.ExpenseReduction < 0 || p.ExpenseReduction > 1 {
		errs = append(errs, fmt.Errorf("plan.expense_reduction must be a fraction in [0, 1], got %g", p.ExpenseReduction))
	}
	if mode == model.ModeWithdrawalRate && p.WithdrawalRate == 0 {
		errs = append(errs, errors.New("plan.withdrawal_rate must be > 0 in withdrawal-rate mode"))
	}

	d := c.Scenarios.Dependent
	if d.Enabled {
		if err := ValidateWindow(d.StartAge, d.Years); err != nil {
			errs = append(errs, fmt.Errorf("scenarios.dependent: %w", err))
		}
	}
	for i, x := range c.Scenarios.Extra {
		if strings.TrimSpace(x.Label) == "" {
			errs = append(errs, fmt.Errorf("scenarios.extra[%d] needs a label", i))
		}
		if err := ValidateWindow(x.DependentStartAge, x.DependentYears); err != nil {
			errs = append(errs, fmt.Errorf("scenarios.extra[%d]: %w", i, err))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// ValidateWindow checks a dependent window against the horizon limits.
func ValidateWindow(startAge, years int) error {
	if startAge < 0 || startAge > MaxAge || years < 0 || years > MaxAge {
		return fmt.Errorf("dependent window must lie within [0, %d], got start %d for %d years", MaxAge, startAge, years)
	}
	return nil
}
