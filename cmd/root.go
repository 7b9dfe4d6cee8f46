package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/klidoop/fire-calculation/internal/config"
	"github.com/klidoop/fire-calculation/internal/model"
	"github.com/klidoop/fire-calculation/internal/pipeline"
)

var (
	flagConfig   string
	flagMode     string
	flagLogLevel string
	flagQuiet    bool

	flagAge              int
	flagLifespan         int
	flagRetirementYears  int
	flagExpenses         float64
	flagSavings          float64
	flagCurrentSavings   float64
	flagReturn           float64
	flagRetirementReturn float64
	flagInflation        float64
	flagWithdrawalRate   float64
	flagExpenseReduction float64
	flagNoDependent      bool
	flagNoPartTime       bool
)

// log is the process logger. Diagnostics go here; command output goes to
// stdout.
var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "firecalc",
	Short: "FIRE retirement projection CLI",
	Long: "Project when your savings can sustain retirement through your lifespan,\n" +
		"comparing a baseline plan against dependent and part-time scenarios.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runProject,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagConfig, "config", "c", "", "Config file (default $FIRE_CONFIG or "+config.ConfigPath()+")")
	pf.StringVarP(&flagMode, "mode", "m", "", "Trigger mode: solvency or withdrawal-rate")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")

	pf.IntVar(&flagAge, "age", 0, "Current age")
	pf.IntVar(&flagLifespan, "lifespan", 0, "Age the plan must last to")
	pf.IntVar(&flagRetirementYears, "retirement-years", 0, "Drawdown length in withdrawal-rate mode")
	pf.Float64Var(&flagExpenses, "expenses", 0, "Annual expenses")
	pf.Float64Var(&flagSavings, "savings", 0, "Annual savings contribution")
	pf.Float64Var(&flagCurrentSavings, "current-savings", 0, "Savings today")
	pf.Float64Var(&flagReturn, "return", 0, "Pre-retirement return as a fraction (0.05 = 5%)")
	pf.Float64Var(&flagRetirementReturn, "retirement-return", 0, "Post-retirement return as a fraction")
	pf.Float64Var(&flagInflation, "inflation", 0, "Inflation rate as a fraction")
	pf.Float64Var(&flagWithdrawalRate, "withdrawal-rate", 0, "Safe withdrawal rate as a fraction")
	pf.Float64Var(&flagExpenseReduction, "expense-reduction", 0, "Fraction of expenses dropped in retirement")
	pf.BoolVar(&flagNoDependent, "no-dependent", false, "Skip the dependent scenario")
	pf.BoolVar(&flagNoPartTime, "no-part-time", false, "Skip the part-time scenario")
}

// setup points the config layer at --config and configures the logger
// before any command runs.
func setup(_ *cobra.Command, _ []string) error {
	if flagConfig != "" {
		if err := os.Setenv(config.EnvPrefix+"CONFIG", flagConfig); err != nil {
			return fmt.Errorf("selecting config file: %w", err)
		}
	}

	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return setLogLevel("warn")
}

func setLogLevel(name string) error {
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if flagQuiet && lvl > logrus.ErrorLevel {
		lvl = logrus.ErrorLevel
	}
	log.SetLevel(lvl)
	return nil
}

// flagOverrides collects the plan flags the user actually set.
func flagOverrides(cmd *cobra.Command) config.Overrides {
	f := cmd.Flags()
	var o config.Overrides
	if f.Changed("mode") {
		o.Mode = &flagMode
	}
	if f.Changed("age") {
		o.CurrentAge = &flagAge
	}
	if f.Changed("lifespan") {
		o.LifespanAge = &flagLifespan
	}
	if f.Changed("retirement-years") {
		o.RetirementYears = &flagRetirementYears
	}
	if f.Changed("expenses") {
		o.AnnualExpenses = &flagExpenses
	}
	if f.Changed("savings") {
		o.AnnualSavings = &flagSavings
	}
	if f.Changed("current-savings") {
		o.CurrentSavings = &flagCurrentSavings
	}
	if f.Changed("return") {
		o.PreRetirementReturn = &flagReturn
	}
	if f.Changed("retirement-return") {
		o.PostRetirementReturn = &flagRetirementReturn
	}
	if f.Changed("inflation") {
		o.InflationRate = &flagInflation
	}
	if f.Changed("withdrawal-rate") {
		o.WithdrawalRate = &flagWithdrawalRate
	}
	if f.Changed("expense-reduction") {
		o.ExpenseReduction = &flagExpenseReduction
	}
	o.NoDependent = flagNoDependent
	o.NoPartTime = flagNoPartTime
	return o
}

// loadConfig is the shared config path used by all commands: file and
// environment from the config package, then flags, then validation.
func loadConfig(cmd *cobra.Command) (config.Config, model.Mode, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, "", err
	}
	flagOverrides(cmd).Apply(&cfg)

	level := flagLogLevel
	if level == "" {
		level = cfg.General.LogLevel
	}
	if level != "" {
		if err := setLogLevel(level); err != nil {
			return cfg, "", err
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, "", err
	}
	mode, err := cfg.Mode()
	if err != nil {
		return cfg, "", err
	}

	log.WithFields(logrus.Fields{
		"config": config.ConfigPath(),
		"loaded": config.Exists(),
		"mode":   mode,
	}).Debug("configuration resolved")
	return cfg, mode, nil
}

// runComparison loads the configuration and projects every scenario.
func runComparison(cmd *cobra.Command) (config.Config, pipeline.Comparison, error) {
	cfg, mode, err := loadConfig(cmd)
	if err != nil {
		return cfg, pipeline.Comparison{}, err
	}
	overlays := pipeline.BuildScenarios(cfg.Scenarios)
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Projecting %d scenarios...\n", len(overlays))
	}
	runner := pipeline.NewRunner(log)
	return cfg, runner.Run(cfg.Plan.Parameters(), overlays, mode), nil
}
