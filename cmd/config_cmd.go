// Package cmd implements the firecalc CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klidoop/fire-calculation/internal/cli"
	"github.com/klidoop/fire-calculation/internal/config"
	"github.com/klidoop/fire-calculation/internal/pipeline"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, mode, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Printf("  Environment overrides: %sSECTION__KEY\n", config.EnvPrefix)
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Mode:      %s\n", mode)
	fmt.Printf("    Log level: %s\n", cfg.General.LogLevel)
	fmt.Println()

	p := cfg.Plan
	fmt.Println("  [Plan]")
	fmt.Printf("    Current age:        %d\n", p.CurrentAge)
	fmt.Printf("    Lifespan age:       %d\n", p.LifespanAge)
	fmt.Printf("    Retirement years:   %d\n", p.RetirementYears)
	fmt.Printf("    Annual expenses:    %s\n", cli.FormatMoney(p.AnnualExpenses))
	fmt.Printf("    Annual savings:     %s\n", cli.FormatMoney(p.AnnualSavings))
	fmt.Printf("    Current savings:    %s\n", cli.FormatMoney(p.CurrentSavings))
	fmt.Printf("    Return (pre):       %s\n", cli.FormatPercent(p.PreRetirementReturn))
	fmt.Printf("    Return (post):      %s\n", cli.FormatPercent(p.PostRetirementReturn))
	fmt.Printf("    Inflation:          %s\n", cli.FormatPercent(p.InflationRate))
	fmt.Printf("    Withdrawal rate:    %s\n", cli.FormatPercent(p.WithdrawalRate))
	fmt.Printf("    Expense reduction:  %s\n", cli.FormatPercent(p.ExpenseReduction))
	fmt.Println()

	fmt.Println("  [Scenarios]")
	for _, o := range pipeline.BuildScenarios(cfg.Scenarios) {
		fmt.Printf("    - %s\n", o.Label)
	}
	fmt.Println()

	fmt.Println("  [Export]")
	if cfg.Export.EnableCSV {
		fmt.Printf("    CSV: %s\n", cfg.Export.Path)
	} else {
		fmt.Println("    CSV: disabled")
	}
	fmt.Println()

	fmt.Println("  [Serve]")
	fmt.Printf("    Address: %s\n", cfg.Serve.Addr)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `firecalc setup` to reconfigure.")
	return nil
}
