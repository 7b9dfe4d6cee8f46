package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/klidoop/fire-calculation/internal/cli"
	"github.com/klidoop/fire-calculation/internal/config"
	"github.com/klidoop/fire-calculation/internal/engine"
	"github.com/klidoop/fire-calculation/internal/export"
	"github.com/klidoop/fire-calculation/internal/model"
	"github.com/klidoop/fire-calculation/internal/pipeline"
)

var (
	flagDetails bool
	flagCSV     string
	flagNoCSV   bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project every scenario and summarize the retirement points",
	Long: "Project every scenario and summarize the retirement points.\n\n" +
		"No file is written unless --csv is given or export.enable_csv is set,\n" +
		"in which case the trajectories go to export.path.",
	RunE: runProject,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, projectCmd} {
		c.Flags().BoolVar(&flagDetails, "details", false, "Print the year-by-year balance table")
		c.Flags().StringVar(&flagCSV, "csv", "", "Write the trajectories to this CSV file")
		c.Flags().BoolVar(&flagNoCSV, "no-csv", false, "Skip the CSV export even when export.enable_csv is set")
	}
	rootCmd.AddCommand(projectCmd)
}

func runProject(cmd *cobra.Command, _ []string) error {
	cfg, c, err := runComparison(cmd)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(projectionTitle(c)))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.SummaryTable(c)))

	printFireBars(c)
	printSparklines(c)
	printNotices(c)

	if flagDetails {
		fmt.Println()
		tbl := cli.StepTable(c)
		tbl.Title = "Year by year (* marks the trigger)"
		fmt.Print(cli.RenderTable(tbl))
	}

	return writeConfiguredCSV(cfg, c)
}

func projectionTitle(c pipeline.Comparison) string {
	p := c.Parameters
	if c.Mode == model.ModeWithdrawalRate {
		return fmt.Sprintf("FIRE PROJECTION  %s withdrawal, age %d", cli.FormatPercent(p.WithdrawalRate), p.CurrentAge)
	}
	return fmt.Sprintf("FIRE PROJECTION  Solvent to %d, age %d", p.LifespanAge, p.CurrentAge)
}

func printFireBars(c pipeline.Comparison) {
	sums := c.Summaries()
	var maxFire float64
	labelW := 0
	for _, s := range sums {
		maxFire = max(maxFire, s.FireNumber)
		labelW = max(labelW, len(s.Scenario))
	}
	if maxFire <= 0 {
		return
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("FIRE number"))
	for _, s := range sums {
		fmt.Println(cli.RenderHorizontalBar(fmt.Sprintf("%-*s", labelW, s.Scenario), s.FireNumber, maxFire, 30))
	}
}

func printSparklines(c pipeline.Comparison) {
	labelW := 0
	for _, r := range c.Results {
		labelW = max(labelW, len(r.Scenario))
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("Balance by " + c.Mode.StepLabel()))
	for _, r := range c.Results {
		if r.Empty() {
			fmt.Printf("  %-*s %s\n", labelW, r.Scenario, cli.RenderMuted("no feasible retirement point"))
			continue
		}
		values := make([]float64, len(r.Points))
		for i, p := range r.Points {
			values[i] = p.Balance
		}
		first, last := r.Points[0].Step, r.Points[len(r.Points)-1].Step
		fmt.Printf("  %-*s %s %s\n", labelW, r.Scenario, cli.RenderSparkline(values),
			cli.RenderMuted(fmt.Sprintf("%d-%d", first, last)))
	}
}

func printNotices(c pipeline.Comparison) {
	for _, r := range c.Results {
		switch {
		case r.Capped:
			fmt.Println()
			fmt.Println(cli.RenderWarning(fmt.Sprintf("%s: FIRE number not reached within %d years", r.Scenario, engine.MaxAccumulationYears)))
		case r.Mode == model.ModeWithdrawalRate && r.FinalBalance() < 0:
			fmt.Println()
			fmt.Println(cli.RenderWarning(fmt.Sprintf("%s: savings run out during the %d-year drawdown", r.Scenario, c.Parameters.RetirementYears)))
		}
	}
}

// writeConfiguredCSV honors --csv, --no-csv and the export section.
func writeConfiguredCSV(cfg config.Config, c pipeline.Comparison) error {
	path := flagCSV
	if path == "" {
		if flagNoCSV || !cfg.Export.EnableCSV {
			return nil
		}
		path = cfg.Export.Path
	}

	if err := export.WriteCSVFile(path, c.Points(), c.Mode); err != nil {
		return err
	}
	if path == "" {
		path = export.DefaultFileName
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "\n  Wrote %d rows to %s\n", len(c.Points()), path)
	}
	log.WithField("path", path).Info("csv exported")
	return nil
}
