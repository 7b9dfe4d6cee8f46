package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/klidoop/fire-calculation/internal/cli"
	"github.com/klidoop/fire-calculation/internal/tui/components"
	"github.com/klidoop/fire-calculation/internal/tui/theme"
)

var (
	flagChartWidth  int
	flagChartHeight int
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Plot every scenario's balance as a terminal line chart",
	RunE:  runChart,
}

func init() {
	chartCmd.Flags().IntVar(&flagChartWidth, "width", 100, "Chart width in columns")
	chartCmd.Flags().IntVar(&flagChartHeight, "height", 18, "Plot height in rows")
	rootCmd.AddCommand(chartCmd)
}

func runChart(cmd *cobra.Command, _ []string) error {
	cfg, c, err := runComparison(cmd)
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Appearance.Theme)

	pv := c.Pivot()
	if len(pv.Steps) == 0 {
		fmt.Println("\n  No scenario reaches a feasible retirement point.")
		return nil
	}

	labels := make([]string, len(pv.Steps))
	for i, s := range pv.Steps {
		labels[i] = strconv.Itoa(s)
	}
	lines := make([]components.Line, len(pv.Series))
	for i, s := range pv.Series {
		lines[i] = components.Line{Name: s.Scenario, Values: s.Values, Color: theme.Active.SeriesColor(i)}
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("Balance by " + c.Mode.StepLabel()))
	fmt.Println()
	fmt.Println(components.LineChart(lines, labels, max(flagChartWidth, 20), flagChartHeight))
	return nil
}
