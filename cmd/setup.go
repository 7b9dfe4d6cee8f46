package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/klidoop/fire-calculation/internal/config"
	"github.com/klidoop/fire-calculation/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive wizard that writes the config file",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Existing config or defaults; flags are not applied so they never get
	// persisted by accident.
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Warn("existing config unreadable, starting from defaults")
		cfg = config.DefaultConfig()
	}

	values := tui.NewPlanValues(cfg)
	if err := tui.NewPlanForm(&values).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("\n  Setup cancelled, nothing saved.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	if err := values.Apply(&cfg); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `firecalc setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
