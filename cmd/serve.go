package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/klidoop/fire-calculation/internal/daemon"
)

var flagServeAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve projections over HTTP with Prometheus metrics",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default serve.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log.SetFormatter(&logrus.JSONFormatter{})
	if log.GetLevel() < logrus.InfoLevel && !flagQuiet && flagLogLevel == "" {
		log.SetLevel(logrus.InfoLevel)
	}

	addr := cfg.Serve.Addr
	if flagServeAddr != "" {
		addr = flagServeAddr
	}
	svc := daemon.New(daemon.Config{Addr: addr, Base: cfg, Log: log})

	fmt.Printf("  firecalc listening on http://%s\n", addr)
	fmt.Printf("  Projection: http://%s/v1/projection\n", addr)
	fmt.Printf("  Metrics:    http://%s/metrics\n", addr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
