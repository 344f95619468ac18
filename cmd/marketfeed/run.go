// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/pdiddy/marketfeed/internal/metrics"
	"github.com/pdiddy/marketfeed/internal/schedule"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the periodic collection jobs",
	Long: `Run starts the scheduler and keeps the periodic collection jobs going
until interrupted. The DART job and the EDGAR job each run on their own
interval; a failing cycle is logged and the cadence continues.

Scheduling must be enabled in the configuration (schedule.enabled); when
it is off, run exits immediately so a half-configured deployment cannot
start polling by accident.`,
	RunE: runScheduler,
}

func init() {
	runCmd.Flags().String("listen", "", "address for the Prometheus metrics endpoint (empty disables it)")

	rootCmd.AddCommand(runCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Schedule.Enabled {
		fmt.Fprintln(os.Stderr, "scheduling disabled in configuration; nothing to do")
		return nil
	}
	rules, err := loadRules(cfg)
	if err != nil {
		return err
	}

	if cfg.Schedule.DartInterval <= 0 {
		cfg.Schedule.DartInterval = 10 * time.Minute
	}
	if cfg.Schedule.EdgarInterval <= 0 {
		cfg.Schedule.EdgarInterval = time.Hour
	}

	sources := buildSources(cfg, rules)
	runner, store, err := newRunner(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(listen, mux); err != nil {
				fmt.Fprintf(os.Stderr, "warning: metrics endpoint failed: %v\n", err)
			}
		}()
		fmt.Fprintf(os.Stderr, "metrics listening on %s\n", listen)
	}

	scheduler := schedule.New(os.Stderr,
		schedule.Job{
			Name:     "dart",
			Interval: cfg.Schedule.DartInterval,
			Run:      runner.Job(sources["dart"]),
		},
		schedule.Job{
			Name:     "edgar",
			Interval: cfg.Schedule.EdgarInterval,
			Run:      runner.Job(sources["edgar"]),
		},
	)

	scheduler.Start(cmd.Context())
	defer scheduler.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case <-stop:
		fmt.Fprintln(os.Stderr, "shutting down")
	case <-cmd.Context().Done():
	}
	return nil
}
