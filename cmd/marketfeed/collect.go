// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/marketfeed/internal/collect"
	"github.com/pdiddy/marketfeed/internal/deliver"
	"github.com/pdiddy/marketfeed/internal/runlog"
	"github.com/pdiddy/marketfeed/internal/signal"
	"github.com/pdiddy/marketfeed/pkg/types"
)

var collectCmd = &cobra.Command{
	Use:   "collect [source]",
	Short: "Run one collection cycle for a source",
	Long: `Collect fetches items from one source, normalizes them, and delivers the
batch to the downstream sink. Sources: dart, edgar, google-news, yonhap,
naver. Use --all to cycle through every source in order.

A source without credentials is skipped, not failed, so --all works with
any subset of keys configured.`,
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().Bool("all", false, "run every source in order")

	rootCmd.AddCommand(collectCmd)
}

// buildSources constructs every adapter keyed by CLI name.
func buildSources(cfg types.CollectorConfig, rules signal.Rules) map[string]collect.Source {
	return map[string]collect.Source{
		"dart":        collect.NewDart(nil, cfg.Dart, rules, os.Stderr),
		"edgar":       collect.NewEdgar(nil, cfg.Edgar, os.Stderr),
		"google-news": collect.NewGoogleNews(nil, cfg.GoogleNews, rules, os.Stderr),
		"yonhap":      collect.NewYonhap(nil, cfg.Yonhap, rules, os.Stderr),
		"naver":       collect.NewNaver(nil, cfg.Naver, rules, os.Stderr),
	}
}

// sourceOrder is the --all cycle order: registries first, then news.
var sourceOrder = []string{"dart", "edgar", "google-news", "yonhap", "naver"}

// newRunner wires the delivery client and optional run log. The caller
// closes the returned store when it is non-nil.
func newRunner(cfg types.CollectorConfig) (*collect.Runner, *runlog.Store, error) {
	runner := &collect.Runner{
		Sink: deliver.NewClient(nil, cfg.Delivery),
		Log:  os.Stderr,
	}
	if cfg.RunLogPath != "" {
		store, err := runlog.Open(cfg.RunLogPath)
		if err != nil {
			return nil, nil, err
		}
		runner.Runs = store
		return runner, store, nil
	}
	return runner, nil, nil
}

func runCollect(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	if !all && len(args) != 1 {
		return fmt.Errorf("source name required (one of %s) or --all", strings.Join(sourceOrder, ", "))
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rules, err := loadRules(cfg)
	if err != nil {
		return err
	}

	sources := buildSources(cfg, rules)
	runner, store, err := newRunner(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	names := sourceOrder
	if !all {
		if _, ok := sources[args[0]]; !ok {
			return fmt.Errorf("unknown source %q (one of %s)", args[0], strings.Join(sourceOrder, ", "))
		}
		names = args[:1]
	}

	failures := 0
	for _, name := range names {
		report, err := runner.RunOnce(cmd.Context(), sources[name])
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			failures++
			continue
		}
		if report.Skipped {
			continue
		}
		fmt.Printf("%s: collected %d, received %d, saved %d\n",
			report.Source, report.Items, report.Received, report.Saved)
	}
	if failures > 0 {
		return fmt.Errorf("%d source(s) failed", failures)
	}
	return nil
}
