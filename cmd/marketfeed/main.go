// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the marketfeed CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/marketfeed/internal/secrets"
	"github.com/pdiddy/marketfeed/internal/signal"
	"github.com/pdiddy/marketfeed/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the marketfeed CLI.
var rootCmd = &cobra.Command{
	Use:   "marketfeed",
	Short: "Market data collection and delivery pipeline",
	Long: `marketfeed polls market data providers, normalizes everything into one
collected-item shape, and delivers batches to a downstream ingestion sink.

Sources cover Korean and US disclosure registries (DART, SEC EDGAR), news
feeds (Google News, Yonhap), and the Naver finance portal. Each source is a
subcommand target of "collect"; "run" drives the periodic jobs; "quotes"
fetches daily bars on demand.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./marketfeed.yaml or ~/.config/marketfeed/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("marketfeed")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "marketfeed"))
		}
	}

	viper.SetEnvPrefix("MARKETFEED")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig unmarshals the viper state into the collector configuration
// and fills credentials from the environment or .secrets/.
func loadConfig() (types.CollectorConfig, error) {
	var cfg types.CollectorConfig
	err := viper.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	})
	if err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Dart.APIKey == "" {
		cfg.Dart.APIKey = secrets.Resolve(loadedSecrets, secrets.KeyDart, "MARKETFEED_DART_API_KEY")
	}
	if cfg.Edgar.APIKey == "" {
		cfg.Edgar.APIKey = secrets.Resolve(loadedSecrets, secrets.KeySEC, "MARKETFEED_SEC_API_KEY")
	}
	if cfg.Delivery.InternalKey == "" {
		cfg.Delivery.InternalKey = secrets.Resolve(loadedSecrets, secrets.KeyInternal, "MARKETFEED_INTERNAL_DATA_KEY")
	}
	return cfg, nil
}

// loadRules returns the keyword rules, overridden from the configured YAML
// file when one is set.
func loadRules(cfg types.CollectorConfig) (signal.Rules, error) {
	if cfg.SignalRules == "" {
		return signal.DefaultRules(), nil
	}
	return signal.LoadRules(cfg.SignalRules)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
