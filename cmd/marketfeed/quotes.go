// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/marketfeed/internal/quotes"
)

var quotesCmd = &cobra.Command{
	Use:   "quotes",
	Short: "Fetch adjusted daily OHLCV bars for a symbol list",
	Long: `Quotes fetches one adjusted daily bar per symbol for a trading date and
prints the result as JSON. Symbols the provider has no data for are
omitted from the output.`,
	RunE: runQuotes,
}

func init() {
	quotesCmd.Flags().String("date", "", "trading date (YYYY-MM-DD, default today)")
	quotesCmd.Flags().String("symbols", "", "comma-separated symbol list")

	rootCmd.AddCommand(quotesCmd)
}

func runQuotes(cmd *cobra.Command, args []string) error {
	date, _ := cmd.Flags().GetString("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	symbolsFlag, _ := cmd.Flags().GetString("symbols")
	var symbols []string
	for _, s := range strings.Split(symbolsFlag, ",") {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, s)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	provider := quotes.NewProvider(nil, cfg.Quotes, os.Stderr)
	bars, err := provider.FetchDaily(cmd.Context(), date, symbols)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(bars); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%d of %d symbols returned bars\n", len(bars), len(symbols))
	return nil
}
