// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package quotes fetches adjusted daily OHLCV bars from the chart API.
package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/pdiddy/marketfeed/internal/httputil"
	"github.com/pdiddy/marketfeed/pkg/types"
)

// ErrInvalidInput reports a request the provider cannot act on, an empty
// symbol list or an unparseable date.
var ErrInvalidInput = errors.New("invalid quote request")

const dateLayout = "2006-01-02"

// Provider fetches daily bars symbol by symbol through a bounded worker
// pool.
type Provider struct {
	client *http.Client
	cfg    types.QuoteConfig
	log    io.Writer
}

// NewProvider builds a quote provider.
func NewProvider(client *http.Client, cfg types.QuoteConfig, log io.Writer) *Provider {
	if client == nil {
		client = httputil.NewClient(cfg.Timeout)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://query1.finance.yahoo.com"
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "marketfeed/1.0 (quote collection)"
	}
	return &Provider{client: client, cfg: cfg, log: log}
}

// chartResponse mirrors the subset of the chart payload we read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
				Adjclose []struct {
					Adjclose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDaily returns one adjusted bar per symbol for the given trading
// date (YYYY-MM-DD). Symbols with no data for that date are skipped; the
// result preserves input order for the symbols that produced a bar.
func (p *Provider) FetchDaily(ctx context.Context, date string, symbols []string) ([]types.DailyBar, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: no symbols", ErrInvalidInput)
	}
	day, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date %q", ErrInvalidInput, date)
	}

	results := make([]*types.DailyBar, len(symbols))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < p.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				bar, err := p.fetchSymbol(ctx, symbols[i], day)
				if err != nil {
					fmt.Fprintf(p.log, "warning: quote fetch %s failed: %v\n", symbols[i], err)
					continue
				}
				results[i] = bar
			}
		}()
	}

	for i := range symbols {
		select {
		case <-ctx.Done():
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	bars := make([]types.DailyBar, 0, len(symbols))
	for _, bar := range results {
		if bar != nil {
			bars = append(bars, *bar)
		}
	}
	return bars, nil
}

// fetchSymbol returns nil, nil when the provider has no bar for the date.
func (p *Provider) fetchSymbol(ctx context.Context, symbol string, day time.Time) (*types.DailyBar, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", p.cfg.BaseURL, url.PathEscape(symbol))
	params := url.Values{}
	params.Set("period1", fmt.Sprintf("%d", day.Unix()))
	params.Set("period2", fmt.Sprintf("%d", day.Add(24*time.Hour).Unix()))
	params.Set("interval", "1d")

	resp, err := httputil.Get(ctx, p.client, endpoint+"?"+params.Encode(), p.cfg.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("chart request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart API returned HTTP %d", resp.StatusCode)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding chart response: %w", err)
	}
	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %s", payload.Chart.Error.Code)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, nil
	}

	result := payload.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]
	if len(quote.Close) == 0 || quote.Close[0] == nil {
		return nil, nil
	}

	// A bar without an adjusted close cannot be delivered: every consumer
	// assumes one adjustment convention, so raw prices are skipped like
	// missing ones.
	adj := result.Indicators.Adjclose
	if len(adj) == 0 || len(adj[0].Adjclose) == 0 || adj[0].Adjclose[0] == nil {
		return nil, nil
	}
	adjusted := *adj[0].Adjclose[0]

	bar := types.DailyBar{
		Symbol: symbol,
		Open:   priceAt(quote.Open, 0),
		High:   priceAt(quote.High, 0),
		Low:    priceAt(quote.Low, 0),
		Close:  quote.Close[0],
	}
	if len(quote.Volume) > 0 && quote.Volume[0] != nil {
		bar.Volume = *quote.Volume[0]
	}

	// Split and dividend adjustment. The adjusted close replaces the raw
	// close; open, high, and low scale by the same factor.
	if raw := *bar.Close; raw != 0 {
		factor := adjusted / raw
		bar.Open = scale(bar.Open, factor)
		bar.High = scale(bar.High, factor)
		bar.Low = scale(bar.Low, factor)
	}
	rounded := round4(adjusted)
	bar.Close = &rounded

	bar.TradedValue = int64(math.Round(float64(bar.Volume) * *bar.Close))
	return &bar, nil
}

// priceAt indexes one of the parallel price arrays defensively. Ragged
// arrays in a malformed payload lose the field, never panic the worker.
func priceAt(ss []*float64, i int) *float64 {
	if i < len(ss) {
		return ss[i]
	}
	return nil
}

func scale(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	scaled := round4(*v * factor)
	return &scaled
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
