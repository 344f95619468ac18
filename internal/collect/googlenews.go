// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/rss"

	"github.com/pdiddy/marketfeed/internal/dedup"
	"github.com/pdiddy/marketfeed/internal/httputil"
	"github.com/pdiddy/marketfeed/internal/metrics"
	"github.com/pdiddy/marketfeed/internal/signal"
	"github.com/pdiddy/marketfeed/pkg/types"
)

// googleNewsBase is the RSS search endpoint. Declared as a var so tests can
// substitute an httptest server.
var googleNewsBase = "https://news.google.com/rss/search"

// defaultQueries are the fixed market search terms when none are configured.
var defaultQueries = []string{
	"stock market",
	"nasdaq",
	"S&P 500",
	"federal reserve",
	"tech stocks",
	"earnings report",
	"semiconductor stocks",
}

// GoogleNewsSource polls the Google News RSS search feed once per query.
// The same story surfaces under multiple queries, so URLs are deduplicated
// across the whole run, first occurrence winning.
type GoogleNewsSource struct {
	client   *http.Client
	cfg      types.GoogleNewsConfig
	keywords []string
	log      io.Writer
	parser   *rss.Parser
}

// NewGoogleNews builds the Google News adapter. The keyword list is the
// English news list from the signal rules.
func NewGoogleNews(client *http.Client, cfg types.GoogleNewsConfig, rules signal.Rules, log io.Writer) *GoogleNewsSource {
	if client == nil {
		client = httputil.NewClient(cfg.Timeout)
	}
	if len(cfg.Queries) == 0 {
		cfg.Queries = defaultQueries
	}
	if cfg.RequestDelay == 0 {
		cfg.RequestDelay = 2 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "marketfeed/1.0 (news collection)"
	}
	return &GoogleNewsSource{
		client:   client,
		cfg:      cfg,
		keywords: rules.NewsEN,
		log:      log,
		parser:   &rss.Parser{},
	}
}

// Name returns the source identifier.
func (s *GoogleNewsSource) Name() string { return "GOOGLE_NEWS" }

// Collect fetches each query's feed sequentially with the configured
// inter-request delay. A dead or malformed feed is logged and skipped.
func (s *GoogleNewsSource) Collect(ctx context.Context) ([]types.CollectedItem, error) {
	seen := dedup.NewSet()

	var items []types.CollectedItem
	for i, query := range s.cfg.Queries {
		if i > 0 && s.cfg.RequestDelay > 0 {
			select {
			case <-ctx.Done():
				return items, nil
			case <-time.After(s.cfg.RequestDelay):
			}
		}

		feed, err := s.fetchFeed(ctx, query)
		if err != nil {
			fmt.Fprintf(s.log, "warning: GOOGLE_NEWS query %q failed: %v\n", query, err)
			continue
		}

		added := 0
		for _, entry := range feed.Items {
			item, ok := s.normalize(entry, query)
			if !ok {
				continue
			}
			if !seen.Add(item.URL) {
				metrics.RecordDuplicate(s.Name())
				continue
			}
			items = append(items, item)
			added++
		}
		fmt.Fprintf(s.log, "GOOGLE_NEWS query %q collected %d items\n", query, added)
	}
	return items, nil
}

func (s *GoogleNewsSource) fetchFeed(ctx context.Context, query string) (*rss.Feed, error) {
	feedURL := fmt.Sprintf("%s?q=%s&hl=en-US&gl=US&ceid=US:en", googleNewsBase, url.QueryEscape(query))

	resp, err := httputil.Get(ctx, s.client, feedURL, s.cfg.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned HTTP %d", resp.StatusCode)
	}

	feed, err := s.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}
	return feed, nil
}

// normalize maps one feed entry to a collected item. Entries without a
// title or link carry nothing worth delivering.
func (s *GoogleNewsSource) normalize(entry *rss.Item, query string) (types.CollectedItem, bool) {
	title := strings.TrimSpace(entry.Title)
	link := strings.TrimSpace(entry.Link)
	if title == "" || link == "" {
		return types.CollectedItem{}, false
	}

	sourceName := "Google News"
	if entry.Source != nil && strings.TrimSpace(entry.Source.Title) != "" {
		sourceName = strings.TrimSpace(entry.Source.Title)
	}

	collectedAt := time.Now()
	if entry.PubDateParsed != nil {
		collectedAt = *entry.PubDateParsed
	}

	eventType := "GOOGLE_" + strings.ToUpper(strings.ReplaceAll(query, " ", "_"))

	return types.CollectedItem{
		Source:         "GOOGLE_NEWS:" + sourceName,
		Market:         types.MarketUS,
		Tier:           types.TierSpeed,
		Title:          types.Truncate(title, types.MaxTitleLen),
		Summary:        types.StringPtr("Query: " + query),
		URL:            link,
		CollectedAt:    collectedAt,
		Symbol:         nil,
		EventType:      types.Truncate(eventType, types.MaxEventTypeLen),
		SignalRelevant: signal.Match(title, s.keywords, true),
	}, true
}
