// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/pdiddy/marketfeed/internal/dedup"
	"github.com/pdiddy/marketfeed/internal/httputil"
	"github.com/pdiddy/marketfeed/internal/metrics"
	"github.com/pdiddy/marketfeed/internal/signal"
	"github.com/pdiddy/marketfeed/pkg/types"
)

// defaultYonhapFeeds are the economy and industry category feeds.
var defaultYonhapFeeds = []types.CategoryFeed{
	{URL: "https://www.yna.co.kr/rss/economy.xml", Category: "경제"},
	{URL: "https://www.yna.co.kr/rss/industry.xml", Category: "산업"},
}

// YonhapSource polls the Yonhap news category feeds. Stories cross-posted
// between categories are deduplicated by URL across the run.
type YonhapSource struct {
	client   *http.Client
	cfg      types.YonhapConfig
	keywords []string
	log      io.Writer
	parser   *gofeed.Parser
}

// NewYonhap builds the Yonhap adapter. The keyword list is the Korean news
// list from the signal rules.
func NewYonhap(client *http.Client, cfg types.YonhapConfig, rules signal.Rules, log io.Writer) *YonhapSource {
	if client == nil {
		client = httputil.NewClient(cfg.Timeout)
	}
	if len(cfg.Feeds) == 0 {
		cfg.Feeds = defaultYonhapFeeds
	}
	if cfg.RequestDelay == 0 {
		cfg.RequestDelay = 2 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "marketfeed/1.0 (news collection)"
	}
	return &YonhapSource{
		client:   client,
		cfg:      cfg,
		keywords: rules.NewsKR,
		log:      log,
		parser:   gofeed.NewParser(),
	}
}

// Name returns the source identifier.
func (s *YonhapSource) Name() string { return "YONHAP" }

// Collect fetches each category feed sequentially with the configured
// inter-request delay, skipping dead or malformed feeds.
func (s *YonhapSource) Collect(ctx context.Context) ([]types.CollectedItem, error) {
	seen := dedup.NewSet()

	var items []types.CollectedItem
	for i, feed := range s.cfg.Feeds {
		if i > 0 && s.cfg.RequestDelay > 0 {
			select {
			case <-ctx.Done():
				return items, nil
			case <-time.After(s.cfg.RequestDelay):
			}
		}

		parsed, err := s.fetchFeed(ctx, feed.URL)
		if err != nil {
			fmt.Fprintf(s.log, "warning: YONHAP feed %s failed: %v\n", feed.URL, err)
			continue
		}

		added := 0
		for _, entry := range parsed.Items {
			item, ok := s.normalize(entry, feed.Category)
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
		fmt.Fprintf(s.log, "YONHAP %s collected %d items\n", feed.Category, added)
	}
	return items, nil
}

func (s *YonhapSource) fetchFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
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

// normalize maps one feed entry to a collected item. Relevance considers
// the description as well as the headline; Yonhap headlines are terse and
// the lede often carries the keyword.
func (s *YonhapSource) normalize(entry *gofeed.Item, category string) (types.CollectedItem, bool) {
	title := strings.TrimSpace(entry.Title)
	link := strings.TrimSpace(entry.Link)
	if title == "" || link == "" {
		return types.CollectedItem{}, false
	}

	desc := strings.TrimSpace(entry.Description)

	collectedAt := time.Now()
	if entry.PublishedParsed != nil {
		collectedAt = *entry.PublishedParsed
	}

	relevant := signal.Match(title, s.keywords, false) || signal.Match(desc, s.keywords, false)

	return types.CollectedItem{
		Source:         "YONHAP",
		Market:         types.MarketKR,
		Tier:           types.TierSpeed,
		Title:          types.Truncate(title, types.MaxTitleLen),
		Summary:        types.StringPtr(types.Truncate(desc, types.MaxSummaryLen)),
		URL:            link,
		CollectedAt:    collectedAt,
		Symbol:         nil,
		EventType:      types.Truncate("YONHAP_"+category, types.MaxEventTypeLen),
		SignalRelevant: relevant,
	}, true
}
