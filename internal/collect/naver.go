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
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"github.com/pdiddy/marketfeed/internal/dedup"
	"github.com/pdiddy/marketfeed/internal/httputil"
	"github.com/pdiddy/marketfeed/internal/metrics"
	"github.com/pdiddy/marketfeed/internal/signal"
	"github.com/pdiddy/marketfeed/pkg/types"
)

// naverBrowserUA is sent on every portal request. The portal serves a
// reduced page to non-browser clients.
const naverBrowserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var defaultNaverPages = []types.CategoryFeed{
	{URL: "https://finance.naver.com/news/mainnews.naver", Category: "주요뉴스"},
	{URL: "https://finance.naver.com/news/news_list.naver?mode=LSS2D&section_id=101&section_id2=258", Category: "증권"},
}

// NaverSource scrapes headline anchors from the Naver finance portal. The
// portal serves EUC-KR; every response body goes through a decoder before
// parsing.
type NaverSource struct {
	client   *http.Client
	cfg      types.NaverConfig
	keywords []string
	log      io.Writer
}

// NewNaver builds the Naver finance adapter.
func NewNaver(client *http.Client, cfg types.NaverConfig, rules signal.Rules, log io.Writer) *NaverSource {
	if client == nil {
		client = httputil.NewClient(cfg.Timeout)
	}
	if len(cfg.Pages) == 0 {
		cfg.Pages = defaultNaverPages
	}
	if cfg.RequestDelay == 0 {
		cfg.RequestDelay = 2 * time.Second
	}
	if cfg.MinTitleLen == 0 {
		cfg.MinTitleLen = 5
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = naverBrowserUA
	}
	return &NaverSource{
		client:   client,
		cfg:      cfg,
		keywords: rules.NewsKR,
		log:      log,
	}
}

// Name returns the source identifier.
func (s *NaverSource) Name() string { return "NAVER" }

// Collect scans each configured portal page. Headlines repeated within a
// page are dropped by title; stories repeated across pages are dropped
// by URL.
func (s *NaverSource) Collect(ctx context.Context) ([]types.CollectedItem, error) {
	seen := dedup.NewSet()

	var items []types.CollectedItem
	for i, page := range s.cfg.Pages {
		if i > 0 && s.cfg.RequestDelay > 0 {
			select {
			case <-ctx.Done():
				return items, nil
			case <-time.After(s.cfg.RequestDelay):
			}
		}

		found, err := s.collectPage(ctx, page)
		if err != nil {
			fmt.Fprintf(s.log, "warning: NAVER page %s failed: %v\n", page.URL, err)
			continue
		}

		added := 0
		for _, item := range found {
			if !seen.Add(item.URL) {
				metrics.RecordDuplicate(s.Name())
				continue
			}
			items = append(items, item)
			added++
		}
		fmt.Fprintf(s.log, "NAVER %s collected %d items\n", page.Category, added)
	}
	return items, nil
}

func (s *NaverSource) collectPage(ctx context.Context, page types.CategoryFeed) ([]types.CollectedItem, error) {
	resp, err := httputil.Get(ctx, s.client, page.URL, s.cfg.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("page request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned HTTP %d", resp.StatusCode)
	}

	decoded := transform.NewReader(resp.Body, korean.EUCKR.NewDecoder())
	doc, err := goquery.NewDocumentFromReader(decoded)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	base, err := url.Parse(page.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing page URL: %w", err)
	}

	// Navigation chrome repeats the same headline text several times on
	// one page; collapse by title within the page, by URL across pages.
	titles := make(map[string]struct{})

	var items []types.CollectedItem
	doc.Find("a[href*='news']").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		title := strings.TrimSpace(sel.Text())
		if utf8.RuneCountInString(title) < s.cfg.MinTitleLen {
			return
		}
		if _, dup := titles[title]; dup {
			return
		}
		titles[title] = struct{}{}

		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		link := base.ResolveReference(ref).String()

		items = append(items, types.CollectedItem{
			Source:         "NAVER",
			Market:         types.MarketKR,
			Tier:           types.TierBuzz,
			Title:          types.Truncate(title, types.MaxTitleLen),
			Summary:        nil,
			URL:            link,
			CollectedAt:    time.Now(),
			Symbol:         nil,
			EventType:      types.Truncate("NAVER_"+page.Category, types.MaxEventTypeLen),
			SignalRelevant: signal.Match(title, s.keywords, false),
		})
	})
	return items, nil
}
