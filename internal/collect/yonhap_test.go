package collect

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/marketfeed/internal/signal"
	"github.com/pdiddy/marketfeed/pkg/types"
)

func yonhapFeed(entries ...[3]string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>연합뉴스</title>`)
	for _, e := range entries {
		fmt.Fprintf(&b,
			`<item><title>%s</title><link>%s</link><description>%s</description><pubDate>Thu, 27 Aug 2026 09:00:00 +0900</pubDate></item>`,
			e[0], e[1], e[2])
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

func yonhapTestSource(t *testing.T, handler http.HandlerFunc, feeds ...types.CategoryFeed) *YonhapSource {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	for i := range feeds {
		feeds[i].URL = server.URL + feeds[i].URL
	}
	cfg := types.YonhapConfig{
		HTTPConfig:   types.HTTPConfig{Timeout: 5 * time.Second},
		Feeds:        feeds,
		RequestDelay: time.Millisecond,
	}
	return NewYonhap(server.Client(), cfg, signal.DefaultRules(), io.Discard)
}

func TestYonhapCollectNormalizes(t *testing.T) {
	src := yonhapTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, yonhapFeed(
			[3]string{"삼성전자 3분기 실적 발표", "https://example.com/k1", "영업이익이 크게 늘었다"},
			[3]string{"날씨 소식", "https://example.com/k2", "전국 대체로 맑음"},
		))
	}, types.CategoryFeed{URL: "/economy.xml", Category: "경제"})

	items, err := src.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}

	first := items[0]
	if first.Source != "YONHAP" || first.Market != types.MarketKR || first.Tier != types.TierSpeed {
		t.Errorf("source/market/tier = %s/%s/%s", first.Source, first.Market, first.Tier)
	}
	if first.EventType != "YONHAP_경제" {
		t.Errorf("EventType = %q, want YONHAP_경제", first.EventType)
	}
	if !first.SignalRelevant {
		t.Error("SignalRelevant = false, want true for 실적 in title")
	}
	if first.Summary == nil || *first.Summary != "영업이익이 크게 늘었다" {
		t.Errorf("Summary = %v", first.Summary)
	}
	if items[1].SignalRelevant {
		t.Error("weather headline flagged relevant")
	}
}

func TestYonhapMatchesDescription(t *testing.T) {
	src := yonhapTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, yonhapFeed(
			// Keyword appears only in the lede.
			[3]string{"현대차 소식", "https://example.com/k3", "3분기 영업이익 전망 상향"},
		))
	}, types.CategoryFeed{URL: "/industry.xml", Category: "산업"})

	items, err := src.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(items) != 1 || !items[0].SignalRelevant {
		t.Fatalf("items = %+v, want one relevant item", items)
	}
}

func TestYonhapDeduplicatesAcrossFeeds(t *testing.T) {
	src := yonhapTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		// The same story is cross-posted to both categories.
		io.WriteString(w, yonhapFeed(
			[3]string{"반도체 수출 증가", "https://example.com/shared", "수출이 늘었다"},
		))
	},
		types.CategoryFeed{URL: "/economy.xml", Category: "경제"},
		types.CategoryFeed{URL: "/industry.xml", Category: "산업"},
	)

	items, err := src.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1 after URL dedup", len(items))
	}
	if items[0].EventType != "YONHAP_경제" {
		t.Errorf("EventType = %q, first feed should win", items[0].EventType)
	}
}

func TestYonhapDeadFeedContinues(t *testing.T) {
	src := yonhapTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "economy") {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, yonhapFeed(
			[3]string{"조선업 수주 확대", "https://example.com/k4", "수주가 늘었다"},
		))
	},
		types.CategoryFeed{URL: "/economy.xml", Category: "경제"},
		types.CategoryFeed{URL: "/industry.xml", Category: "산업"},
	)

	items, err := src.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(items) != 1 || items[0].EventType != "YONHAP_산업" {
		t.Fatalf("items = %+v, want one item from the healthy feed", items)
	}
}
