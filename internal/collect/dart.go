// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/marketfeed/internal/httputil"
	"github.com/pdiddy/marketfeed/internal/signal"
	"github.com/pdiddy/marketfeed/pkg/types"
)

// dartViewerBase is the public filing viewer; the receipt number uniquely
// identifies a filing, so the viewer URL doubles as the dedup key.
const dartViewerBase = "https://dart.fss.or.kr/dsaf001/main.do?rcpNo="

// dartStatusOK is the list.json success sentinel; any other status means an
// empty page.
const dartStatusOK = "000"

// signalTagPrefix marks keyword-matched filings in eventType for downstream
// priority routing. The original report name rides along, truncated so the
// whole field stays within the eventType cap.
const signalTagPrefix = "DART_SIGNAL:"

// DartSource polls the DART filing registry list endpoint over a bounded
// day-range lookback, paging until a short page.
type DartSource struct {
	client   *http.Client
	cfg      types.DartConfig
	keywords []string
	log      io.Writer
}

// NewDart builds the DART adapter. The keyword list is the Korean filing
// list from the signal rules.
func NewDart(client *http.Client, cfg types.DartConfig, rules signal.Rules, log io.Writer) *DartSource {
	if client == nil {
		client = httputil.NewClient(cfg.Timeout)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://opendart.fss.or.kr/api"
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 3
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 50
	}
	return &DartSource{client: client, cfg: cfg, keywords: rules.FilingsKR, log: log}
}

// Name returns the source identifier.
func (s *DartSource) Name() string { return "DART" }

// dartRow is one filing in the list.json response.
type dartRow struct {
	RceptNo   string `json:"rcept_no"`
	ReportNm  string `json:"report_nm"`
	CorpName  string `json:"corp_name"`
	FlrNm     string `json:"flr_nm"`
	StockCode string `json:"stock_code"`
	RceptDt   string `json:"rcept_dt"`
}

type dartListResponse struct {
	Status string    `json:"status"`
	List   []dartRow `json:"list"`
}

// Collect pages through the lookback window and normalizes every filing.
// A failed page fetch ends pagination with the rows gathered so far.
func (s *DartSource) Collect(ctx context.Context) ([]types.CollectedItem, error) {
	if strings.TrimSpace(s.cfg.APIKey) == "" {
		return nil, fmt.Errorf("DART: %w", ErrNotConfigured)
	}

	end := time.Now()
	begin := end.AddDate(0, 0, -s.cfg.LookbackDays)

	var items []types.CollectedItem
	for page := 1; page <= s.cfg.MaxPages; page++ {
		rows, err := s.fetchPage(ctx, begin, end, page)
		if err != nil {
			fmt.Fprintf(s.log, "warning: DART page %d failed: %v\n", page, err)
			break
		}
		if len(rows) == 0 {
			break
		}
		for _, row := range rows {
			if item, ok := s.normalize(row); ok {
				items = append(items, item)
			}
		}
		if len(rows) < s.cfg.PageSize {
			break
		}
	}
	return items, nil
}

// fetchPage queries one list.json page. A non-success status field is an
// empty page, not an error; DART reports "no data" that way.
func (s *DartSource) fetchPage(ctx context.Context, begin, end time.Time, page int) ([]dartRow, error) {
	q := url.Values{}
	q.Set("crtfc_key", s.cfg.APIKey)
	q.Set("bgn_de", begin.Format("20060102"))
	q.Set("end_de", end.Format("20060102"))
	q.Set("page_no", fmt.Sprintf("%d", page))
	q.Set("page_count", fmt.Sprintf("%d", s.cfg.PageSize))
	listURL := strings.TrimRight(s.cfg.BaseURL, "/") + "/list.json?" + q.Encode()

	resp, err := httputil.Get(ctx, s.client, listURL, s.cfg.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("list request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list returned HTTP %d", resp.StatusCode)
	}

	var body dartListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing list response: %w", err)
	}
	if body.Status != dartStatusOK {
		return nil, nil
	}
	return body.List, nil
}

// normalize maps one filing row to a collected item. Rows without a receipt
// number cannot carry an absolute document URL and are dropped.
func (s *DartSource) normalize(row dartRow) (types.CollectedItem, bool) {
	rcept := strings.TrimSpace(row.RceptNo)
	if rcept == "" {
		return types.CollectedItem{}, false
	}

	report := types.Truncate(row.ReportNm, types.MaxTitleLen)

	var summary string
	if row.CorpName != "" || row.FlrNm != "" {
		summary = strings.Trim(row.CorpName+" / "+row.FlrNm, " /")
	}

	relevant := signal.Match(report, s.keywords, false)
	eventType := types.Truncate(report, types.MaxEventTypeLen)
	if relevant {
		eventType = signalTagPrefix + types.Truncate(report, types.MaxEventTypeLen-len(signalTagPrefix))
	}

	return types.CollectedItem{
		Source:         "DART",
		Market:         types.MarketKR,
		Tier:           types.TierFact,
		Title:          report,
		Summary:        types.StringPtr(types.Truncate(summary, types.MaxSummaryLen)),
		URL:            dartViewerBase + rcept,
		CollectedAt:    timestampOrNow(row.RceptDt, "20060102"),
		Symbol:         types.StringPtr(strings.TrimSpace(row.StockCode)),
		EventType:      eventType,
		SignalRelevant: relevant,
	}, true
}
