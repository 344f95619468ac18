package collect

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/marketfeed/internal/signal"
	"github.com/pdiddy/marketfeed/pkg/types"
)

func dartCfg(baseURL string) types.DartConfig {
	return types.DartConfig{
		HTTPConfig:   types.HTTPConfig{Timeout: 5 * time.Second},
		BaseURL:      baseURL,
		APIKey:       "test-key",
		LookbackDays: 3,
		PageSize:     2,
		MaxPages:     10,
	}
}

func dartPage(status string, rows []dartRow) []byte {
	body, _ := json.Marshal(dartListResponse{Status: status, List: rows})
	return body
}

func TestDartNotConfigured(t *testing.T) {
	cfg := dartCfg("http://unused.invalid")
	cfg.APIKey = ""
	src := NewDart(nil, cfg, signal.DefaultRules(), io.Discard)

	_, err := src.Collect(context.Background())
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Collect() error = %v, want ErrNotConfigured", err)
	}
}

func TestDartCollectNormalizes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("crtfc_key"); got != "test-key" {
			t.Errorf("crtfc_key = %q, want test-key", got)
		}
		w.Write(dartPage("000", []dartRow{
			{
				RceptNo:   "X1",
				ReportNm:  "영업익 30% 증가 공시",
				CorpName:  "삼성전자",
				FlrNm:     "삼성전자",
				StockCode: "001",
				RceptDt:   "20260827",
			},
		}))
	}))
	defer server.Close()

	src := NewDart(server.Client(), dartCfg(server.URL), signal.DefaultRules(), io.Discard)
	items, err := src.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}

	item := items[0]
	if item.Source != "DART" || item.Market != types.MarketKR || item.Tier != types.TierFact {
		t.Errorf("source/market/tier = %s/%s/%s", item.Source, item.Market, item.Tier)
	}
	if !item.SignalRelevant {
		t.Error("SignalRelevant = false, want true for 공시 keyword match")
	}
	if !strings.HasPrefix(item.EventType, "DART_SIGNAL:") {
		t.Errorf("EventType = %q, want DART_SIGNAL: prefix", item.EventType)
	}
	if item.URL != dartViewerBase+"X1" {
		t.Errorf("URL = %q, want viewer URL ending in X1", item.URL)
	}
	if item.Symbol == nil || *item.Symbol != "001" {
		t.Errorf("Symbol = %v, want 001", item.Symbol)
	}
	if got := item.CollectedAt.Format("20060102"); got != "20260827" {
		t.Errorf("CollectedAt = %s, want 20260827", got)
	}
	if item.Summary == nil || *item.Summary != "삼성전자 / 삼성전자" {
		t.Errorf("Summary = %v, want corp / filer", item.Summary)
	}
}

func TestDartPaginationStopsOnShortPage(t *testing.T) {
	pages := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		switch r.URL.Query().Get("page_no") {
		case "1":
			w.Write(dartPage("000", []dartRow{
				{RceptNo: "A1", ReportNm: "보고서1", RceptDt: "20260827"},
				{RceptNo: "A2", ReportNm: "보고서2", RceptDt: "20260827"},
			}))
		default:
			// Short page ends pagination.
			w.Write(dartPage("000", []dartRow{
				{RceptNo: "A3", ReportNm: "보고서3", RceptDt: "20260827"},
			}))
		}
	}))
	defer server.Close()

	src := NewDart(server.Client(), dartCfg(server.URL), signal.DefaultRules(), io.Discard)
	items, err := src.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if pages != 2 {
		t.Errorf("pages fetched = %d, want 2", pages)
	}
	if len(items) != 3 {
		t.Errorf("len(items) = %d, want 3", len(items))
	}
}

func TestDartNonSuccessStatusIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(dartPage("013", nil))
	}))
	defer server.Close()

	src := NewDart(server.Client(), dartCfg(server.URL), signal.DefaultRules(), io.Discard)
	items, err := src.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("len(items) = %d, want 0", len(items))
	}
}

func TestDartMaxPagesCap(t *testing.T) {
	pages := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		pages++
		// Every page is full; only the cap stops the loop.
		w.Write(dartPage("000", []dartRow{
			{RceptNo: "B1", ReportNm: "보고서", RceptDt: "20260827"},
			{RceptNo: "B2", ReportNm: "보고서", RceptDt: "20260827"},
		}))
	}))
	defer server.Close()

	cfg := dartCfg(server.URL)
	cfg.MaxPages = 3
	src := NewDart(server.Client(), cfg, signal.DefaultRules(), io.Discard)
	if _, err := src.Collect(context.Background()); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if pages != 3 {
		t.Errorf("pages fetched = %d, want 3", pages)
	}
}

func TestDartSkipsRowsWithoutReceipt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(dartPage("000", []dartRow{
			{RceptNo: "", ReportNm: "접수번호 없음"},
			{RceptNo: "C1", ReportNm: "정상 보고서", RceptDt: "20260827"},
		}))
	}))
	defer server.Close()

	src := NewDart(server.Client(), dartCfg(server.URL), signal.DefaultRules(), io.Discard)
	items, err := src.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(items) != 1 || items[0].URL != dartViewerBase+"C1" {
		t.Errorf("items = %+v, want only the row with a receipt number", items)
	}
}
