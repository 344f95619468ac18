// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/marketfeed/internal/httputil"
	"github.com/pdiddy/marketfeed/pkg/types"
)

// edgarArchiveBase hosts filing documents; the accession number (dashes
// stripped) names the archive directory.
const edgarArchiveBase = "https://www.sec.gov/Archives/edgar/data"

// defaultCIKs are polled when no entity list is configured:
// Apple, Microsoft, Amazon.
var defaultCIKs = []string{"0000320193", "0000789019", "0001018724"}

// EdgarSource polls SEC EDGAR per-entity submission histories and filters
// them locally to the lookback window. Relevance here is categorical, not
// textual: an 8-K current report is always signal-relevant.
type EdgarSource struct {
	client *http.Client
	cfg    types.EdgarConfig
	log    io.Writer
}

// NewEdgar builds the EDGAR adapter.
func NewEdgar(client *http.Client, cfg types.EdgarConfig, log io.Writer) *EdgarSource {
	if client == nil {
		client = httputil.NewClient(cfg.Timeout)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://data.sec.gov"
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 3
	}
	if len(cfg.CIKs) == 0 {
		cfg.CIKs = defaultCIKs
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "marketfeed/1.0 (SEC EDGAR data collection)"
	}
	return &EdgarSource{client: client, cfg: cfg, log: log}
}

// Name returns the source identifier.
func (s *EdgarSource) Name() string { return "SEC_EDGAR" }

// edgarSubmissions is the per-entity document. The recent block carries
// parallel arrays that must be zipped by index.
type edgarSubmissions struct {
	CIK     string `json:"cik"`
	Name    string `json:"name"`
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			Form            []string `json:"form"`
			FilingDate      []string `json:"filingDate"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// Collect iterates the configured entity list; a failed entity fetch is
// logged and the remaining entities still run.
func (s *EdgarSource) Collect(ctx context.Context) ([]types.CollectedItem, error) {
	if strings.TrimSpace(s.cfg.APIKey) == "" {
		return nil, fmt.Errorf("SEC_EDGAR: %w", ErrNotConfigured)
	}

	since := time.Now().AddDate(0, 0, -s.cfg.LookbackDays)

	var items []types.CollectedItem
	for _, cik := range s.cfg.CIKs {
		entityItems, err := s.collectEntity(ctx, cik, since)
		if err != nil {
			fmt.Fprintf(s.log, "warning: SEC_EDGAR cik=%s failed: %v\n", cik, err)
			continue
		}
		items = append(items, entityItems...)
	}
	return items, nil
}

func (s *EdgarSource) collectEntity(ctx context.Context, cik string, since time.Time) ([]types.CollectedItem, error) {
	subURL := fmt.Sprintf("%s/submissions/CIK%s.json", strings.TrimRight(s.cfg.BaseURL, "/"), cik)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, subURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("X-SEC-API-Key", s.cfg.APIKey)

	resp, err := httputil.DoWithRetry(ctx, s.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("submissions request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("submissions returned HTTP %d", resp.StatusCode)
	}

	var sub edgarSubmissions
	if err := json.NewDecoder(resp.Body).Decode(&sub); err != nil {
		return nil, fmt.Errorf("parsing submissions: %w", err)
	}

	entityCIK := strings.TrimSpace(sub.CIK)
	if entityCIK == "" {
		entityCIK = cik
	}
	company := strings.TrimSpace(sub.Name)
	recent := sub.Filings.Recent

	sinceDay := since.Format("2006-01-02")
	var items []types.CollectedItem
	for i, acc := range recent.AccessionNumber {
		filed := at(recent.FilingDate, i)
		if len(filed) < 10 {
			continue
		}
		// A row whose filing date does not parse carries no usable
		// timestamp and is dropped rather than stamped with now.
		filedAt, err := time.Parse("2006-01-02", filed[:10])
		if err != nil {
			continue
		}
		// Dates are ISO strings; a lexical compare is the date compare.
		if filed[:10] < sinceDay {
			continue
		}

		form := strings.TrimSpace(at(recent.Form, i))
		is8K := strings.EqualFold(form, "8-K")

		eventType := types.Truncate(form, types.MaxEventTypeLen)
		if is8K {
			eventType = "8K"
		}

		title := form
		if company != "" && form != "" {
			title = fmt.Sprintf("%s - %s (%s)", company, form, filed[:10])
		} else if title == "" {
			title = acc
			if title == "" {
				title = "SEC Filing"
			}
		}

		var summary string
		if company != "" || form != "" {
			summary = strings.Trim(company+" / "+form, " /")
		}

		items = append(items, types.CollectedItem{
			Source:         "SEC_EDGAR",
			Market:         types.MarketUS,
			Tier:           types.TierFact,
			Title:          types.Truncate(title, types.MaxTitleLen),
			Summary:        types.StringPtr(types.Truncate(summary, types.MaxSummaryLen)),
			URL:            documentURL(entityCIK, acc, at(recent.PrimaryDocument, i)),
			CollectedAt:    filedAt,
			Symbol:         nil,
			EventType:      eventType,
			SignalRelevant: is8K,
		})
	}
	return items, nil
}

// at indexes a parallel array defensively; EDGAR arrays are same-length by
// contract but a short array must not panic the adapter.
func at(ss []string, i int) string {
	if i < len(ss) {
		return ss[i]
	}
	return ""
}

// documentURL builds the absolute archive link for one filing.
func documentURL(cik, accession, primaryDoc string) string {
	accNo := strings.ReplaceAll(accession, "-", "")
	doc := strings.TrimSpace(primaryDoc)
	if doc == "" {
		doc = accNo + ".htm"
	}
	return fmt.Sprintf("%s/%s/%s/%s", edgarArchiveBase, cik, accNo, doc)
}
