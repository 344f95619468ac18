// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package deliver posts collection batches to the downstream ingestion sink
// and interprets its acknowledgement. Silent delivery loss is the one
// failure mode this system must make observable, so every non-2xx status and
// every unparseable ack surfaces as an error to the caller. The client never
// retries on its own; retry policy belongs to the job runner, which may
// resubmit the same batch because the sink deduplicates by URL.
package deliver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/marketfeed/internal/httputil"
	"github.com/pdiddy/marketfeed/pkg/types"
)

// ErrNotConfigured reports a missing internal delivery key. It is checked
// before any network call so a misconfigured deployment fails fast.
var ErrNotConfigured = errors.New("delivery sink not configured: internal key missing")

// sinkPath is the collected-news ingestion endpoint under the sink base URL.
const sinkPath = "/internal/collected-news"

// Ack is the sink's response to a batch POST.
type Ack struct {
	Received int `json:"received"`
	Saved    int `json:"saved"`
}

// Client posts batches to the ingestion sink.
type Client struct {
	http *http.Client
	cfg  types.DeliveryConfig
}

// NewClient builds a delivery client from config. A nil transport gets a
// default client with the configured timeout.
func NewClient(httpClient *http.Client, cfg types.DeliveryConfig) *Client {
	if httpClient == nil {
		httpClient = httputil.NewClient(cfg.Timeout)
	}
	return &Client{http: httpClient, cfg: cfg}
}

// Send posts items as one batch and returns the sink's ack. An empty batch
// short-circuits to a zero Ack without any network call. The batch is
// treated as read-only.
func (c *Client) Send(ctx context.Context, items []types.CollectedItem) (Ack, error) {
	if strings.TrimSpace(c.cfg.InternalKey) == "" {
		return Ack{}, ErrNotConfigured
	}
	if len(items) == 0 {
		return Ack{}, nil
	}

	payload := struct {
		Items []types.CollectedItem `json:"items"`
	}{Items: items}

	body, err := json.Marshal(payload)
	if err != nil {
		return Ack{}, fmt.Errorf("encoding batch: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + sinkPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Ack{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-Data-Key", c.cfg.InternalKey)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Ack{}, fmt.Errorf("posting batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Ack{}, fmt.Errorf("sink returned HTTP %d", resp.StatusCode)
	}

	var ack Ack
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return Ack{}, fmt.Errorf("parsing sink ack: %w", err)
	}
	return ack, nil
}
