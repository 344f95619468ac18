package types

import "time"

// HTTPConfig holds shared HTTP settings used by every component that makes
// network requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CategoryFeed pairs a feed or page URL with the category label stamped on
// items collected from it.
type CategoryFeed struct {
	URL      string `json:"url" yaml:"url"`
	Category string `json:"category" yaml:"category"`
}

// DartConfig holds settings for the DART filing registry adapter.
type DartConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the DART OpenAPI root (default "https://opendart.fss.or.kr/api").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is the OpenAPI certification key. Empty means not configured;
	// the adapter skips collection instead of failing.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// LookbackDays bounds the collection day range (default 3).
	LookbackDays int `json:"lookback_days" yaml:"lookback_days"`

	// PageSize is the list.json page size (default 100).
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxPages caps pagination so a provider that keeps returning full
	// pages cannot loop the adapter forever (default 50).
	MaxPages int `json:"max_pages" yaml:"max_pages"`
}

// EdgarConfig holds settings for the SEC EDGAR submissions adapter.
type EdgarConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the EDGAR data root (default "https://data.sec.gov").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is sent as the X-SEC-API-Key header. Empty means not configured.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// CIKs lists the zero-padded 10-digit entity identifiers to poll.
	CIKs []string `json:"ciks" yaml:"ciks"`

	// LookbackDays bounds the filing date filter (default 3).
	LookbackDays int `json:"lookback_days" yaml:"lookback_days"`
}

// GoogleNewsConfig holds settings for the Google News RSS adapter.
type GoogleNewsConfig struct {
	HTTPConfig `yaml:",inline"`

	// Queries lists the fixed search terms, one feed request each.
	Queries []string `json:"queries" yaml:"queries"`

	// RequestDelay is the pause between consecutive feed requests
	// (rate-limit etiquette, default 2s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`
}

// YonhapConfig holds settings for the Yonhap news RSS adapter.
type YonhapConfig struct {
	HTTPConfig `yaml:",inline"`

	// Feeds lists the category feed URLs.
	Feeds []CategoryFeed `json:"feeds" yaml:"feeds"`

	// RequestDelay is the pause between consecutive feed requests (default 2s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`
}

// NaverConfig holds settings for the Naver finance portal adapter.
type NaverConfig struct {
	HTTPConfig `yaml:",inline"`

	// Pages lists the portal pages to scan.
	Pages []CategoryFeed `json:"pages" yaml:"pages"`

	// RequestDelay is the pause between consecutive page fetches (default 2s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// MinTitleLen discards anchor matches shorter than this many runes
	// (default 5); portal pages are full of short navigation links.
	MinTitleLen int `json:"min_title_len" yaml:"min_title_len"`
}

// DeliveryConfig holds settings for the downstream ingestion sink.
type DeliveryConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the sink root; items POST to <base>/internal/collected-news.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// InternalKey is the shared secret sent as X-Internal-Data-Key. Empty
	// means delivery is not configured.
	InternalKey string `json:"internal_key,omitempty" yaml:"internal_key,omitempty"`
}

// ScheduleConfig holds settings for the periodic collection jobs.
type ScheduleConfig struct {
	// Enabled gates scheduler start at process bootstrap.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// DartInterval is the period of the DART job (default 10m).
	DartInterval time.Duration `json:"dart_interval" yaml:"dart_interval"`

	// EdgarInterval is the period of the EDGAR job (default 1h).
	EdgarInterval time.Duration `json:"edgar_interval" yaml:"edgar_interval"`
}

// QuoteConfig holds settings for the daily quote adapter.
type QuoteConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the quote provider root.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Workers bounds the per-symbol fetch pool (default 4).
	Workers int `json:"workers" yaml:"workers"`
}

// CollectorConfig groups all component configurations.
type CollectorConfig struct {
	Dart       DartConfig       `json:"dart" yaml:"dart"`
	Edgar      EdgarConfig      `json:"edgar" yaml:"edgar"`
	GoogleNews GoogleNewsConfig `json:"google_news" yaml:"google_news"`
	Yonhap     YonhapConfig     `json:"yonhap" yaml:"yonhap"`
	Naver      NaverConfig      `json:"naver" yaml:"naver"`
	Delivery   DeliveryConfig   `json:"delivery" yaml:"delivery"`
	Schedule   ScheduleConfig   `json:"schedule" yaml:"schedule"`
	Quotes     QuoteConfig      `json:"quotes" yaml:"quotes"`

	// SignalRules is an optional YAML file overriding the built-in keyword
	// lists.
	SignalRules string `json:"signal_rules,omitempty" yaml:"signal_rules,omitempty"`

	// RunLogPath is an optional SQLite file recording one row per
	// collection run. Empty disables the run log.
	RunLogPath string `json:"run_log_path,omitempty" yaml:"run_log_path,omitempty"`
}
