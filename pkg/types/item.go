// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the canonical data model shared by all collection
// stages: the collected item every source adapter normalizes into, the daily
// quote bar, and the configuration structs.
package types

import (
	"time"
	"unicode/utf8"
)

// Market is the jurisdiction a collected item belongs to.
type Market string

const (
	MarketUS Market = "US"
	MarketKR Market = "KR"
)

// Tier classifies the trust/volume profile of a source.
type Tier string

const (
	// TierFact covers regulatory and official filings: high trust, low volume.
	TierFact Tier = "FACT"
	// TierSpeed covers fast-moving news-wire items.
	TierSpeed Tier = "SPEED"
	// TierBuzz covers portal and social sources: lower trust, high volume.
	TierBuzz Tier = "BUZZ"
)

// Field length caps applied at normalization time.
const (
	MaxTitleLen     = 500
	MaxSummaryLen   = 1000
	MaxEventTypeLen = 500
)

// CollectedItem is the canonical record every source adapter produces.
// It is assembled once during normalization and not mutated afterwards.
type CollectedItem struct {
	// Source is the provider tag, optionally "PROVIDER:subsource".
	Source string `json:"source"`

	// Market is the jurisdiction; fixed per adapter.
	Market Market `json:"market"`

	// Tier is the source tier; fixed per adapter.
	Tier Tier `json:"itemType"`

	// Title is the headline or filing name, capped at MaxTitleLen.
	Title string `json:"title"`

	// Summary is optional secondary text, capped at MaxSummaryLen.
	Summary *string `json:"summary"`

	// URL is the canonical link to the source document. Adapters must build
	// absolute URLs; the URL is the dedup key within one collection run.
	URL string `json:"url"`

	// CollectedAt is the provider's publish/filing time when parseable,
	// otherwise the collection time. Never zero.
	CollectedAt time.Time `json:"collectedAt"`

	// Symbol is the ticker or stock code when the provider supplies one.
	Symbol *string `json:"symbol"`

	// EventType is the provider-specific category tag, capped at
	// MaxEventTypeLen. Signal-matched filings carry a tag prefix here.
	EventType string `json:"eventType"`

	// SignalRelevant marks items flagged by keyword or category rules.
	SignalRelevant bool `json:"signalRelevant"`
}

// Truncate returns s cut to at most max runes. Provider text is capped at
// field boundaries rather than rejected; the cut is rune-aligned so Korean
// text is never split mid-character.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// StringPtr returns a pointer to s, or nil when s is empty. Optional item
// fields serialize as JSON null rather than "".
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
