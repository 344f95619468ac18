// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DailyBar is one trading day's adjusted OHLCV for a symbol. Prices are
// split- and dividend-adjusted; downstream factor and backtest computations
// assume a single adjustment convention and unadjusted prices must never be
// emitted.
type DailyBar struct {
	Symbol string `json:"symbol"`

	// Price fields are nil (JSON null) when the provider has no numeric
	// value, never zero.
	Open  *float64 `json:"open"`
	High  *float64 `json:"high"`
	Low   *float64 `json:"low"`
	Close *float64 `json:"close"`

	// Volume defaults to 0 when the provider omits it.
	Volume int64 `json:"volume"`

	// TradedValue is round(volume * close), computed only when both are
	// present.
	TradedValue int64 `json:"trdVal"`
}
