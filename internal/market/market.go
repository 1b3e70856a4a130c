// Package market defines the normalized shapes shared by every data source
// and the error taxonomy the core returns across its boundary.
package market

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DailyBar is one trading day's open/high/low/close/volume record.
// Date is an ISO 8601 calendar date so lexical order equals chronological order.
type DailyBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Series is the normalized daily history for a single symbol.
// Bars are chronologically ascending, oldest first, capped to the most
// recent 100 calendar entries the provider returned. The summary fields
// are computed over the retained bars only.
//
// The fiftyTwoWeek* names are historical: the window is "most recent
// <=100 daily bars", not a calendar year. Kept for wire compatibility.
type Series struct {
	Symbol           string     `json:"symbol"`
	Bars             []DailyBar `json:"data"`
	LatestClose      float64    `json:"latestClose"`
	FiftyTwoWeekHigh float64    `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  float64    `json:"fiftyTwoWeekLow"`
	AverageVolume    float64    `json:"averageVolume"`
}

// CanonicalSymbol trims and uppercases a ticker. Every lookup, cache key
// and upstream request uses the canonical form.
func CanonicalSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Round2 rounds to 2 decimal places using half-up decimal rounding.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Round0 rounds to the nearest integer, returned as a float.
func Round0(v float64) float64 {
	return decimal.NewFromFloat(v).Round(0).InexactFloat64()
}
