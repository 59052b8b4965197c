// Package entity defines the domain models for the rankings feature.
package entity

import "math"

// RawTicker is one row of the exchange's 24-hour statistics snapshot,
// exactly as it came off the wire. All numeric fields are still strings;
// coercion (and the missing-vs-zero distinction) happens in the pipeline.
type RawTicker struct {
	Symbol             string // Exchange-native pair symbol (e.g., "BTCUSDT")
	LastPrice          string
	PriceChangePercent string
	QuoteVolume        string // Turnover in the quote currency
	Volume             string // Turnover in the base currency; variant field aliases already resolved
}

// TickerRow is a normalized trading pair at a point in time. A numeric
// field that failed coercion is NaN ("missing"), never zero; rows missing
// the ranking field are excluded when ranking, not treated as zero-volume.
type TickerRow struct {
	Symbol             string  // Exchange-native pair symbol, unique within one snapshot
	BaseAsset          string  // Symbol with the quote-currency suffix stripped
	LastPrice          float64
	PriceChangePercent float64
	QuoteVolume        float64 // Canonical ranking volume (quote currency)
	Volume             float64 // Volume in the base currency
}

// Missing reports whether a coerced numeric field is absent.
func Missing(v float64) bool { return math.IsNaN(v) }

// Candle is one time bucket of a symbol's daily candle series,
// reduced to the fields the weekly rollup needs.
type Candle struct {
	Close  float64
	Volume float64
}

// WeeklyAggregate is the 7-day rollup derived from one symbol's
// daily candle series.
type WeeklyAggregate struct {
	Symbol        string
	Volume7d      float64 // Sum of per-candle volumes
	PriceChange7d float64 // Percent change first close -> last close; 0 when the first close is 0
}

// NewWeeklyAggregate rolls a chronological (oldest first) candle series
// up into a WeeklyAggregate. Returns false when the series is empty.
func NewWeeklyAggregate(symbol string, candles []Candle) (WeeklyAggregate, bool) {
	if len(candles) == 0 {
		return WeeklyAggregate{}, false
	}

	agg := WeeklyAggregate{Symbol: symbol}
	for _, c := range candles {
		agg.Volume7d += c.Volume
	}

	first := candles[0].Close
	last := candles[len(candles)-1].Close
	// Division-by-zero guard: a zero first close yields a 0% change.
	if first > 0 {
		agg.PriceChange7d = (last - first) / first * 100
	}
	return agg, true
}

// ExchangeInfo is the tradable-symbol metadata the exchange publishes.
// It is an exposed capability of the market data client, not an input
// to ranking.
type ExchangeInfo struct {
	Timezone string
	Symbols  []SymbolInfo
}

// SymbolInfo describes one tradable pair in ExchangeInfo.
type SymbolInfo struct {
	Symbol     string
	Status     string
	BaseAsset  string
	QuoteAsset string
}
