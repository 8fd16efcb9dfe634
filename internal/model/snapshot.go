package model

import "time"

// Trend classifies short-term price direction.
type Trend string

const (
	TrendBullish Trend = "BULLISH"
	TrendBearish Trend = "BEARISH"
	TrendNeutral Trend = "NEUTRAL"
)

// IndicatorSnapshot holds all indicators computed in one evaluation cycle.
// A nil field means the window held too few samples to compute it; it is
// never zero-filled.
type IndicatorSnapshot struct {
	Time       time.Time
	Price      float64
	SMA        *float64
	EMA        *float64
	RSI        *float64
	Support    *float64
	Resistance *float64
	Volatility *float64
	Momentum   *float64
	Trend      Trend
}

// CandleSummary describes the candlestick context computed from a 6-hour
// K-line series.
type CandleSummary struct {
	ChangePct  float64
	Trend      Trend
	Volatility float64
	Support    float64
	Resistance float64
}
