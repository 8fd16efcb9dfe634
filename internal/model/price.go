package model

import "time"

// PriceSample is a single observed spot price. Immutable once created.
type PriceSample struct {
	Time  time.Time
	Price float64
}

// Quote is a full ticker reading. Sample feeds the analysis window; the 24h
// statistics only decorate the report header.
type Quote struct {
	Sample       PriceSample
	ChangePct24h float64
	High24h      float64
	Low24h       float64
	BaseVolume   float64
	QuoteVolume  float64
}

// Candle is one candlestick close, used for the K-line context section.
// Only closes are analyzed, so the other OHLC fields are not carried.
type Candle struct {
	Time  time.Time
	Close float64
}
