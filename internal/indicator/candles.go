package indicator

import (
	"math"

	"PriceSentinel/internal/model"
)

// recentTrendLookback is how many closes the K-line trend call considers.
const recentTrendLookback = 10

// SummarizeCandles condenses a candlestick series (chronologically ascending)
// into the K-line context section of the report. Returns nil when there are
// too few candles to say anything.
func SummarizeCandles(candles []model.Candle) *model.CandleSummary {
	if len(candles) < 2 {
		return nil
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}

	sum := &model.CandleSummary{
		ChangePct: (closes[len(closes)-1] - closes[0]) / closes[0] * 100,
	}

	recent := closes
	if len(recent) > recentTrendLookback {
		recent = recent[len(recent)-recentTrendLookback:]
	}
	if recent[len(recent)-1] > recent[0] {
		sum.Trend = model.TrendBullish
	} else if recent[len(recent)-1] < recent[0] {
		sum.Trend = model.TrendBearish
	} else {
		sum.Trend = model.TrendNeutral
	}

	sum.Support, sum.Resistance = minMax(closes)
	sum.Volatility = closesStddev(closes)
	return sum
}

func closesStddev(closes []float64) float64 {
	m := mean(closes)
	var sum float64
	for _, c := range closes {
		d := c - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(closes)))
}
