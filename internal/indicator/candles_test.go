package indicator

import (
	"testing"
	"time"

	"PriceSentinel/internal/model"
)

func candlesAt(base time.Time, closes ...float64) []model.Candle {
	out := make([]model.Candle, len(closes))
	for i, c := range closes {
		out[i] = model.Candle{Time: base.Add(time.Duration(i) * 3 * time.Minute), Close: c}
	}
	return out
}

func TestSummarizeCandles_TooFew(t *testing.T) {
	if s := SummarizeCandles(nil); s != nil {
		t.Error("expected nil summary for no candles")
	}
	if s := SummarizeCandles(candlesAt(testBase, 100)); s != nil {
		t.Error("expected nil summary for a single candle")
	}
}

func TestSummarizeCandles_Basics(t *testing.T) {
	s := SummarizeCandles(candlesAt(testBase, 100, 104, 98, 110))
	if s == nil {
		t.Fatal("expected summary")
	}
	if s.ChangePct != 10 {
		t.Errorf("expected 10%% overall change, got %v", s.ChangePct)
	}
	if s.Trend != model.TrendBullish {
		t.Errorf("expected BULLISH, got %s", s.Trend)
	}
	if s.Support != 98 || s.Resistance != 110 {
		t.Errorf("expected support=98 resistance=110, got %v/%v", s.Support, s.Resistance)
	}
}

func TestSummarizeCandles_RecentTrendUsesTail(t *testing.T) {
	// Rises early, then falls over the last 10 closes.
	closes := []float64{100, 120, 119, 118, 117, 116, 115, 114, 113, 112, 111, 110}
	s := SummarizeCandles(candlesAt(testBase, closes...))
	if s == nil {
		t.Fatal("expected summary")
	}
	if s.Trend != model.TrendBearish {
		t.Errorf("expected BEARISH from the recent tail, got %s", s.Trend)
	}
}
