package indicator

import (
	"testing"
	"time"

	"PriceSentinel/internal/model"
)

func samplesAt(base time.Time, step time.Duration, prices ...float64) []model.PriceSample {
	out := make([]model.PriceSample, len(prices))
	for i, p := range prices {
		out[i] = model.PriceSample{Time: base.Add(time.Duration(i) * step), Price: p}
	}
	return out
}

var testBase = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestCompute_EmptyWindow(t *testing.T) {
	e := NewEngine(14)
	snap := e.Compute(nil)
	if snap == nil {
		t.Fatal("expected non-nil snapshot")
	}
	if snap.SMA != nil || snap.EMA != nil || snap.RSI != nil ||
		snap.Support != nil || snap.Resistance != nil ||
		snap.Volatility != nil || snap.Momentum != nil {
		t.Error("all fields must be absent for an empty window")
	}
	if snap.Trend != model.TrendNeutral {
		t.Errorf("expected NEUTRAL trend, got %s", snap.Trend)
	}
}

func TestCompute_AbsentBelowPeriod(t *testing.T) {
	e := NewEngine(14)
	snap := e.Compute(samplesAt(testBase, time.Minute, 100, 101, 102, 103, 104))

	if snap.SMA != nil {
		t.Errorf("SMA must be absent with n=5 < period=14, got %v", *snap.SMA)
	}
	if snap.EMA != nil {
		t.Errorf("EMA must be absent before seeding, got %v", *snap.EMA)
	}
	if snap.RSI != nil {
		t.Errorf("RSI must be absent with n < period+1, got %v", *snap.RSI)
	}
	// Support/resistance need n >= 1, volatility and momentum need n >= 2.
	if snap.Support == nil || snap.Resistance == nil {
		t.Error("support/resistance must be present with n >= 1")
	}
	if snap.Volatility == nil || snap.Momentum == nil {
		t.Error("volatility/momentum must be present with n >= 2")
	}
	if snap.Trend != model.TrendNeutral {
		t.Errorf("trend must be NEUTRAL when SMA is absent, got %s", snap.Trend)
	}
}

func TestCompute_ReferenceScenario(t *testing.T) {
	// Window [(t0,100),(t1,102),(t2,101),(t3,105)], period=2.
	e := NewEngine(2)
	snap := e.Compute(samplesAt(testBase, 10*time.Minute, 100, 102, 101, 105))

	if snap.SMA == nil || *snap.SMA != 103 {
		t.Errorf("expected SMA=103, got %v", snap.SMA)
	}
	if snap.Support == nil || *snap.Support != 100 {
		t.Errorf("expected support=100, got %v", snap.Support)
	}
	if snap.Resistance == nil || *snap.Resistance != 105 {
		t.Errorf("expected resistance=105, got %v", snap.Resistance)
	}
	if snap.Momentum == nil || *snap.Momentum != 4 {
		t.Errorf("expected momentum=105-101=4, got %v", snap.Momentum)
	}
}

func TestCompute_MomentumShortWindowFallsBackToFirst(t *testing.T) {
	e := NewEngine(14)
	snap := e.Compute(samplesAt(testBase, time.Minute, 100, 104, 103))
	if snap.Momentum == nil || *snap.Momentum != 3 {
		t.Errorf("expected momentum = last-first = 3 with n < period, got %v", snap.Momentum)
	}
}

func TestRSI_Bounds(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		want   float64
		exact  bool
	}{
		{"all gains", []float64{100, 101, 102, 103, 104, 105}, 100, true},
		{"flat market", []float64{100, 100, 100, 100, 100, 100}, 50, true},
		{"mixed", []float64{100, 102, 101, 105, 103, 104}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rsi, ok := wilderRSI(tt.prices, 4)
			if !ok {
				t.Fatal("expected RSI to be computable")
			}
			if tt.exact && rsi != tt.want {
				t.Errorf("expected RSI=%v, got %v", tt.want, rsi)
			}
			if rsi < 0 || rsi > 100 {
				t.Errorf("RSI out of [0,100]: %v", rsi)
			}
		})
	}
}

func TestRSI_WilderSmoothing(t *testing.T) {
	// period=2, deltas +2,-1,+4: seed avgGain=1, avgLoss=0.5,
	// then avgGain=(1+4)/2=2.5, avgLoss=0.25, rs=10, RSI=100-100/11.
	rsi, ok := wilderRSI([]float64{100, 102, 101, 105}, 2)
	if !ok {
		t.Fatal("expected RSI to be computable")
	}
	want := 100.0 - 100.0/11.0
	if diff := rsi - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected RSI=%v, got %v", want, rsi)
	}
}

func TestEMA_SeedsFromSMAThenRollsForward(t *testing.T) {
	// period=3, k=0.5: seed=mean(1,2,3)=2, then 4 -> 3, then 5 -> 4.
	e := NewEngine(3)
	snap := e.Compute(samplesAt(testBase, time.Minute, 1, 2, 3, 4, 5))
	if snap.EMA == nil || *snap.EMA != 4 {
		t.Errorf("expected EMA=4, got %v", snap.EMA)
	}
}

func TestEMA_ContinuousAcrossEvictions(t *testing.T) {
	prices := []float64{100, 101, 103, 102, 104, 106, 105, 107, 108, 110}

	evicted := NewEngine(3)
	full := NewEngine(3)

	var evictedLast, fullLast *float64
	for i := 1; i <= len(prices); i++ {
		grown := samplesAt(testBase, time.Minute, prices[:i]...)
		fullLast = full.Compute(grown).EMA

		// The evicted engine sees only the trailing 4 samples once the
		// window fills, as if retention dropped the older ones.
		trimmed := grown
		if len(trimmed) > 4 {
			trimmed = trimmed[len(trimmed)-4:]
		}
		evictedLast = evicted.Compute(trimmed).EMA
	}

	if fullLast == nil || evictedLast == nil {
		t.Fatal("expected EMA to be present on both engines")
	}
	if *fullLast != *evictedLast {
		t.Errorf("EMA must be driven by recurrence state, not raw window: full=%v evicted=%v", *fullLast, *evictedLast)
	}
}

func TestTrend_BullishAfterConfirmation(t *testing.T) {
	e := NewEngine(2)
	prices := []float64{100, 101, 102, 103, 104}
	var snap *model.IndicatorSnapshot
	for i := 1; i <= len(prices); i++ {
		snap = e.Compute(samplesAt(testBase, time.Minute, prices[:i]...))
	}
	if snap.Trend != model.TrendBullish {
		t.Errorf("expected BULLISH after %d rising EMA values, got %s", trendConfirm, snap.Trend)
	}
}

func TestTrend_BearishAfterConfirmation(t *testing.T) {
	e := NewEngine(2)
	prices := []float64{104, 103, 102, 101, 100}
	var snap *model.IndicatorSnapshot
	for i := 1; i <= len(prices); i++ {
		snap = e.Compute(samplesAt(testBase, time.Minute, prices[:i]...))
	}
	if snap.Trend != model.TrendBearish {
		t.Errorf("expected BEARISH after %d falling EMA values, got %s", trendConfirm, snap.Trend)
	}
}

func TestTrend_NeutralBeforeConfirmation(t *testing.T) {
	e := NewEngine(2)
	// Two computes only: fewer than trendConfirm EMA values exist.
	e.Compute(samplesAt(testBase, time.Minute, 100, 101))
	snap := e.Compute(samplesAt(testBase, time.Minute, 100, 101, 102))
	if snap.Trend != model.TrendNeutral {
		t.Errorf("expected NEUTRAL with only 2 EMA values, got %s", snap.Trend)
	}
}

func TestVolatility_FlatWindowIsZero(t *testing.T) {
	e := NewEngine(14)
	snap := e.Compute(samplesAt(testBase, time.Minute, 100, 100, 100))
	if snap.Volatility == nil || *snap.Volatility != 0 {
		t.Errorf("expected volatility=0 for a flat window, got %v", snap.Volatility)
	}
}
