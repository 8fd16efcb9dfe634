package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/markcheno/go-talib"
	"github.com/stretchr/testify/require"
)

// driftingPrices builds a deterministic oscillating series for cross-checks.
func driftingPrices(n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + 0.1*float64(i) + 3*math.Sin(float64(i)/4)
	}
	return prices
}

func TestSMA_MatchesTalib(t *testing.T) {
	prices := driftingPrices(60)
	period := 14

	e := NewEngine(period)
	snap := e.Compute(samplesAt(testBase, time.Minute, prices...))
	require.NotNil(t, snap.SMA)

	ref := talib.Sma(prices, period)
	require.InDelta(t, ref[len(ref)-1], *snap.SMA, 1e-6)
}

func TestEMA_MatchesTalib(t *testing.T) {
	prices := driftingPrices(60)
	period := 14

	// A fresh engine seeds from the SMA of the first period samples and rolls
	// forward over the whole window, which is exactly talib's convention.
	e := NewEngine(period)
	snap := e.Compute(samplesAt(testBase, time.Minute, prices...))
	require.NotNil(t, snap.EMA)

	ref := talib.Ema(prices, period)
	require.InDelta(t, ref[len(ref)-1], *snap.EMA, 1e-6)
}

func TestRSI_MatchesTalib(t *testing.T) {
	prices := driftingPrices(60)
	period := 14

	rsi, ok := wilderRSI(prices, period)
	require.True(t, ok)

	ref := talib.Rsi(prices, period)
	require.InDelta(t, ref[len(ref)-1], rsi, 1e-6)
}
