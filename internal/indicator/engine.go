package indicator

import (
	"math"

	"PriceSentinel/internal/model"
)

// DefaultPeriod is the default SMA/EMA/RSI lookback.
const DefaultPeriod = 14

// trendConfirm is how many consecutive computed EMA values must agree in
// direction before a bullish or bearish call is made.
const trendConfirm = 3

// Engine computes an IndicatorSnapshot from a window snapshot. It is stateful
// only for the EMA recurrence, which must stay continuous as the window
// evicts old samples, and for the short EMA history backing trend
// confirmation. State lives for the process lifetime.
type Engine struct {
	period  int
	prevEMA *float64
	emaHist []float64
}

// NewEngine creates an engine with the given lookback period.
func NewEngine(period int) *Engine {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Engine{period: period}
}

// Compute derives all indicators from a chronologically ascending window
// snapshot. Insufficient data yields nil fields, never an error. The only
// state mutated is the EMA recurrence, advanced once per call.
func (e *Engine) Compute(samples []model.PriceSample) *model.IndicatorSnapshot {
	snap := &model.IndicatorSnapshot{Trend: model.TrendNeutral}
	n := len(samples)
	if n == 0 {
		return snap
	}

	prices := make([]float64, n)
	for i, s := range samples {
		prices[i] = s.Price
	}
	snap.Time = samples[n-1].Time
	snap.Price = prices[n-1]

	if n >= e.period {
		v := mean(prices[n-e.period:])
		snap.SMA = &v
	}

	snap.EMA = e.advanceEMA(prices)

	if rsi, ok := wilderRSI(prices, e.period); ok {
		snap.RSI = &rsi
	}

	lo, hi := minMax(prices)
	snap.Support = &lo
	snap.Resistance = &hi

	if vol, ok := returnsStddev(prices); ok {
		snap.Volatility = &vol
	}

	if n >= 2 {
		base := prices[0]
		if n >= e.period {
			base = prices[n-e.period]
		}
		m := prices[n-1] - base
		snap.Momentum = &m
	}

	snap.Trend = e.classifyTrend(snap)
	return snap
}

// advanceEMA moves the EMA recurrence forward by one step. When no previous
// value is held it seeds from the SMA of the first period samples and rolls
// forward over the rest of the window; until the window can seed, EMA stays
// absent. After seeding, only the recurrence state drives the value, so
// evictions do not affect it.
func (e *Engine) advanceEMA(prices []float64) *float64 {
	k := 2.0 / float64(e.period+1)
	if e.prevEMA == nil {
		if len(prices) < e.period {
			return nil
		}
		ema := mean(prices[:e.period])
		for _, p := range prices[e.period:] {
			ema = p*k + ema*(1-k)
		}
		e.prevEMA = &ema
	} else {
		ema := prices[len(prices)-1]*k + *e.prevEMA*(1-k)
		e.prevEMA = &ema
	}

	v := *e.prevEMA
	e.emaHist = append(e.emaHist, v)
	if len(e.emaHist) > trendConfirm {
		e.emaHist = e.emaHist[len(e.emaHist)-trendConfirm:]
	}
	return &v
}

// classifyTrend is total: it always yields exactly one label, and NEUTRAL
// whenever SMA/EMA are absent or fewer than trendConfirm EMA values exist.
func (e *Engine) classifyTrend(snap *model.IndicatorSnapshot) model.Trend {
	if snap.SMA == nil || snap.EMA == nil || len(e.emaHist) < trendConfirm {
		return model.TrendNeutral
	}
	rising, falling := true, true
	for i := 1; i < len(e.emaHist); i++ {
		if e.emaHist[i] < e.emaHist[i-1] {
			rising = false
		}
		if e.emaHist[i] > e.emaHist[i-1] {
			falling = false
		}
	}
	switch {
	case snap.Price > *snap.SMA && rising:
		return model.TrendBullish
	case snap.Price < *snap.SMA && falling:
		return model.TrendBearish
	default:
		return model.TrendNeutral
	}
}

// wilderRSI computes the Wilder-smoothed RSI over the window: the first
// period deltas seed plain averages, every later delta updates the running
// averages. Requires period+1 prices.
func wilderRSI(prices []float64, period int) (float64, bool) {
	if len(prices) < period+1 {
		return 0, false
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	switch {
	case avgLoss == 0 && avgGain == 0:
		return 50.0, true // flat market, no bias
	case avgLoss == 0:
		return 100.0, true
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), true
}

// returnsStddev computes the population standard deviation of per-step
// percentage returns. Requires at least 2 prices.
func returnsStddev(prices []float64) (float64, bool) {
	if len(prices) < 2 {
		return 0, false
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
	}
	m := mean(returns)
	var sum float64
	for _, r := range returns {
		d := r - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(returns))), true
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func minMax(xs []float64) (lo, hi float64) {
	lo, hi = xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi
}
