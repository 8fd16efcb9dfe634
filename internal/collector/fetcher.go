package collector

import (
	"context"

	"PriceSentinel/internal/model"
)

// Fetcher retrieves market data for a single currency pair.
type Fetcher interface {
	// FetchQuote returns the current ticker reading, timestamped at fetch
	// time. Timeouts, non-2xx responses and malformed payloads all surface
	// as errors.
	FetchQuote(ctx context.Context) (*model.Quote, error)
	// FetchCandles returns up to limit candlesticks at the given interval,
	// chronologically ascending.
	FetchCandles(ctx context.Context, interval string, limit int) ([]model.Candle, error)
	Name() string
}
