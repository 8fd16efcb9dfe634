package collector

import (
	"context"
	"time"

	"PriceSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price   float64
	Quote   *model.Quote
	Candles []model.Candle
	Err     error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchQuote(_ context.Context) (*model.Quote, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Quote != nil {
		return m.Quote, nil
	}
	return &model.Quote{Sample: model.PriceSample{Time: time.Now(), Price: m.Price}}, nil
}

func (m *MockFetcher) FetchCandles(_ context.Context, _ string, limit int) ([]model.Candle, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Candles != nil {
		return m.Candles, nil
	}
	base := m.Price
	if base == 0 && m.Quote != nil {
		base = m.Quote.Sample.Price
	}
	return generateMockCandles(base, limit), nil
}

func generateMockCandles(basePrice float64, count int) []model.Candle {
	candles := make([]model.Candle, count)
	for i := 0; i < count; i++ {
		candles[i] = model.Candle{
			Time:  time.Now().Add(-time.Duration(count-i) * 3 * time.Minute),
			Close: basePrice * (1 + float64(i-count/2)*0.001),
		}
	}
	return candles
}
