package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"PriceSentinel/internal/model"
)

// GateFetcher implements Fetcher against the Gate.io spot REST API.
type GateFetcher struct {
	BaseURL string
	Pair    string
	Client  *http.Client
}

// NewGateFetcher creates a fetcher with optional proxy support.
func NewGateFetcher(baseURL, pair, proxyURL string) *GateFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &GateFetcher{
		BaseURL: baseURL,
		Pair:    pair,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *GateFetcher) Name() string { return "gateio" }

// gateTicker is the Gate.io ticker response shape. All numbers arrive as strings.
type gateTicker struct {
	CurrencyPair     string `json:"currency_pair"`
	Last             string `json:"last"`
	ChangePercentage string `json:"change_percentage"`
	High24h          string `json:"high_24h"`
	Low24h           string `json:"low_24h"`
	BaseVolume       string `json:"base_volume"`
	QuoteVolume      string `json:"quote_volume"`
}

func (f *GateFetcher) FetchQuote(ctx context.Context) (*model.Quote, error) {
	// Cache buster keeps intermediaries from serving a stale ticker.
	endpoint := fmt.Sprintf("%s/api/v4/spot/tickers?currency_pair=%s&_=%d",
		f.BaseURL, url.QueryEscape(f.Pair), time.Now().UnixMilli())

	body, err := f.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch ticker: %w", err)
	}

	var tickers []gateTicker
	if err := json.Unmarshal(body, &tickers); err != nil {
		return nil, fmt.Errorf("decode ticker: %w", err)
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no ticker data for %s", f.Pair)
	}

	tk := tickers[0]
	price, err := strconv.ParseFloat(tk.Last, 64)
	if err != nil {
		return nil, fmt.Errorf("parse last price %q: %w", tk.Last, err)
	}
	if price <= 0 {
		return nil, fmt.Errorf("non-positive price %v for %s", price, f.Pair)
	}

	q := &model.Quote{
		Sample:       model.PriceSample{Time: time.Now(), Price: price},
		ChangePct24h: parseFloatOrZero(tk.ChangePercentage),
		High24h:      parseFloatOrZero(tk.High24h),
		Low24h:       parseFloatOrZero(tk.Low24h),
		BaseVolume:   parseFloatOrZero(tk.BaseVolume),
		QuoteVolume:  parseFloatOrZero(tk.QuoteVolume),
	}
	return q, nil
}

// FetchCandles fetches candlesticks. Gate.io returns arrays of strings:
// [timestamp, volume, close, high, low, open, ...].
func (f *GateFetcher) FetchCandles(ctx context.Context, interval string, limit int) ([]model.Candle, error) {
	endpoint := fmt.Sprintf("%s/api/v4/spot/candlesticks?currency_pair=%s&interval=%s&limit=%d",
		f.BaseURL, url.QueryEscape(f.Pair), url.QueryEscape(interval), limit)

	body, err := f.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch candlesticks: %w", err)
	}

	var rows [][]string
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode candlesticks: %w", err)
	}

	candles := make([]model.Candle, 0, len(rows))
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		ts, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			continue
		}
		closePrice, err := strconv.ParseFloat(row[2], 64)
		if err != nil || closePrice <= 0 {
			continue
		}
		candles = append(candles, model.Candle{Time: time.Unix(ts, 0), Close: closePrice})
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("no usable candlesticks for %s", f.Pair)
	}

	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })
	return candles, nil
}

func (f *GateFetcher) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; PriceSentinel/1.0)")
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func parseFloatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
