package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"alphatrade/internal/model"
)

const finnhubBaseURL = "https://finnhub.io/api/v1"

// FinnhubFetcher implements Fetcher using the Finnhub REST API.
type FinnhubFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewFinnhubFetcher creates a fetcher authenticated with the given API key.
func NewFinnhubFetcher(apiKey string) *FinnhubFetcher {
	return &FinnhubFetcher{
		BaseURL: finnhubBaseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (f *FinnhubFetcher) Name() string { return "finnhub" }

// GetQuote returns the live spot price for a symbol.
func (f *FinnhubFetcher) GetQuote(ctx context.Context, symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/quote?symbol=%s&token=%s",
		f.BaseURL, url.QueryEscape(symbol), url.QueryEscape(f.APIKey))

	var result struct {
		Current float64 `json:"c"`
	}
	if err := f.getJSON(ctx, endpoint, &result); err != nil {
		return 0, fmt.Errorf("fetch quote: %w", err)
	}
	if result.Current <= 0 {
		return 0, fmt.Errorf("fetch quote: no price for %q", symbol)
	}
	return result.Current, nil
}

// finnhubCandles is the parallel-array response of the stock/candle endpoint.
// Status "ok" is the only success value; anything else means no data.
type finnhubCandles struct {
	Status     string    `json:"s"`
	Timestamps []int64   `json:"t"`
	Opens      []float64 `json:"o"`
	Highs      []float64 `json:"h"`
	Lows       []float64 `json:"l"`
	Closes     []float64 `json:"c"`
	Volumes    []float64 `json:"v"`
}

// GetCandles returns OHLCV history for a symbol in chronological order.
// Resolution follows the Finnhub convention ("30" for 30-minute bars, "D"
// daily, "W" weekly).
func (f *FinnhubFetcher) GetCandles(ctx context.Context, symbol, resolution string, from, to time.Time) ([]model.Candle, error) {
	endpoint := fmt.Sprintf("%s/stock/candle?symbol=%s&resolution=%s&from=%d&to=%d&token=%s",
		f.BaseURL, url.QueryEscape(symbol), url.QueryEscape(resolution),
		from.Unix(), to.Unix(), url.QueryEscape(f.APIKey))

	var result finnhubCandles
	if err := f.getJSON(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}
	if result.Status != "ok" {
		return nil, fmt.Errorf("fetch candles: status %q for %q", result.Status, symbol)
	}
	if len(result.Timestamps) == 0 {
		return nil, fmt.Errorf("fetch candles: empty series for %q", symbol)
	}
	n := len(result.Timestamps)
	if len(result.Opens) != n || len(result.Highs) != n || len(result.Lows) != n ||
		len(result.Closes) != n || len(result.Volumes) != n {
		return nil, fmt.Errorf("fetch candles: malformed series for %q", symbol)
	}

	candles := make([]model.Candle, 0, len(result.Timestamps))
	for i, ts := range result.Timestamps {
		candles = append(candles, model.Candle{
			Timestamp: ts * 1000,
			Open:      result.Opens[i],
			High:      result.Highs[i],
			Low:       result.Lows[i],
			Close:     result.Closes[i],
			Volume:    int64(result.Volumes[i]),
		})
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].Timestamp < candles[j].Timestamp })
	return candles, nil
}

func (f *FinnhubFetcher) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
