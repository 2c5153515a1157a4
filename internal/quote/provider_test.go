package quote

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"alphatrade/internal/candlegen"
	"alphatrade/internal/model"
)

// stubFetcher returns canned data or a canned error.
type stubFetcher struct {
	candles  []model.Candle
	spot     float64
	quoteErr error
	fetchErr error

	candleCalls int
	quoteCalls  int
}

func (s *stubFetcher) Name() string { return "stub" }

func (s *stubFetcher) GetQuote(_ context.Context, _ string) (float64, error) {
	s.quoteCalls++
	if s.quoteErr != nil {
		return 0, s.quoteErr
	}
	return s.spot, nil
}

func (s *stubFetcher) GetCandles(_ context.Context, _, _ string, _, _ time.Time) ([]model.Candle, error) {
	s.candleCalls++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.candles, nil
}

func newTestProvider(fetcher Fetcher) *Provider {
	gen := candlegen.New(rand.New(rand.NewSource(42)))
	return New(fetcher, gen, rand.New(rand.NewSource(7)))
}

func liveCandles() []model.Candle {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	return []model.Candle{
		{Timestamp: base, Open: 100, High: 105, Low: 99, Close: 104, Volume: 1000},
		{Timestamp: base + 86400000, Open: 104, High: 110, Low: 103, Close: 108, Volume: 1200},
	}
}

func TestFetch_SyntheticPointCounts(t *testing.T) {
	tests := []struct {
		r      Range
		points int
	}{
		{Range1D, 24},
		{Range1M, 30},
		{Range1Y, 52},
	}
	for _, tc := range tests {
		p := newTestProvider(nil)
		data, err := p.Fetch(context.Background(), "AAPL", tc.r, false)
		if err != nil {
			t.Fatalf("%s: %v", tc.r, err)
		}
		if len(data.Candles) != tc.points {
			t.Errorf("%s: expected %d candles, got %d", tc.r, tc.points, len(data.Candles))
		}
		last := data.Candles[len(data.Candles)-1]
		if data.CurrentPrice != last.Close {
			t.Errorf("%s: latest price %.2f should be last close %.2f", tc.r, data.CurrentPrice, last.Close)
		}
	}
}

func TestFetch_SyntheticBasePriceRange(t *testing.T) {
	p := newTestProvider(nil)
	data, err := p.Fetch(context.Background(), "AAPL", Range1M, false)
	if err != nil {
		t.Fatal(err)
	}
	open := data.Candles[0].Open
	if open < 150 || open >= 200*1.02 {
		t.Errorf("synthetic base price %.2f outside expected band", open)
	}
}

func TestFetch_SyntheticRemembersLastPrice(t *testing.T) {
	p := newTestProvider(nil)
	first, err := p.Fetch(context.Background(), "AAPL", Range1M, false)
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Fetch(context.Background(), "AAPL", Range1D, false)
	if err != nil {
		t.Fatal(err)
	}
	if second.Candles[0].Open != first.CurrentPrice {
		t.Errorf("second fetch should continue from %.2f, started at %.2f",
			first.CurrentPrice, second.Candles[0].Open)
	}
}

func TestFetch_LivePreferred(t *testing.T) {
	fetcher := &stubFetcher{candles: liveCandles(), spot: 109.5}
	p := newTestProvider(fetcher)

	data, err := p.Fetch(context.Background(), "AAPL", Range1M, true)
	if err != nil {
		t.Fatal(err)
	}
	if fetcher.candleCalls != 1 {
		t.Errorf("expected 1 candle call, got %d", fetcher.candleCalls)
	}
	if len(data.Candles) != 2 {
		t.Fatalf("expected the live series, got %d candles", len(data.Candles))
	}
	if data.CurrentPrice != 109.5 {
		t.Errorf("expected live spot 109.5, got %.2f", data.CurrentPrice)
	}
}

func TestFetch_LiveQuoteFailureUsesLastClose(t *testing.T) {
	fetcher := &stubFetcher{candles: liveCandles(), quoteErr: errors.New("rate limited")}
	p := newTestProvider(fetcher)

	data, err := p.Fetch(context.Background(), "AAPL", Range1M, true)
	if err != nil {
		t.Fatal(err)
	}
	if data.CurrentPrice != 108 {
		t.Errorf("expected last close 108, got %.2f", data.CurrentPrice)
	}
}

func TestFetch_LiveFailureFallsBack(t *testing.T) {
	tests := []struct {
		r      Range
		points int
	}{
		{Range1D, 24},
		{Range1M, 30},
		{Range1Y, 52},
	}
	for _, tc := range tests {
		fetcher := &stubFetcher{fetchErr: errors.New("connection refused")}
		p := newTestProvider(fetcher)

		data, err := p.Fetch(context.Background(), "AAPL", tc.r, true)
		if err != nil {
			t.Fatalf("%s: fallback must not surface the live error, got %v", tc.r, err)
		}
		if len(data.Candles) != tc.points {
			t.Errorf("%s: expected synthetic series of %d candles, got %d", tc.r, tc.points, len(data.Candles))
		}
	}
}

func TestFetch_NoFetcherIgnoresPreferLive(t *testing.T) {
	p := newTestProvider(nil)
	data, err := p.Fetch(context.Background(), "AAPL", Range1M, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Candles) != 30 {
		t.Errorf("expected synthetic series, got %d candles", len(data.Candles))
	}
}

func TestFetch_InvalidInput(t *testing.T) {
	p := newTestProvider(nil)

	if _, err := p.Fetch(context.Background(), "", Range1M, false); err == nil {
		t.Error("expected error for empty symbol")
	}

	_, err := p.Fetch(context.Background(), "AAPL", Range("5Y"), false)
	var ve *model.ValidationError
	if !errors.As(err, &ve) || ve.Field != "range" {
		t.Errorf("expected range ValidationError, got %v", err)
	}
}

func TestFetch_ChangeFromPreviousClose(t *testing.T) {
	fetcher := &stubFetcher{candles: liveCandles(), spot: 110}
	p := newTestProvider(fetcher)

	data, err := p.Fetch(context.Background(), "AAPL", Range1M, true)
	if err != nil {
		t.Fatal(err)
	}
	// Previous close is 104; spot 110.
	if data.Change != 6 {
		t.Errorf("expected change 6, got %.2f", data.Change)
	}
}
