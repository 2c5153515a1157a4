package quote

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"alphatrade/internal/candlegen"
	"alphatrade/internal/model"
)

// Range selects how far back a quote history request reaches.
type Range string

const (
	Range1D Range = "1D"
	Range1M Range = "1M"
	Range1Y Range = "1Y"
)

// ParseRange converts a wire string into a Range.
func ParseRange(s string) (Range, error) {
	switch Range(s) {
	case Range1D, Range1M, Range1Y:
		return Range(s), nil
	default:
		return "", &model.ValidationError{Field: "range", Reason: fmt.Sprintf("must be 1D, 1M or 1Y, got %q", s)}
	}
}

// points is the synthetic series length for a range.
func (r Range) points() int {
	switch r {
	case Range1D:
		return 24
	case Range1Y:
		return 52
	default:
		return 30
	}
}

// resolution maps a range to the external source's candle resolution.
func (r Range) resolution() string {
	switch r {
	case Range1D:
		return "30"
	case Range1Y:
		return "W"
	default:
		return "D"
	}
}

// window is how far back from now the live request reaches.
func (r Range) window() time.Duration {
	switch r {
	case Range1D:
		return 24 * time.Hour
	case Range1Y:
		return 365 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

// Provider serves quote history, preferring the external source when asked to
// and falling back to synthetic generation whenever the source fails. A live
// failure is never fatal to the caller.
type Provider struct {
	fetcher Fetcher // nil when no live source is configured
	gen     *candlegen.Generator
	rng     *rand.Rand

	mu        sync.Mutex
	lastPrice map[string]float64
}

// New creates a Provider. fetcher may be nil, in which case every fetch is
// served synthetically.
func New(fetcher Fetcher, gen *candlegen.Generator, rng *rand.Rand) *Provider {
	return &Provider{
		fetcher:   fetcher,
		gen:       gen,
		rng:       rng,
		lastPrice: make(map[string]float64),
	}
}

// Fetch returns candle history and the latest price for a symbol. Candles are
// always chronologically ascending. The only error conditions are malformed
// inputs; live-source failures fall back to the synthetic path.
func (p *Provider) Fetch(ctx context.Context, symbol string, r Range, preferLive bool) (*model.MarketData, error) {
	if symbol == "" {
		return nil, &model.ValidationError{Field: "symbol", Reason: "must not be empty"}
	}
	if _, err := ParseRange(string(r)); err != nil {
		return nil, err
	}

	if preferLive && p.fetcher != nil {
		data, err := p.fetchLive(ctx, symbol, r)
		if err == nil {
			p.remember(symbol, data.CurrentPrice)
			return data, nil
		}
		log.Printf("[WARN] live fetch of %s via %s failed: %v, falling back to synthetic data",
			symbol, p.fetcher.Name(), err)
	}

	return p.synthetic(symbol, r)
}

func (p *Provider) fetchLive(ctx context.Context, symbol string, r Range) (*model.MarketData, error) {
	now := time.Now()
	candles, err := p.fetcher.GetCandles(ctx, symbol, r.resolution(), now.Add(-r.window()), now)
	if err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("empty candle series for %q", symbol)
	}

	// Prefer the live spot quote; a failed quote is not fatal as long as the
	// series itself arrived.
	price := candles[len(candles)-1].Close
	if spot, err := p.fetcher.GetQuote(ctx, symbol); err == nil && spot > 0 {
		price = spot
	}

	return newMarketData(symbol, price, candles), nil
}

// synthetic holds the lock for the whole generation so the shared random
// sources are never hit by two requests at once.
func (p *Provider) synthetic(symbol string, r Range) (*model.MarketData, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	base := p.lastPrice[symbol]
	if base <= 0 {
		base = 150 + p.rng.Float64()*50
	}

	candles, err := p.gen.Generate(r.points(), base)
	if err != nil {
		return nil, err
	}

	price := candles[len(candles)-1].Close
	p.lastPrice[symbol] = price
	return newMarketData(symbol, price, candles), nil
}

func (p *Provider) remember(symbol string, price float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastPrice[symbol] = price
}

// newMarketData computes change against the previous close when the series
// has one.
func newMarketData(symbol string, price float64, candles []model.Candle) *model.MarketData {
	data := &model.MarketData{
		Symbol:       symbol,
		CurrentPrice: price,
		Candles:      candles,
	}
	if len(candles) >= 2 {
		prev := candles[len(candles)-2].Close
		if prev > 0 {
			data.Change = price - prev
			data.ChangePercent = (price - prev) / prev * 100
		}
	}
	return data
}
