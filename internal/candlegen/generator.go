package candlegen

import (
	"math"
	"math/rand"
	"time"

	"alphatrade/internal/model"
)

// Volatility is the per-step price volatility as a fraction of the current price.
const Volatility = 0.02

// Generator produces synthetic OHLCV series via a bounded random walk.
// The random source is injected so generation is deterministic under test.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

// New creates a Generator using the given random source.
func New(rng *rand.Rand) *Generator {
	return &Generator{rng: rng, now: time.Now}
}

// Generate produces count candles walking forward from startPrice, one
// calendar day apart, chronologically ascending, with the last candle at now.
// Prices are rounded to 2 decimal places and the walk carries the rounded
// close so the series never drifts beyond displayed precision.
func (g *Generator) Generate(count int, startPrice float64) ([]model.Candle, error) {
	if count <= 0 {
		return nil, &model.ValidationError{Field: "count", Reason: "must be positive"}
	}
	if startPrice <= 0 {
		return nil, &model.ValidationError{Field: "startPrice", Reason: "must be positive"}
	}

	now := g.now()
	candles := make([]model.Candle, 0, count)
	current := startPrice

	for i := count - 1; i >= 0; i-- {
		volatility := current * Volatility
		change := (g.rng.Float64() - 0.5) * volatility

		open := current
		close := current + change
		high := math.Max(open, close) + g.rng.Float64()*volatility*0.5
		low := math.Min(open, close) - g.rng.Float64()*volatility*0.5
		volume := int64(g.rng.Intn(1000000)) + 500000

		c := model.Candle{
			Timestamp: now.AddDate(0, 0, -i).UnixMilli(),
			Open:      round2(open),
			High:      round2(high),
			Low:       round2(low),
			Close:     round2(close),
			Volume:    volume,
		}
		candles = append(candles, c)
		current = c.Close
	}
	return candles, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
