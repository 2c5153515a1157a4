package quote

import (
	"context"
	"time"

	"alphatrade/internal/model"
)

// Fetcher defines the interface to an external market data source. Any error
// it returns is treated by the Provider as "source unavailable"; it is never
// surfaced to callers.
type Fetcher interface {
	GetQuote(ctx context.Context, symbol string) (float64, error)
	GetCandles(ctx context.Context, symbol, resolution string, from, to time.Time) ([]model.Candle, error)
	Name() string
}
