package model

import "fmt"

// Side indicates the direction of an executed order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide converts a wire string into a Side.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	default:
		return "", &ValidationError{Field: "side", Reason: fmt.Sprintf("must be BUY or SELL, got %q", s)}
	}
}

// Trade is one executed order. Trades are immutable once created and are
// appended to the trade log exactly once. Total is always Quantity * Price.
type Trade struct {
	ID        string  `json:"id"`
	Symbol    string  `json:"symbol"`
	Side      Side    `json:"side"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
	Total     float64 `json:"total"`
	Timestamp int64   `json:"timestamp"` // milliseconds since epoch
}
