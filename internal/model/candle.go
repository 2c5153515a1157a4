package model

// Candle represents a single OHLCV bar. Timestamp is milliseconds since epoch.
type Candle struct {
	Timestamp int64   `json:"t"`
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    int64   `json:"v"`
}

// MarketData bundles the quote history for one symbol with its latest price.
type MarketData struct {
	Symbol        string   `json:"symbol"`
	CurrentPrice  float64  `json:"currentPrice"`
	Change        float64  `json:"change"`
	ChangePercent float64  `json:"changePercent"`
	Candles       []Candle `json:"candles"`
}
