package store

import "alphatrade/internal/model"

// Snapshot is one recorded portfolio valuation.
type Snapshot struct {
	Timestamp  int64   `json:"timestamp"` // milliseconds since epoch
	TotalValue float64 `json:"totalValue"`
}

// Store persists the append-only trade log, the holdings projection, and
// valuation snapshots. Implementations must be safe for concurrent use and
// provide read-your-writes within a session. The trade log is never mutated
// or deleted; holdings are a replaceable projection.
type Store interface {
	AppendTrade(trade model.Trade) error
	// LoadTrades returns the full trade log, newest first.
	LoadTrades() ([]model.Trade, error)
	// SaveHoldings replaces the stored holdings set, preserving order.
	SaveHoldings(holdings []model.Holding) error
	LoadHoldings() ([]model.Holding, error)
	RecordSnapshot(snap Snapshot) error
	// ListSnapshots returns up to limit snapshots, newest first.
	ListSnapshots(limit int) ([]Snapshot, error)
	Close() error
}
