package store

import (
	"sync"

	"alphatrade/internal/model"
)

// MemoryStore keeps everything in process memory. Used when no database is
// configured and throughout the tests.
type MemoryStore struct {
	mu        sync.RWMutex
	trades    []model.Trade // append order, oldest first
	holdings  []model.Holding
	snapshots []Snapshot
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) AppendTrade(trade model.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = append(s.trades, trade)
	return nil
}

func (s *MemoryStore) LoadTrades() ([]model.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Trade, 0, len(s.trades))
	for i := len(s.trades) - 1; i >= 0; i-- {
		out = append(out, s.trades[i])
	}
	return out, nil
}

func (s *MemoryStore) SaveHoldings(holdings []model.Holding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holdings = make([]model.Holding, len(holdings))
	copy(s.holdings, holdings)
	return nil
}

func (s *MemoryStore) LoadHoldings() ([]model.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Holding, len(s.holdings))
	copy(out, s.holdings)
	return out, nil
}

func (s *MemoryStore) RecordSnapshot(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snap)
	return nil
}

func (s *MemoryStore) ListSnapshots(limit int) ([]Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Snapshot, 0, limit)
	for i := len(s.snapshots) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.snapshots[i])
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
