// Package service owns the holdings projection and the trade log for one
// user session and serializes every update, so the ledger fold invariant
// holds regardless of how many HTTP requests arrive concurrently.
package service

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"alphatrade/internal/ledger"
	"alphatrade/internal/model"
	"alphatrade/internal/portfolio"
	"alphatrade/internal/store"
)

// TradeRequest is an order to execute.
type TradeRequest struct {
	Symbol   string
	Side     model.Side
	Quantity int64
	Price    float64
}

// Portfolio is the single writer for one holdings set and its trade log.
type Portfolio struct {
	mu       sync.Mutex
	store    store.Store
	holdings []model.Holding
}

// NewPortfolio loads the holdings projection from the store and verifies it
// against a fold of the trade log. A missing or stale projection is replaced
// by the fold and written back, so the log is always the source of truth.
func NewPortfolio(st store.Store) (*Portfolio, error) {
	holdings, err := st.LoadHoldings()
	if err != nil {
		return nil, fmt.Errorf("load holdings: %w", err)
	}
	trades, err := st.LoadTrades()
	if err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}
	rebuilt, err := ledger.Rebuild(trades)
	if err != nil {
		return nil, fmt.Errorf("rebuild holdings: %w", err)
	}

	if !holdingsEqual(holdings, rebuilt) {
		if err := st.SaveHoldings(rebuilt); err != nil {
			return nil, fmt.Errorf("save rebuilt holdings: %w", err)
		}
		if len(holdings) > 0 {
			log.Printf("[WARN] stored holdings diverged from trade log, rebuilt from %d trades", len(trades))
		} else {
			log.Printf("[INFO] holdings rebuilt from %d logged trades", len(trades))
		}
		holdings = rebuilt
	}

	return &Portfolio{store: st, holdings: holdings}, nil
}

func holdingsEqual(a, b []model.Holding) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ExecuteTrade builds the trade, appends it to the log, applies the ledger
// step, and persists the updated projection. Validation failures leave both
// the log and the holdings untouched. Once the trade is in the log it counts
// as executed even if the projection write fails.
func (p *Portfolio) ExecuteTrade(req TradeRequest) (model.Trade, error) {
	trade := model.Trade{
		ID:        uuid.NewString(),
		Symbol:    strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Side:      req.Side,
		Quantity:  req.Quantity,
		Price:     req.Price,
		Total:     float64(req.Quantity) * req.Price,
		Timestamp: time.Now().UnixMilli(),
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	updated, err := ledger.Apply(p.holdings, trade)
	if err != nil {
		return model.Trade{}, err
	}
	if err := p.store.AppendTrade(trade); err != nil {
		return model.Trade{}, fmt.Errorf("append trade: %w", err)
	}
	if err := p.store.SaveHoldings(updated); err != nil {
		// The trade is already durable in the log. The in-memory fold stays
		// authoritative; the stored projection is repaired from the log at
		// the next startup.
		log.Printf("[WARN] save holdings: %v", err)
	}
	p.holdings = updated

	log.Printf("[INFO] trade executed: %s %d %s @ %.2f", trade.Side, trade.Quantity, trade.Symbol, trade.Price)
	return trade, nil
}

// History returns the full trade log, newest first.
func (p *Portfolio) History() ([]model.Trade, error) {
	return p.store.LoadTrades()
}

// Holdings returns a copy of the current holdings set.
func (p *Portfolio) Holdings() []model.Holding {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.Holding, len(p.holdings))
	copy(out, p.holdings)
	return out
}

// Summary returns the cost-basis summary of the current holdings.
func (p *Portfolio) Summary() model.Summary {
	return portfolio.Summarize(p.Holdings())
}

// Rebuild folds the persisted trade log from scratch. The result must equal
// the incrementally maintained holdings; exposed for consistency checks.
func (p *Portfolio) Rebuild() ([]model.Holding, error) {
	trades, err := p.store.LoadTrades()
	if err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}
	return ledger.Rebuild(trades)
}

// TakeSnapshot records the current portfolio valuation.
func (p *Portfolio) TakeSnapshot() (store.Snapshot, error) {
	snap := store.Snapshot{
		Timestamp:  time.Now().UnixMilli(),
		TotalValue: p.Summary().TotalValue,
	}
	if err := p.store.RecordSnapshot(snap); err != nil {
		return store.Snapshot{}, fmt.Errorf("record snapshot: %w", err)
	}
	return snap, nil
}

// Snapshots returns up to limit recorded valuations, newest first.
func (p *Portfolio) Snapshots(limit int) ([]store.Snapshot, error) {
	return p.store.ListSnapshots(limit)
}

// SeedDemoTrades loads the demo trade history into an empty store so a fresh
// install has something to show. A store with any trades or holdings is left
// alone.
func (p *Portfolio) SeedDemoTrades() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	existing, err := p.store.LoadTrades()
	if err != nil {
		return fmt.Errorf("load trades: %w", err)
	}
	if len(existing) > 0 || len(p.holdings) > 0 {
		return nil
	}

	now := time.Now()
	demo := []model.Trade{
		{ID: uuid.NewString(), Symbol: "AAPL", Side: model.SideBuy, Quantity: 100, Price: 140.00, Total: 14000, Timestamp: now.AddDate(0, 0, -10).UnixMilli()},
		{ID: uuid.NewString(), Symbol: "TSLA", Side: model.SideBuy, Quantity: 50, Price: 210.50, Total: 10525, Timestamp: now.AddDate(0, 0, -5).UnixMilli()},
		{ID: uuid.NewString(), Symbol: "AAPL", Side: model.SideBuy, Quantity: 50, Price: 155.40, Total: 7770, Timestamp: now.AddDate(0, 0, -2).UnixMilli()},
	}

	holdings := p.holdings
	for _, trade := range demo {
		holdings, err = ledger.Apply(holdings, trade)
		if err != nil {
			return fmt.Errorf("apply demo trade: %w", err)
		}
		if err := p.store.AppendTrade(trade); err != nil {
			return fmt.Errorf("append demo trade: %w", err)
		}
	}
	if err := p.store.SaveHoldings(holdings); err != nil {
		return fmt.Errorf("save demo holdings: %w", err)
	}
	p.holdings = holdings

	log.Printf("[INFO] seeded %d demo trades", len(demo))
	return nil
}
