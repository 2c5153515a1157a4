package store

import (
	"path/filepath"
	"testing"

	"alphatrade/internal/model"
)

// Both implementations must satisfy the same contract.
func openStores(t *testing.T) map[string]Store {
	t.Helper()
	sqliteStore, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { sqliteStore.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqliteStore,
	}
}

func testTrades() []model.Trade {
	return []model.Trade{
		{ID: "t1", Symbol: "AAPL", Side: model.SideBuy, Quantity: 100, Price: 140.00, Total: 14000, Timestamp: 1000},
		{ID: "t2", Symbol: "TSLA", Side: model.SideBuy, Quantity: 50, Price: 210.50, Total: 10525, Timestamp: 2000},
		{ID: "t3", Symbol: "AAPL", Side: model.SideSell, Quantity: 40, Price: 155.40, Total: 6216, Timestamp: 3000},
	}
}

func TestTradeLog_AppendAndLoadNewestFirst(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			for _, tr := range testTrades() {
				if err := s.AppendTrade(tr); err != nil {
					t.Fatalf("append: %v", err)
				}
			}
			trades, err := s.LoadTrades()
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(trades) != 3 {
				t.Fatalf("expected 3 trades, got %d", len(trades))
			}
			for i, wantID := range []string{"t3", "t2", "t1"} {
				if trades[i].ID != wantID {
					t.Errorf("position %d: expected %s, got %s", i, wantID, trades[i].ID)
				}
			}
			if trades[0].Total != 6216 || trades[0].Side != model.SideSell {
				t.Errorf("trade fields not round-tripped: %+v", trades[0])
			}
		})
	}
}

func TestHoldings_SaveReplacesAndKeepsOrder(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			first := []model.Holding{
				{Symbol: "AAPL", Quantity: 100, AvgPrice: 140, Kind: model.KindStock},
				{Symbol: "BTC", Quantity: 2, AvgPrice: 48000, Kind: model.KindCrypto},
			}
			if err := s.SaveHoldings(first); err != nil {
				t.Fatalf("save: %v", err)
			}

			second := []model.Holding{
				{Symbol: "TSLA", Quantity: 50, AvgPrice: 210.50, Kind: model.KindStock},
				{Symbol: "AAPL", Quantity: 150, AvgPrice: 145.1333, Kind: model.KindStock},
			}
			if err := s.SaveHoldings(second); err != nil {
				t.Fatalf("replace: %v", err)
			}

			loaded, err := s.LoadHoldings()
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(loaded) != 2 {
				t.Fatalf("expected 2 holdings, got %d", len(loaded))
			}
			if loaded[0].Symbol != "TSLA" || loaded[1].Symbol != "AAPL" {
				t.Errorf("insertion order not preserved: %+v", loaded)
			}
			if loaded[1].Quantity != 150 || loaded[1].Kind != model.KindStock {
				t.Errorf("holding fields not round-tripped: %+v", loaded[1])
			}
		})
	}
}

func TestHoldings_EmptySaveClears(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.SaveHoldings([]model.Holding{{Symbol: "AAPL", Quantity: 1, AvgPrice: 1, Kind: model.KindStock}}); err != nil {
				t.Fatal(err)
			}
			if err := s.SaveHoldings(nil); err != nil {
				t.Fatal(err)
			}
			loaded, err := s.LoadHoldings()
			if err != nil {
				t.Fatal(err)
			}
			if len(loaded) != 0 {
				t.Errorf("expected cleared holdings, got %+v", loaded)
			}
		})
	}
}

func TestSnapshots_NewestFirstWithLimit(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			for i := 1; i <= 5; i++ {
				if err := s.RecordSnapshot(Snapshot{Timestamp: int64(i * 1000), TotalValue: float64(i) * 100}); err != nil {
					t.Fatalf("record: %v", err)
				}
			}
			snaps, err := s.ListSnapshots(3)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(snaps) != 3 {
				t.Fatalf("expected 3 snapshots, got %d", len(snaps))
			}
			if snaps[0].Timestamp != 5000 || snaps[2].Timestamp != 3000 {
				t.Errorf("unexpected snapshot order: %+v", snaps)
			}
		})
	}
}
