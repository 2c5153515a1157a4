// Package ledger implements the position-accounting engine: a pure fold of
// trade events into a holdings set using weighted-average cost basis.
package ledger

import (
	"alphatrade/internal/model"
)

// Apply returns a new holdings set reflecting exactly one additional trade.
// The input set is never mutated. First acquisitions are appended, so the
// slice preserves insertion order.
//
// BUY re-averages the cost basis over the combined quantity. SELL reduces the
// quantity without touching the cost basis; a sell that drives the quantity
// to zero or below removes the holding entirely (over-sells clamp to a closed
// position, short positions are not tracked). Selling an untracked symbol is
// a no-op. These permissive sell rules are deliberate policy, not missing
// validation.
func Apply(holdings []model.Holding, trade model.Trade) ([]model.Holding, error) {
	if err := validate(trade); err != nil {
		return nil, err
	}

	out := make([]model.Holding, len(holdings))
	copy(out, holdings)

	idx := -1
	for i, h := range out {
		if h.Symbol == trade.Symbol {
			idx = i
			break
		}
	}

	switch trade.Side {
	case model.SideBuy:
		if idx < 0 {
			return append(out, model.Holding{
				Symbol:   trade.Symbol,
				Quantity: trade.Quantity,
				AvgPrice: trade.Price,
				Kind:     model.KindStock,
			}), nil
		}
		h := out[idx]
		newQuantity := h.Quantity + trade.Quantity
		out[idx].AvgPrice = (float64(h.Quantity)*h.AvgPrice + float64(trade.Quantity)*trade.Price) / float64(newQuantity)
		out[idx].Quantity = newQuantity

	case model.SideSell:
		if idx < 0 {
			return out, nil
		}
		newQuantity := out[idx].Quantity - trade.Quantity
		if newQuantity <= 0 {
			return append(out[:idx], out[idx+1:]...), nil
		}
		out[idx].Quantity = newQuantity
	}

	return out, nil
}

// Rebuild derives the holdings set by folding the entire trade log from an
// empty set. Trades must be given newest first, the order stores serve them
// in; the fold walks back to front so the oldest trade applies first.
// Timestamps are not consulted, so trades sharing a millisecond keep their
// log order. The incrementally maintained projection must always equal this
// fold.
func Rebuild(trades []model.Trade) ([]model.Holding, error) {
	var holdings []model.Holding
	for i := len(trades) - 1; i >= 0; i-- {
		next, err := Apply(holdings, trades[i])
		if err != nil {
			return nil, err
		}
		holdings = next
	}
	return holdings, nil
}

// validate rejects malformed trades. Economically degenerate trades
// (over-sell, zero or negative price) pass through untouched; validation here
// covers input shape only.
func validate(trade model.Trade) error {
	if trade.Symbol == "" {
		return &model.ValidationError{Field: "symbol", Reason: "must not be empty"}
	}
	if trade.Quantity <= 0 {
		return &model.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if trade.Side != model.SideBuy && trade.Side != model.SideSell {
		return &model.ValidationError{Field: "side", Reason: "must be BUY or SELL"}
	}
	return nil
}
