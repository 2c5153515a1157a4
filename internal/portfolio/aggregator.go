package portfolio

import "alphatrade/internal/model"

// Summarize reduces a holdings set into its cost-basis summary: total value
// at acquisition cost and a per-holding allocation breakdown in insertion
// order. Market prices are deliberately not consulted here.
func Summarize(holdings []model.Holding) model.Summary {
	summary := model.Summary{Allocation: make([]model.Allocation, 0, len(holdings))}
	for _, h := range holdings {
		value := float64(h.Quantity) * h.AvgPrice
		summary.TotalValue += value
		summary.Allocation = append(summary.Allocation, model.Allocation{
			Symbol: h.Symbol,
			Kind:   h.Kind,
			Value:  value,
		})
	}
	return summary
}
