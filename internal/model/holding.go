package model

// AssetKind classifies a holding for presentation. It does not affect
// accounting math.
type AssetKind string

const (
	KindStock      AssetKind = "Stock"
	KindCash       AssetKind = "Cash"
	KindCrypto     AssetKind = "Crypto"
	KindRealEstate AssetKind = "RealEstate"
)

// Holding is the current position in one symbol, derived from the trade log.
// A stored holding always has Quantity > 0; a position driven to zero is
// removed from the set entirely.
type Holding struct {
	Symbol   string    `json:"symbol"`
	Quantity int64     `json:"quantity"`
	AvgPrice float64   `json:"avgPrice"`
	Kind     AssetKind `json:"kind"`
}

// Allocation is one slice of the portfolio value breakdown.
type Allocation struct {
	Symbol string    `json:"symbol"`
	Kind   AssetKind `json:"kind"`
	Value  float64   `json:"value"`
}

// Summary is the cost-basis valuation of a holdings set. TotalValue does not
// incorporate live quotes.
type Summary struct {
	TotalValue float64      `json:"totalValue"`
	Allocation []Allocation `json:"allocation"`
}
