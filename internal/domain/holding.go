package domain

import "github.com/shopspring/decimal"

// Holding is an open position in one instrument. CostBasis is the exact cash
// spent on the open quantity and is the authoritative accounting figure;
// AverageCost is derived from it for display and can carry division rounding,
// so Quantity*AverageCost may differ from CostBasis in the last digits.
// Selling reduces Quantity and CostBasis pro rata but never touches
// AverageCost. A holding whose quantity reaches zero is removed from the
// account instead of being kept as a zero row.
type Holding struct {
	Quantity    decimal.Decimal `json:"quantity"`
	AverageCost decimal.Decimal `json:"averageCost"`
	CostBasis   decimal.Decimal `json:"costBasis"`
}

// MarketValue returns the holding value at the given price.
func (h Holding) MarketValue(price decimal.Decimal) decimal.Decimal {
	return h.Quantity.Mul(price)
}

// UnrealizedPnL returns the paper profit at the given price.
func (h Holding) UnrealizedPnL(price decimal.Decimal) decimal.Decimal {
	return h.MarketValue(price).Sub(h.CostBasis)
}
