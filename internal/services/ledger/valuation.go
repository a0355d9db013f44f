package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/akashsuryawanshi04/invest-simulator/internal/domain"
)

// Valuation is a point-in-time portfolio summary at current quotes.
type Valuation struct {
	MarketValue   decimal.Decimal `json:"marketValue"`
	CostBasis     decimal.Decimal `json:"costBasis"`
	UnrealizedPnL decimal.Decimal `json:"unrealizedPnl"`
	TotalEquity   decimal.Decimal `json:"totalEquity"`
	Positions     int             `json:"positions"`
}

// Valuate prices every holding at the given quote table. A holding with no
// quote yet (before the first tick) is valued at its exact cost basis, which
// contributes zero unrealized P&L.
func Valuate(state domain.AccountState, quotes map[string]domain.Quote) Valuation {
	v := Valuation{
		MarketValue:   decimal.Zero,
		CostBasis:     decimal.Zero,
		UnrealizedPnL: decimal.Zero,
		Positions:     len(state.Holdings),
	}

	for id, holding := range state.Holdings {
		value := holding.CostBasis
		if q, ok := quotes[id]; ok {
			value = holding.MarketValue(q.Price)
		}
		v.MarketValue = v.MarketValue.Add(value)
		v.CostBasis = v.CostBasis.Add(holding.CostBasis)
	}

	v.UnrealizedPnL = v.MarketValue.Sub(v.CostBasis)
	v.TotalEquity = state.CashBalance.Add(v.MarketValue)
	return v
}
