package domain

import "github.com/shopspring/decimal"

// AccountState is the full ledger state of one virtual trading account.
// It is treated as an immutable value: every ledger transition produces a new
// state, so readers never observe a partially-applied trade.
//
// Transactions are ordered newest first. TotalInvested is a denormalized
// running sum of open cost bases and must exactly equal the sum of
// Holding.CostBasis over all holdings after every transition.
type AccountState struct {
	CashBalance   decimal.Decimal    `json:"cashBalance"`
	Holdings      map[string]Holding `json:"holdings"`
	Transactions  []Transaction      `json:"transactions"`
	Watchlist     []string           `json:"watchlist"`
	TotalInvested decimal.Decimal    `json:"totalInvested"`
}

// NewAccountState returns a fresh account funded with the given cash.
func NewAccountState(startingCash decimal.Decimal) AccountState {
	return AccountState{
		CashBalance:   startingCash,
		Holdings:      make(map[string]Holding),
		Transactions:  []Transaction{},
		Watchlist:     []string{},
		TotalInvested: decimal.Zero,
	}
}

// Clone returns a deep copy. Holdings and watchlist are copied; transaction
// records are immutable and shared.
func (s AccountState) Clone() AccountState {
	next := s
	next.Holdings = make(map[string]Holding, len(s.Holdings))
	for id, h := range s.Holdings {
		next.Holdings[id] = h
	}
	next.Transactions = make([]Transaction, len(s.Transactions))
	copy(next.Transactions, s.Transactions)
	next.Watchlist = make([]string, len(s.Watchlist))
	copy(next.Watchlist, s.Watchlist)
	return next
}

// Watching reports whether the instrument is on the watchlist.
func (s AccountState) Watching(instrumentID string) bool {
	for _, id := range s.Watchlist {
		if id == instrumentID {
			return true
		}
	}
	return false
}

// OpenCostBasis sums the exact cost bases of all holdings. It is the
// authoritative figure TotalInvested must agree with.
func (s AccountState) OpenCostBasis() decimal.Decimal {
	total := decimal.Zero
	for _, h := range s.Holdings {
		total = total.Add(h.CostBasis)
	}
	return total
}
