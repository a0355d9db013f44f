package domain

import "github.com/shopspring/decimal"

// Quote is the current simulated market price of one instrument.
// ChangePct is measured against the instrument's reference price, not the
// previous tick, so it reads as "change since session start".
type Quote struct {
	Price     decimal.Decimal `json:"price"`
	ChangePct decimal.Decimal `json:"changePct"`
}
