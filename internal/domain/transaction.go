package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind side of an executed trade.
type TransactionKind string

const (
	// TransactionBuy adds to a position.
	TransactionBuy TransactionKind = "BUY"
	// TransactionSell reduces or closes a position.
	TransactionSell TransactionKind = "SELL"
)

// String returns the string representation.
func (k TransactionKind) String() string {
	return string(k)
}

// IsValid checks if the TransactionKind value is valid.
func (k TransactionKind) IsValid() bool {
	return k == TransactionBuy || k == TransactionSell
}

// Transaction is an immutable record of one executed trade.
// RealizedPnL is set only on sells: gross amount minus the cost basis removed
// at the average cost in effect when the sell executed.
type Transaction struct {
	ID           string           `json:"id"`
	Kind         TransactionKind  `json:"kind"`
	InstrumentID string           `json:"instrumentId"`
	Quantity     decimal.Decimal  `json:"quantity"`
	FillPrice    decimal.Decimal  `json:"fillPrice"`
	GrossAmount  decimal.Decimal  `json:"grossAmount"`
	RealizedPnL  *decimal.Decimal `json:"realizedPnl,omitempty"`
	Timestamp    time.Time        `json:"timestamp"`
}
