// Package domain defines the core data structures of the simulated brokerage.
package domain

import "github.com/shopspring/decimal"

// AssetClass groups instruments by market segment.
type AssetClass string

const (
	// AssetClassEquity exchange-listed stocks.
	AssetClassEquity AssetClass = "equity"
	// AssetClassCrypto cryptocurrency pairs.
	AssetClassCrypto AssetClass = "crypto"
)

// String returns the string representation.
func (c AssetClass) String() string {
	return string(c)
}

// IsValid checks if the AssetClass value is valid.
func (c AssetClass) IsValid() bool {
	return c == AssetClassEquity || c == AssetClassCrypto
}

// Instrument is an immutable catalog entry for a tradable asset.
// ReferencePrice is the price at catalog-load time; the price feed anchors
// percent-change calculation to it for the whole process lifetime.
type Instrument struct {
	ID                 string          `json:"id" yaml:"id"`
	Symbol             string          `json:"symbol" yaml:"symbol"`
	Name               string          `json:"name" yaml:"name"`
	Sector             string          `json:"sector" yaml:"sector"`
	Class              AssetClass      `json:"class" yaml:"class"`
	ReferencePrice     decimal.Decimal `json:"referencePrice" yaml:"reference_price"`
	ReferenceChangePct decimal.Decimal `json:"referenceChangePct" yaml:"reference_change_pct"`
}
