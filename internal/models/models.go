// Package models provides domain models for the put screener.
package models

import "time"

// OptionSide represents the side of an option contract.
type OptionSide string

const (
	SidePut  OptionSide = "put"
	SideCall OptionSide = "call"
)

// OptionQuote represents a single option contract quote as retrieved
// from the market data provider. Immutable once retrieved.
type OptionQuote struct {
	Symbol           string // OCC contract identifier, e.g. AAPL250919P00180000
	UnderlyingSymbol string
	Side             OptionSide
	Strike           float64
	Bid              float64 // premium per share
	DaysToExpiry     int
	ImpliedVol       float64
	InTheMoney       bool
}

// Quote represents a stock quote.
type Quote struct {
	Symbol    string
	Mid       float64
	UpdatedAt time.Time
}

// EarningsEvent represents the next scheduled earnings report for a symbol.
type EarningsEvent struct {
	Symbol     string
	ReportDate time.Time
}
