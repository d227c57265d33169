package models

import "math"

// TradeCandidate combines an option quote with the underlying spot price
// and the metrics derived from them at scan time. Value object; never
// mutated after creation.
type TradeCandidate struct {
	OptionQuote
	Spot float64 // underlying spot price at scan time
	ROI  float64 // bid*100/strike, percent-like, rounded to 3 decimals
	COP  float64 // chance of profit, 0-1
}

// NewTradeCandidate derives a candidate from a quote, its underlying spot
// price and the chance of profit computed by the pricing model.
func NewTradeCandidate(q OptionQuote, spot, cop float64) TradeCandidate {
	return TradeCandidate{
		OptionQuote: q,
		Spot:        spot,
		ROI:         RoundROI(q.Bid * 100 / q.Strike),
		COP:         cop,
	}
}

// Score is the composite ranking value, ROI x COP. It is always computed
// from its inputs so it cannot drift out of sync with them.
func (c TradeCandidate) Score() float64 {
	return c.ROI * c.COP
}

// RoundROI rounds an ROI value to 3 decimal places.
func RoundROI(roi float64) float64 {
	return math.Round(roi*1000) / 1000
}
