// Package scanner turns option chains into filtered, ranked trade candidates.
package scanner

import (
	"time"

	"put-screener/internal/models"
	"put-screener/internal/pricing"
)

// Underlying is one scan input: a symbol, its spot price at scan time,
// and the option chain quotes retrieved for it.
type Underlying struct {
	Symbol string
	Spot   float64
	Quotes []models.OptionQuote
}

// Filters holds the candidate inclusion ranges. Bounds are inclusive on
// both ends.
type Filters struct {
	ROIMin float64
	ROIMax float64
	COPMin float64
	COPMax float64
}

// DefaultFilters returns the default scan filter ranges.
func DefaultFilters() Filters {
	return Filters{
		ROIMin: 0.20,
		ROIMax: 1.00,
		COPMin: 0.70,
		COPMax: 0.90,
	}
}

// Header carries per-underlying scan context for grouped display.
type Header struct {
	Symbol           string
	Spot             float64
	EarningsConflict bool
	EarningsDate     *time.Time
}

// Group is the candidates of one underlying together with its header.
// Candidates never move between groups; ranking reorders within a group
// only.
type Group struct {
	Header     Header
	Candidates []models.TradeCandidate
}

// Warning records a contract or underlying that was skipped during a
// scan. Warnings are collected, never raised: one malformed contract
// must not abort the rest of the batch.
type Warning struct {
	Symbol         string // underlying
	ContractSymbol string // empty for underlying-level warnings
	Err            error
}

// EarningsLookup resolves the next earnings date for a symbol. The
// second return is false when no earnings date is known.
type EarningsLookup func(symbol string) (time.Time, bool)

// Scanner applies the pricing model and filter ranges to option chains.
// It performs no I/O; all inputs are supplied by the caller.
type Scanner struct {
	filters      Filters
	expiryWindow int // days used for the pre-scan earnings conflict check
}

// New creates a scanner with the given filter ranges and earnings
// conflict window in days.
func New(filters Filters, expiryWindowDays int) *Scanner {
	return &Scanner{filters: filters, expiryWindow: expiryWindowDays}
}

// Scan evaluates every contract of every underlying, keeping candidates
// whose ROI and COP fall inside the filter ranges. Contracts the pricing
// model rejects are skipped and reported as warnings. The returned groups
// preserve the input order of underlyings.
func (s *Scanner) Scan(underlyings []Underlying, earnings EarningsLookup, now time.Time) ([]Group, []Warning) {
	groups := make([]Group, 0, len(underlyings))
	var warnings []Warning

	for _, u := range underlyings {
		group := Group{Header: s.buildHeader(u, earnings, now)}

		for _, q := range u.Quotes {
			cop, err := pricing.ProbabilityOfProfit(u.Spot, q.Strike, q.DaysToExpiry, q.ImpliedVol)
			if err != nil {
				// Data-quality failure on a single contract; keep scanning.
				warnings = append(warnings, Warning{
					Symbol:         u.Symbol,
					ContractSymbol: q.Symbol,
					Err:            err,
				})
				continue
			}

			cand := models.NewTradeCandidate(q, u.Spot, cop)
			if s.include(cand) {
				group.Candidates = append(group.Candidates, cand)
			}
		}

		groups = append(groups, group)
	}

	return groups, warnings
}

// include applies the ROI and COP ranges, inclusive at both boundaries.
func (s *Scanner) include(c models.TradeCandidate) bool {
	f := s.filters
	return c.ROI >= f.ROIMin && c.ROI <= f.ROIMax &&
		c.COP >= f.COPMin && c.COP <= f.COPMax
}

// buildHeader resolves the earnings conflict flag for an underlying:
// true iff the next earnings date falls on or before now plus the
// configured expiry window.
func (s *Scanner) buildHeader(u Underlying, earnings EarningsLookup, now time.Time) Header {
	h := Header{Symbol: u.Symbol, Spot: u.Spot}
	if earnings == nil {
		return h
	}
	date, ok := earnings(u.Symbol)
	if !ok {
		return h
	}
	h.EarningsDate = &date
	cutoff := now.AddDate(0, 0, s.expiryWindow)
	h.EarningsConflict = !date.After(cutoff)
	return h
}
