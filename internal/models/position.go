package models

import "time"

// Position is a trade candidate under tracking in a watchlist.
// ExpirationDate is fixed when the position is added and never
// recomputed; remaining days to expiry are derived from it at
// evaluation time. Positions are read-only except for deletion.
type Position struct {
	TradeCandidate
	AddedDate      time.Time
	ExpirationDate time.Time
}

// NewPosition creates a position from a candidate, freezing the
// expiration date at addedDate + DaysToExpiry.
func NewPosition(c TradeCandidate, addedDate time.Time) Position {
	return Position{
		TradeCandidate: c,
		AddedDate:      addedDate,
		ExpirationDate: addedDate.AddDate(0, 0, c.DaysToExpiry),
	}
}

// PositionStatus represents the lifecycle state of a tracked position.
type PositionStatus string

const (
	StatusActive  PositionStatus = "ACTIVE"
	StatusWin     PositionStatus = "WIN"
	StatusLoss    PositionStatus = "LOSS"
	StatusUnknown PositionStatus = "UNKNOWN" // current spot unavailable
)

// Terminal reports whether the status is a final win/loss classification.
func (s PositionStatus) Terminal() bool {
	return s == StatusWin || s == StatusLoss
}

// Snapshot is an ephemeral valuation of a position. Recomputed on every
// display; never persisted. PnL is nil when the status is Unknown.
type Snapshot struct {
	Position     Position
	Spot         float64
	RemainingDTE int
	PnL          *float64
	Status       PositionStatus
}

// WatchlistKey identifies a watchlist by owner and name.
type WatchlistKey struct {
	User string
	List string
}
