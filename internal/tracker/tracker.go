// Package tracker evaluates tracked positions to a win/loss outcome.
package tracker

import (
	"time"

	"put-screener/internal/models"
)

// ContractMultiplier is the share count of one standard option contract.
const ContractMultiplier = 100

// RemainingDTE returns the whole days left until the position's frozen
// expiration date, floored at zero.
func RemainingDTE(pos models.Position, today time.Time) int {
	days := int(pos.ExpirationDate.Sub(today).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Evaluate values a position against the current spot price. The
// transition out of Active happens the first time an evaluation observes
// zero remaining days; the tracker is passive and holds no timers.
//
// While the position is active the returned PnL reuses the settlement
// formula against the current spot. That figure is informational
// mark-to-model only, not a terminal classification.
func Evaluate(pos models.Position, spot float64, today time.Time) models.Snapshot {
	snap := models.Snapshot{
		Position:     pos,
		Spot:         spot,
		RemainingDTE: RemainingDTE(pos, today),
	}

	pnl := settlementPnL(pos, spot)
	snap.PnL = &pnl

	if snap.RemainingDTE > 0 {
		snap.Status = models.StatusActive
		return snap
	}

	if spot < pos.Strike && pnl < 0 {
		snap.Status = models.StatusLoss
	} else {
		snap.Status = models.StatusWin
	}
	return snap
}

// EvaluateUnknown produces the snapshot for a position whose current
// spot could not be retrieved. The Unknown status is distinct from
// Active and carries no PnL.
func EvaluateUnknown(pos models.Position, today time.Time) models.Snapshot {
	return models.Snapshot{
		Position:     pos,
		RemainingDTE: RemainingDTE(pos, today),
		Status:       models.StatusUnknown,
	}
}

// settlementPnL computes the cash outcome of the short put as if it
// settled at the given spot: full premium kept when out-of-the-money,
// premium less intrinsic value when in-the-money.
func settlementPnL(pos models.Position, spot float64) float64 {
	premium := pos.Bid * ContractMultiplier
	if spot < pos.Strike {
		intrinsic := (pos.Strike - spot) * ContractMultiplier
		return premium - intrinsic
	}
	return premium
}

// Summary aggregates evaluation snapshots over a watchlist. Only
// terminal positions contribute to the totals; active and unknown
// positions are counted but never enter TotalPnL or the win rate.
type Summary struct {
	Positions int
	Active    int
	Wins      int
	Losses    int
	Unknown   int
	TotalPnL  float64
}

// Summarize folds snapshots into a Summary.
func Summarize(snaps []models.Snapshot) Summary {
	var sum Summary
	sum.Positions = len(snaps)
	for _, s := range snaps {
		switch s.Status {
		case models.StatusWin:
			sum.Wins++
		case models.StatusLoss:
			sum.Losses++
		case models.StatusUnknown:
			sum.Unknown++
			continue
		default:
			sum.Active++
			continue
		}
		if s.PnL != nil {
			sum.TotalPnL += *s.PnL
		}
	}
	return sum
}

// WinRate returns wins/(wins+losses) over terminal positions, or 0 when
// no position has reached a terminal state yet.
func (s Summary) WinRate() float64 {
	terminal := s.Wins + s.Losses
	if terminal == 0 {
		return 0
	}
	return float64(s.Wins) / float64(terminal)
}
