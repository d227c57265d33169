// Package ranking defines the ordering contract for trade candidates.
package ranking

import (
	"sort"

	"put-screener/internal/models"
	"put-screener/internal/scanner"
)

// SortKey selects which candidate metric drives the ordering.
type SortKey string

const (
	ByROI   SortKey = "roi"
	ByCOP   SortKey = "cop"
	ByScore SortKey = "score"
)

// ParseSortKey maps a user-supplied string to a SortKey, defaulting to
// ByScore for unrecognized input.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case ByROI, ByCOP, ByScore:
		return SortKey(s)
	default:
		return ByScore
	}
}

// Rank orders candidates descending by the chosen key. Equal keys fall
// back to the contract symbol ascending so that the order is fully
// deterministic and reproducible across runs. The input slice is not
// modified.
func Rank(candidates []models.TradeCandidate, key SortKey) []models.TradeCandidate {
	ranked := make([]models.TradeCandidate, len(candidates))
	copy(ranked, candidates)

	sort.Slice(ranked, func(i, j int) bool {
		ki, kj := metric(ranked[i], key), metric(ranked[j], key)
		if ki != kj {
			return ki > kj
		}
		return ranked[i].Symbol < ranked[j].Symbol
	})

	return ranked
}

// RankGroups ranks each group's candidates independently. Grouping
// boundaries are never disturbed: candidates stay under their own
// header and groups keep their input order.
func RankGroups(groups []scanner.Group, key SortKey) []scanner.Group {
	ranked := make([]scanner.Group, len(groups))
	for i, g := range groups {
		ranked[i] = scanner.Group{
			Header:     g.Header,
			Candidates: Rank(g.Candidates, key),
		}
	}
	return ranked
}

// RankSnapshots orders position snapshots by the same contract as Rank,
// keyed on each snapshot's underlying candidate, so watchlist display
// and scan output share one ordering policy.
func RankSnapshots(snaps []models.Snapshot, key SortKey) []models.Snapshot {
	ranked := make([]models.Snapshot, len(snaps))
	copy(ranked, snaps)

	sort.Slice(ranked, func(i, j int) bool {
		ki := metric(ranked[i].Position.TradeCandidate, key)
		kj := metric(ranked[j].Position.TradeCandidate, key)
		if ki != kj {
			return ki > kj
		}
		return ranked[i].Position.Symbol < ranked[j].Position.Symbol
	})

	return ranked
}

func metric(c models.TradeCandidate, key SortKey) float64 {
	switch key {
	case ByROI:
		return c.ROI
	case ByCOP:
		return c.COP
	default:
		return c.Score()
	}
}
