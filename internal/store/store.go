// Package store provides watchlist persistence.
package store

import (
	"context"

	"put-screener/internal/models"
)

// WatchlistStore defines the persistence interface for tracked positions.
// Positions are keyed by (user, list, option symbol); adds are
// add-if-absent and atomic per key so concurrent edits cannot lose
// updates. Positions are read-only after insertion except for removal;
// expired positions stay until removed explicitly.
type WatchlistStore interface {
	AddPosition(ctx context.Context, key models.WatchlistKey, pos models.Position) error
	GetPositions(ctx context.Context, key models.WatchlistKey) ([]models.Position, error)
	RemovePosition(ctx context.Context, key models.WatchlistKey, optionSymbol string) error
	ListWatchlists(ctx context.Context, user string) ([]string, error)
	Close() error
}
