// Package marketdata retrieves quotes, option chains and earnings dates.
package marketdata

import (
	"context"
	"time"

	"put-screener/internal/models"
)

// ChainFilter narrows the option chain requested from the provider.
type ChainFilter struct {
	Side   models.OptionSide
	MinDTE int
	MaxDTE int
	MinBid float64
}

// QuoteProvider resolves current spot prices.
type QuoteProvider interface {
	Spot(ctx context.Context, symbol string) (float64, error)
}

// ChainProvider retrieves option chain quotes.
type ChainProvider interface {
	Chain(ctx context.Context, symbol string, filter ChainFilter) ([]models.OptionQuote, error)
}

// EarningsProvider resolves the next scheduled earnings date. The bool
// return is false when no upcoming earnings date is known.
type EarningsProvider interface {
	NextEarnings(ctx context.Context, symbol string) (time.Time, bool, error)
}

// Provider bundles the three data surfaces the screener consumes.
type Provider interface {
	QuoteProvider
	ChainProvider
	EarningsProvider
}
