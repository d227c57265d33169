package marketdata

import (
	"context"
	"fmt"

	apperrors "put-screener/internal/errors"
)

// quoteResponse mirrors the array-per-field layout of the
// /stocks/quotes endpoint.
type quoteResponse struct {
	Status  string    `json:"s"`
	Symbol  []string  `json:"symbol"`
	Mid     []float64 `json:"mid"`
	Updated []int64   `json:"updated"`
}

// Spot returns the current mid price for a symbol.
func (c *Client) Spot(ctx context.Context, symbol string) (float64, error) {
	var resp quoteResponse
	path := fmt.Sprintf("/stocks/quotes/%s/", symbol)
	if err := c.get(ctx, path, nil, symbol, "spot", &resp); err != nil {
		return 0, err
	}

	if resp.Status != "ok" || len(resp.Mid) == 0 {
		return 0, apperrors.NewProviderError("marketdata", "spot", symbol, apperrors.ErrSymbolNotFound)
	}

	c.logger.Debug().Str("symbol", symbol).Float64("mid", resp.Mid[0]).Msg("quote retrieved")
	return resp.Mid[0], nil
}
