package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	apperrors "put-screener/internal/errors"
	"put-screener/internal/models"
)

// chainResponse mirrors the array-per-field layout of the
// /options/chain endpoint; index i across all arrays describes one
// contract.
type chainResponse struct {
	Status       string    `json:"s"`
	OptionSymbol []string  `json:"optionSymbol"`
	Underlying   []string  `json:"underlying"`
	Strike       []float64 `json:"strike"`
	Bid          []float64 `json:"bid"`
	DTE          []int     `json:"dte"`
	IV           []float64 `json:"iv"`
	InTheMoney   []bool    `json:"inTheMoney"`
	Side         []string  `json:"side"`
}

// Chain retrieves the option chain for an underlying, narrowed by the
// given filter.
func (c *Client) Chain(ctx context.Context, symbol string, filter ChainFilter) ([]models.OptionQuote, error) {
	params := url.Values{}
	if filter.Side != "" {
		params.Set("side", string(filter.Side))
	}
	if filter.MinBid > 0 {
		params.Set("minBid", strconv.FormatFloat(filter.MinBid, 'f', -1, 64))
	}
	if filter.MaxDTE > 0 {
		params.Set("dte", strconv.Itoa(filter.MaxDTE))
	}

	var resp chainResponse
	path := fmt.Sprintf("/options/chain/%s/", symbol)
	if err := c.get(ctx, path, params, symbol, "chain", &resp); err != nil {
		return nil, err
	}

	if resp.Status != "ok" {
		return nil, apperrors.NewProviderError("marketdata", "chain", symbol, apperrors.ErrSymbolNotFound)
	}

	n := len(resp.OptionSymbol)
	if len(resp.Strike) != n || len(resp.Bid) != n || len(resp.DTE) != n || len(resp.IV) != n {
		return nil, apperrors.NewProviderError("marketdata", "chain", symbol,
			fmt.Errorf("inconsistent chain response field lengths"))
	}

	quotes := make([]models.OptionQuote, 0, n)
	for i := 0; i < n; i++ {
		// The dte query parameter is an upper bound only; the lower
		// bound is applied here.
		if resp.DTE[i] < filter.MinDTE {
			continue
		}
		q := models.OptionQuote{
			Symbol:       resp.OptionSymbol[i],
			Strike:       resp.Strike[i],
			Bid:          resp.Bid[i],
			DaysToExpiry: resp.DTE[i],
			ImpliedVol:   resp.IV[i],
		}
		if i < len(resp.Underlying) {
			q.UnderlyingSymbol = resp.Underlying[i]
		} else {
			q.UnderlyingSymbol = symbol
		}
		if i < len(resp.Side) {
			q.Side = models.OptionSide(resp.Side[i])
		}
		if i < len(resp.InTheMoney) {
			q.InTheMoney = resp.InTheMoney[i]
		}
		quotes = append(quotes, q)
	}

	c.logger.Debug().Str("symbol", symbol).Int("contracts", len(quotes)).Msg("chain retrieved")
	return quotes, nil
}
