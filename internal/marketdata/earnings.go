package marketdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "put-screener/internal/errors"
)

// earningsResponse mirrors the array-per-field layout of the
// /stocks/earnings endpoint.
type earningsResponse struct {
	Status     string   `json:"s"`
	Symbol     []string `json:"symbol"`
	ReportDate []int64  `json:"reportDate"`
}

// NextEarnings returns the next scheduled earnings date for a symbol.
// The bool return is false when the provider has no upcoming date; an
// unknown earnings date is not an error.
func (c *Client) NextEarnings(ctx context.Context, symbol string) (time.Time, bool, error) {
	var resp earningsResponse
	path := fmt.Sprintf("/stocks/earnings/%s/", symbol)
	if err := c.get(ctx, path, nil, symbol, "earnings", &resp); err != nil {
		if errors.Is(err, apperrors.ErrSymbolNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}

	if resp.Status != "ok" || len(resp.ReportDate) == 0 {
		return time.Time{}, false, nil
	}

	date := time.Unix(resp.ReportDate[0], 0).UTC()
	return date, true, nil
}
