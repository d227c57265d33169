package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	apperrors "put-screener/internal/errors"
	"put-screener/pkg/utils"
)

const defaultBaseURL = "https://api.marketdata.app/v1"

// Client is an HTTP client for the marketdata.app API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	retry      utils.RetryConfig
	logger     zerolog.Logger
}

// NewClient creates a new marketdata.app API client.
func NewClient(token, baseURL string, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		token:      token,
		retry:      utils.DefaultRetryConfig(),
		logger:     logger.With().Str("component", "marketdata").Logger(),
	}
}

// get performs an authenticated GET against path with the given query
// parameters, retrying transient failures, and decodes the JSON body
// into target.
func (c *Client) get(ctx context.Context, path string, params url.Values, symbol, op string, target interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("token", c.token)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	body, err := utils.RetryWithResult(ctx, c.retry, func() ([]byte, error) {
		return c.doGet(ctx, reqURL)
	})
	if err != nil {
		return apperrors.NewProviderError("marketdata", op, symbol, err)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return apperrors.NewProviderError("marketdata", op, symbol,
			fmt.Errorf("parsing response: %w", err))
	}
	return nil
}

func (c *Client) doGet(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNoContent:
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperrors.ErrSymbolNotFound
	default:
		return nil, fmt.Errorf("%w: status %d", apperrors.ErrProviderUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}
