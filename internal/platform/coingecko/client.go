// Package coingecko is a minimal REST client for the CoinGecko price API,
// the automated resolution source for crypto markets and predictions.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const userAgent = "SoothSayer-Adjudicator/2.0"

// Client is the REST client for the CoinGecko simple price endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a CoinGecko client. baseURL is the API root, e.g.
// "https://api.coingecko.com/api/v3".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SpotPrice returns the current USD price for a coin id such as "ethereum".
func (c *Client) SpotPrice(ctx context.Context, coinID string) (float64, error) {
	params := url.Values{}
	params.Set("ids", coinID)
	params.Set("vs_currencies", "usd")

	reqURL := c.baseURL + "/simple/price?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("coingecko: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("coingecko: get price %s: %w", coinID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("coingecko: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("coingecko: HTTP %d for %s", resp.StatusCode, coinID)
	}

	var prices map[string]map[string]float64
	if err := json.Unmarshal(body, &prices); err != nil {
		return 0, fmt.Errorf("coingecko: decode response: %w", err)
	}

	usd, ok := prices[coinID]["usd"]
	if !ok {
		return 0, fmt.Errorf("coingecko: no usd price for %s", coinID)
	}

	return usd, nil
}
