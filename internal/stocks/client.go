// Package stocks looks up global quotes from the Alphavantage API for the
// companies configured in the symbol map.
package stocks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Quote pairs a configured company with the raw quote payload returned by the
// upstream API.
type Quote struct {
	Company string         `json:"company"`
	Symbol  string         `json:"symbol"`
	Data    map[string]any `json:"data"`
}

// Client talks to the Alphavantage query endpoint.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	logger   *slog.Logger
}

// NewClient creates a reusable HTTP client for quote lookups.
func NewClient(endpoint, apiKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 15 * time.Second},
		logger:   logger,
	}
}

// GlobalQuote fetches the GLOBAL_QUOTE payload for one symbol.
func (c *Client) GlobalQuote(ctx context.Context, symbol string) (map[string]any, error) {
	query := url.Values{}
	query.Set("function", "GLOBAL_QUOTE")
	query.Set("symbol", symbol)
	query.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage returned %s", resp.Status)
	}

	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}
	return data, nil
}

// Collect looks up every company in the symbol map, skipping entries with an
// empty symbol and entries whose lookup fails.
func (c *Client) Collect(ctx context.Context, symbols map[string]string) []Quote {
	quotes := make([]Quote, 0, len(symbols))
	for company, symbol := range symbols {
		if symbol == "" {
			continue
		}

		data, err := c.GlobalQuote(ctx, symbol)
		if err != nil {
			c.logger.Debug("quote lookup failed", "company", company, "symbol", symbol, "error", err)
			continue
		}

		quotes = append(quotes, Quote{Company: company, Symbol: symbol, Data: data})
	}
	return quotes
}
