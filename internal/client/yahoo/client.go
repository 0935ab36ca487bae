// Package yahoo is a minimal client for the public Yahoo Finance endpoints
// used as the market-quote gateway: the v8 chart API for prices and the v1
// search API for symbol lookup. Quotes are never cached; every call hits the
// network.
package yahoo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultChartBaseURL  = "https://query1.finance.yahoo.com/v8/finance/chart"
	defaultSearchBaseURL = "https://query1.finance.yahoo.com/v1/finance/search"
	defaultUserAgent     = "Mozilla/5.0"
	defaultSearchCount   = 8
)

type Client struct {
	chartBaseURL  string
	searchBaseURL string
	userAgent     string
	searchCount   int
	httpClient    *http.Client
}

type Options struct {
	ChartBaseURL  string
	SearchBaseURL string
	UserAgent     string
	SearchCount   int
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, opts Options) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	chart := strings.TrimRight(opts.ChartBaseURL, "/")
	if chart == "" {
		chart = defaultChartBaseURL
	}
	search := strings.TrimRight(opts.SearchBaseURL, "/")
	if search == "" {
		search = defaultSearchBaseURL
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	count := opts.SearchCount
	if count <= 0 {
		count = defaultSearchCount
	}
	return &Client{
		chartBaseURL:  chart,
		searchBaseURL: search,
		userAgent:     ua,
		searchCount:   count,
		httpClient:    httpClient,
	}
}

func (c *Client) doRequest(ctx context.Context, fullURL string, query url.Values) ([]byte, error) {
	if len(query) > 0 {
		fullURL = fullURL + "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
