package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type SearchResult struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		QuoteType string `json:"quoteType"`
		LongName  string `json:"longname"`
		ShortName string `json:"shortname"`
	} `json:"quotes"`
}

// Search looks a free-text query up against the symbol search endpoint.
// Only equity and crypto results are kept; entries without a usable name
// are dropped.
func (c *Client) Search(ctx context.Context, queryText string) ([]SearchResult, error) {
	queryText = strings.TrimSpace(queryText)
	if queryText == "" {
		return nil, fmt.Errorf("query is required")
	}
	query := url.Values{}
	query.Set("q", queryText)
	query.Set("lang", "en-US")
	query.Set("region", "US")
	query.Set("quotesCount", strconv.Itoa(c.searchCount))
	query.Set("newsCount", "0")
	body, err := c.doRequest(ctx, c.searchBaseURL, query)
	if err != nil {
		return nil, err
	}
	return parseSearch(body)
}

func parseSearch(body []byte) ([]SearchResult, error) {
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	results := make([]SearchResult, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		name := q.LongName
		if name == "" {
			name = q.ShortName
		}
		if name == "" {
			continue
		}
		switch q.QuoteType {
		case "EQUITY", "CRYPTOCURRENCY":
			results = append(results, SearchResult{Symbol: q.Symbol, Name: name})
		}
	}
	return results, nil
}
