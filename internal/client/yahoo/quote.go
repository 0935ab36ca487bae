package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNoQuote means the gateway answered but no usable price could be
// extracted for the symbol through the whole fallback chain.
var ErrNoQuote = errors.New("yahoo: no quote available")

// Quote is live market data for one symbol at request time. It is owned by
// the caller for the duration of one request and never persisted.
type Quote struct {
	Price     float64
	ChangePct float64
	Name      string
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol                     string  `json:"symbol"`
		RegularMarketPrice         float64 `json:"regularMarketPrice"`
		RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
		LongName                   string  `json:"longName"`
		ShortName                  string  `json:"shortName"`
	} `json:"meta"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

// Quote resolves the current price, day-over-day percent change and display
// name for a ticker. Price falls back current -> regular market -> most
// recent close; a zero change is recomputed as a 1-day delta from the two
// most recent closes; the name falls back long -> short -> the symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	query := url.Values{}
	query.Set("range", "2d")
	query.Set("interval", "1d")
	query.Set("includePrePost", "false")
	body, err := c.doRequest(ctx, c.chartBaseURL+"/"+url.PathEscape(symbol), query)
	if err != nil {
		return nil, err
	}
	return parseQuote(body, symbol)
}

func parseQuote(body []byte, symbol string) (*Quote, error) {
	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode chart response: %w", err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoQuote, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, ErrNoQuote
	}
	result := resp.Chart.Result[0]
	closes := closeSeries(result)

	price := result.Meta.RegularMarketPrice
	if price == 0 {
		if last := lastClose(closes, 1); last != nil {
			price = *last
		}
	}
	if price == 0 {
		return nil, ErrNoQuote
	}

	changePct := result.Meta.RegularMarketChangePercent
	if changePct == 0 {
		if prev := lastClose(closes, 2); prev != nil && *prev != 0 {
			changePct = (price - *prev) / *prev
		}
	}

	name := result.Meta.LongName
	if name == "" {
		name = result.Meta.ShortName
	}
	if name == "" {
		name = symbol
	}

	return &Quote{Price: price, ChangePct: changePct, Name: name}, nil
}

func closeSeries(result chartResult) []*float64 {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	return result.Indicators.Quote[0].Close
}

// lastClose returns the nth most recent non-null close (n=1 is the latest).
func lastClose(closes []*float64, n int) *float64 {
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] == nil {
			continue
		}
		n--
		if n == 0 {
			return closes[i]
		}
	}
	return nil
}
