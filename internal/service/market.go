package service

import (
	"context"

	"go.uber.org/zap"
)

// marketTickers is the fixed instrument set shown on the market overview.
var marketTickers = []struct {
	Name   string
	Symbol string
}{
	{"DAX", "^GDAXI"},
	{"Nasdaq", "^IXIC"},
	{"Dow Jones", "^DJI"},
	{"Nikkei", "^N225"},
	{"S&P 500", "^GSPC"},
	{"Gold", "GC=F"},
	{"Bitcoin", "BTC-USD"},
}

type MarketEntry struct {
	Name      string  `json:"name"`
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	ChangePct float64 `json:"change_pct"`
	Available bool    `json:"available"`
}

// MarketOverviewService quotes a fixed set of indices, commodities and
// crypto for the landing view. A failed lookup yields a zero-valued
// placeholder entry, never an error.
type MarketOverviewService struct {
	Quotes QuoteGateway
	Logger *zap.Logger
}

func (s *MarketOverviewService) Overview(ctx context.Context) []MarketEntry {
	entries := make([]MarketEntry, 0, len(marketTickers))
	for _, tk := range marketTickers {
		entry := MarketEntry{Name: tk.Name, Symbol: tk.Symbol}
		quote, err := s.Quotes.Quote(ctx, tk.Symbol)
		if err != nil || quote == nil {
			if s.Logger != nil {
				s.Logger.Warn("market overview quote failed",
					zap.String("symbol", tk.Symbol),
					zap.Error(err),
				)
			}
		} else {
			entry.Price = quote.Price
			entry.ChangePct = quote.ChangePct
			entry.Available = true
		}
		entries = append(entries, entry)
	}
	return entries
}
