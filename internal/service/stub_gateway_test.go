package service

import (
	"context"
	"errors"

	"broker/internal/client/yahoo"
)

// stubGateway serves canned quotes keyed by symbol; symbols without an
// entry resolve as unavailable. calls counts quote lookups per symbol.
type stubGateway struct {
	quotes map[string]yahoo.Quote
	calls  map[string]int
}

func newStubGateway() *stubGateway {
	return &stubGateway{
		quotes: make(map[string]yahoo.Quote),
		calls:  make(map[string]int),
	}
}

func (g *stubGateway) set(symbol string, price, changePct float64, name string) {
	g.quotes[symbol] = yahoo.Quote{Price: price, ChangePct: changePct, Name: name}
}

func (g *stubGateway) Quote(_ context.Context, symbol string) (*yahoo.Quote, error) {
	g.calls[symbol]++
	q, ok := g.quotes[symbol]
	if !ok {
		return nil, yahoo.ErrNoQuote
	}
	return &q, nil
}

func (g *stubGateway) Search(_ context.Context, _ string) ([]yahoo.SearchResult, error) {
	return nil, errors.New("not implemented")
}
