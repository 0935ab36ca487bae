package service

import (
	"context"

	"broker/internal/client/yahoo"
)

// QuoteGateway is the market-data collaborator consumed by the engines.
// *yahoo.Client satisfies it; tests substitute stubs.
type QuoteGateway interface {
	Quote(ctx context.Context, symbol string) (*yahoo.Quote, error)
	Search(ctx context.Context, query string) ([]yahoo.SearchResult, error)
}
