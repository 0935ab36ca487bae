package service

import "strings"

type AssetClass string

const (
	AssetEquity AssetClass = "equity"
	AssetCrypto AssetClass = "crypto"
)

// cryptoSuffix is the naming convention that marks crypto tickers
// (BTC-USD, ETH-USD, ...). Classification is purely over the symbol
// string; asset type is never looked up from the data source.
const cryptoSuffix = "-USD"

func ClassifyAsset(symbol string) AssetClass {
	if strings.HasSuffix(strings.ToUpper(strings.TrimSpace(symbol)), cryptoSuffix) {
		return AssetCrypto
	}
	return AssetEquity
}
