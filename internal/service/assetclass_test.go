package service

import "testing"

func TestClassifyAsset(t *testing.T) {
	tests := []struct {
		symbol string
		want   AssetClass
	}{
		{"AAPL", AssetEquity},
		{"BTC-USD", AssetCrypto},
		{"ETH-USD", AssetCrypto},
		{"btc-usd", AssetCrypto},
		{" SOL-USD ", AssetCrypto},
		{"^GDAXI", AssetEquity},
		{"GC=F", AssetEquity},
		{"USD", AssetEquity},
		{"", AssetEquity},
	}
	for _, tt := range tests {
		if got := ClassifyAsset(tt.symbol); got != tt.want {
			t.Fatalf("ClassifyAsset(%q) = %q, want %q", tt.symbol, got, tt.want)
		}
	}
}
