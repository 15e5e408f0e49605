package repository

import (
	"sort"
	"strings"
)

// tokenSymbols is the closed set of supported tickers and their exchange pairs.
var tokenSymbols = map[string]string{
	"ETH": "ETHUSDT",
	"SOL": "SOLUSDT",
	"BTC": "BTCUSDT",
	"BNB": "BNBUSDT",
	"ARB": "ARBUSDT",
}

// SymbolFor resolves a ticker, case-insensitively, to its trading pair.
func SymbolFor(token string) (string, bool) {
	s, ok := tokenSymbols[strings.ToUpper(token)]
	return s, ok
}

// SupportedTokens returns the supported tickers in sorted order.
func SupportedTokens() []string {
	out := make([]string, 0, len(tokenSymbols))
	for t := range tokenSymbols {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
