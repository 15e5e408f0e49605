package repository

// Timeframe represents candle resolution buckets.
type Timeframe string

const TF5m Timeframe = "5m"

// CandleTimeframe and CandleLimit are the fixed kline query parameters.
const (
	CandleTimeframe = TF5m
	CandleLimit     = 1000
)
