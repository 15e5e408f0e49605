package models

import "time"

// CandleRecord is one closed 5-minute OHLCV bar from the exchange.
type CandleRecord struct {
	Timestamp time.Time // candle close time, UTC
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Price     float64 // equals Close
}

// FeatureRow is a candle extended with its technical indicators.
// Rows are only built once every indicator is defined.
type FeatureRow struct {
	CandleRecord
	SMA        float64
	EMA        float64
	RSI        float64
	MACD       float64
	MACDSignal float64
	MACDHist   float64
}

// Distribution holds predictive values (quantiles or samples) for one forecast step.
type Distribution []float64
