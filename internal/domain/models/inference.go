package models

import "time"

// Inference kinds.
const (
	KindValue      = "value"
	KindVolatility = "volatility"
)

// InferenceEvent describes a completed inference. It carries results only,
// never the candles they were computed from.
type InferenceEvent struct {
	Token  string    `json:"token"`
	Symbol string    `json:"symbol"`
	Kind   string    `json:"kind"`
	Value  float64   `json:"value"`
	Rows   int       `json:"rows"`
	At     time.Time `json:"at"`
}
