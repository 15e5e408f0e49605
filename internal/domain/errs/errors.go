// Package errs defines the typed failures of the inference pipeline.
//
// Every stage returns one of these (possibly wrapped); the transport edge is
// the only place they are collapsed into a response.
package errs

import (
	"errors"
	"fmt"
)

// UnsupportedTokenError is returned for tickers outside the token symbol map.
type UnsupportedTokenError struct {
	Token string
}

func (e *UnsupportedTokenError) Error() string {
	return fmt.Sprintf("unsupported token: %s", e.Token)
}

// UpstreamFetchError is returned when the exchange request fails or answers
// with a non-success status. Body holds the raw response body.
type UpstreamFetchError struct {
	Status int
	Body   string
	Err    error
}

func (e *UpstreamFetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch candles from exchange: %v", e.Err)
	}
	return fmt.Sprintf("failed to fetch candles from exchange (status %d): %s", e.Status, e.Body)
}

// Unwrap returns underlying error.
func (e *UpstreamFetchError) Unwrap() error { return e.Err }

// EmptyDataError is returned when a stage has nothing to work on.
type EmptyDataError struct {
	Reason string
}

func (e *EmptyDataError) Error() string {
	if e.Reason == "" {
		return "empty data"
	}
	return "empty data: " + e.Reason
}

// ModelUnavailableError is returned when the forecasting model failed to
// initialize at startup.
type ModelUnavailableError struct {
	Err error
}

func (e *ModelUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("forecasting model is not loaded: %v", e.Err)
	}
	return "forecasting model is not loaded"
}

// Unwrap returns underlying error.
func (e *ModelUnavailableError) Unwrap() error { return e.Err }

// ForecastError wraps any runtime failure of the forecasting model.
type ForecastError struct {
	Err error
}

func (e *ForecastError) Error() string {
	return fmt.Sprintf("forecast failed: %v", e.Err)
}

// Unwrap returns underlying error.
func (e *ForecastError) Unwrap() error { return e.Err }

// DivisionByZeroError is returned instead of an infinite or NaN result.
type DivisionByZeroError struct {
	Operand string
}

func (e *DivisionByZeroError) Error() string {
	if e.Operand == "" {
		return "division by zero"
	}
	return fmt.Sprintf("division by zero: %s is 0", e.Operand)
}

// Kind returns a short low-cardinality label for err, suitable for metrics.
func Kind(err error) string {
	var (
		unsupported *UnsupportedTokenError
		upstream    *UpstreamFetchError
		empty       *EmptyDataError
		unavailable *ModelUnavailableError
		forecast    *ForecastError
		divZero     *DivisionByZeroError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &unsupported):
		return "unsupported_token"
	case errors.As(err, &upstream):
		return "upstream_fetch"
	case errors.As(err, &empty):
		return "empty_data"
	case errors.As(err, &unavailable):
		return "model_unavailable"
	case errors.As(err, &forecast):
		return "forecast"
	case errors.As(err, &divZero):
		return "division_by_zero"
	default:
		return "internal"
	}
}

// IsPipeline reports whether err is, or wraps, one of the typed pipeline errors.
func IsPipeline(err error) bool {
	k := Kind(err)
	return k != "" && k != "internal"
}
