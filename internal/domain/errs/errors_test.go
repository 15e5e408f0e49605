package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unsupported", &UnsupportedTokenError{Token: "DOGE"}, "unsupported_token"},
		{"upstream", &UpstreamFetchError{Status: 418, Body: "teapot"}, "upstream_fetch"},
		{"empty", &EmptyDataError{}, "empty_data"},
		{"model", &ModelUnavailableError{}, "model_unavailable"},
		{"forecast", &ForecastError{Err: errors.New("boom")}, "forecast"},
		{"div zero", &DivisionByZeroError{Operand: "old price"}, "division_by_zero"},
		{"wrapped", fmt.Errorf("stage: %w", &EmptyDataError{Reason: "x"}), "empty_data"},
		{"plain", errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
			assert.Equal(t, tt.want != "" && tt.want != "internal", IsPipeline(tt.err))
		})
	}
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "unsupported token: DOGE", (&UnsupportedTokenError{Token: "DOGE"}).Error())
	assert.Equal(t,
		`failed to fetch candles from exchange (status 400): {"code":-1121,"msg":"Invalid symbol."}`,
		(&UpstreamFetchError{Status: 400, Body: `{"code":-1121,"msg":"Invalid symbol."}`}).Error())
	assert.Equal(t, "empty data: no candles", (&EmptyDataError{Reason: "no candles"}).Error())
	assert.Equal(t, "forecasting model is not loaded", (&ModelUnavailableError{}).Error())
	assert.Equal(t, "division by zero: old price is 0", (&DivisionByZeroError{Operand: "old price"}).Error())
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	assert.ErrorIs(t, &UpstreamFetchError{Err: cause}, cause)
	assert.ErrorIs(t, &ForecastError{Err: cause}, cause)
	assert.ErrorIs(t, &ModelUnavailableError{Err: cause}, cause)
	assert.Contains(t, (&ForecastError{Err: cause}).Error(), "connection refused")
}
