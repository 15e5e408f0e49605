package analytics

import (
	"testing"

	"FinCast/internal/domain/errs"
	"FinCast/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priced(prices ...float64) []models.CandleRecord {
	out := make([]models.CandleRecord, len(prices))
	for i, p := range prices {
		out[i] = models.CandleRecord{Close: p, Price: p}
	}
	return out
}

func TestVolatility(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		want   float64
	}{
		{"flat then jump", []float64{100, 100, 100, 100, 110}, 10},
		{"drop", []float64{200, 150, 150}, 25},
		{"unchanged", []float64{42.5, 99, 42.5}, 0},
		{"single candle", []float64{7}, 0},
		{"decimal prices", []float64{0.1, 0.3}, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Volatility(priced(tt.prices...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVolatilityZeroOldPrice(t *testing.T) {
	_, err := Volatility(priced(0, 5))
	var dz *errs.DivisionByZeroError
	assert.ErrorAs(t, err, &dz)
}

func TestVolatilityEmpty(t *testing.T) {
	_, err := Volatility(nil)
	var ede *errs.EmptyDataError
	assert.ErrorAs(t, err, &ede)
}
