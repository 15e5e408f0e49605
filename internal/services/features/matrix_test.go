package features

import (
	"testing"

	"FinCast/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnsOrder(t *testing.T) {
	assert.Equal(t, [12]string{
		"open", "high", "low", "close", "volume", "price",
		"SMA", "EMA", "RSI", "MACD", "MACD_Signal", "MACD_Hist",
	}, Columns)
}

func TestMatrix(t *testing.T) {
	row := models.FeatureRow{
		CandleRecord: models.CandleRecord{Open: 1, High: 2, Low: 3, Close: 4, Volume: 5, Price: 6},
		SMA:          7,
		EMA:          8,
		RSI:          9,
		MACD:         10,
		MACDSignal:   11,
		MACDHist:     12,
	}
	m := Matrix([]models.FeatureRow{row, row})

	require.Len(t, m, 2)
	for _, r := range m {
		require.Len(t, r, len(Columns))
		assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, r)
	}
	assert.Empty(t, Matrix(nil))
}
