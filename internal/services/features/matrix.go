package features

import "FinCast/internal/domain/models"

// Columns is the feature matrix column order expected by the model.
var Columns = [...]string{
	"open", "high", "low", "close", "volume", "price",
	"SMA", "EMA", "RSI", "MACD", "MACD_Signal", "MACD_Hist",
}

// Matrix lays rows out row-major in Columns order.
func Matrix(rows []models.FeatureRow) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = []float64{
			r.Open, r.High, r.Low, r.Close, r.Volume, r.Price,
			r.SMA, r.EMA, r.RSI, r.MACD, r.MACDSignal, r.MACDHist,
		}
	}
	return out
}
