// Package features computes technical indicators over candle closes and
// assembles the model feature matrix.
package features

import (
	"math"

	"FinCast/internal/domain/models"
)

// Indicator parameters.
const (
	Window       = 14
	MACDFast     = 12
	MACDSlow     = 26
	MACDSignalN  = 9
	warmupLength = MACDSlow - 1 + MACDSignalN - 1
)

// SMA returns the simple moving average of xs over n. out[t] is NaN for t < n-1
// and for any window containing a NaN.
func SMA(xs []float64, n int) []float64 {
	out := nanSlice(len(xs))
	if n <= 0 {
		return out
	}
	for t := n - 1; t < len(xs); t++ {
		sum := 0.0
		for _, x := range xs[t-n+1 : t+1] {
			sum += x
		}
		out[t] = sum / float64(n)
	}
	return out
}

// EMA returns the exponential moving average of xs over n with α = 2/(n+1).
// A leading NaN prefix is skipped; the first value is the SMA of the first n
// defined inputs and sits at the last index of that window.
func EMA(xs []float64, n int) []float64 {
	out := nanSlice(len(xs))
	if n <= 0 {
		return out
	}
	start := 0
	for start < len(xs) && math.IsNaN(xs[start]) {
		start++
	}
	seedAt := start + n - 1
	if seedAt >= len(xs) {
		return out
	}

	sum := 0.0
	for _, x := range xs[start : seedAt+1] {
		sum += x
	}
	out[seedAt] = sum / float64(n)

	alpha := 2.0 / float64(n+1)
	for t := seedAt + 1; t < len(xs); t++ {
		out[t] = out[t-1]*(1-alpha) + xs[t]*alpha
	}
	return out
}

// RSI returns the relative strength index over n using Wilder smoothing.
// The averages are seeded with the plain mean of the first n gains and
// losses, so out[t] is NaN for t < n. A window without losses reads 100.
func RSI(xs []float64, n int) []float64 {
	out := nanSlice(len(xs))
	if n <= 0 || len(xs) <= n {
		return out
	}

	var avgGain, avgLoss float64
	for t := 1; t <= n; t++ {
		g, l := gainLoss(xs[t] - xs[t-1])
		avgGain += g
		avgLoss += l
	}
	avgGain /= float64(n)
	avgLoss /= float64(n)
	out[n] = rsiValue(avgGain, avgLoss)

	for t := n + 1; t < len(xs); t++ {
		g, l := gainLoss(xs[t] - xs[t-1])
		avgGain = (avgGain*float64(n-1) + g) / float64(n)
		avgLoss = (avgLoss*float64(n-1) + l) / float64(n)
		out[t] = rsiValue(avgGain, avgLoss)
	}
	return out
}

// MACD returns the MACD line EMA(fast) - EMA(slow), its EMA(signal) and the
// histogram line - signal.
func MACD(xs []float64, fast, slow, signal int) (line, sig, hist []float64) {
	emaFast := EMA(xs, fast)
	emaSlow := EMA(xs, slow)
	line = make([]float64, len(xs))
	for i := range xs {
		line[i] = emaFast[i] - emaSlow[i]
	}
	sig = EMA(line, signal)
	hist = make([]float64, len(xs))
	for i := range xs {
		hist[i] = line[i] - sig[i]
	}
	return line, sig, hist
}

// ComputeIndicators attaches SMA, EMA, RSI and MACD to each candle and drops
// the warm-up rows where any indicator is undefined. For N candles the result
// has max(0, N-33) rows in input order. candles is not modified.
func ComputeIndicators(candles []models.CandleRecord) []models.FeatureRow {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}

	sma := SMA(closes, Window)
	ema := EMA(closes, Window)
	rsi := RSI(closes, Window)
	line, sig, hist := MACD(closes, MACDFast, MACDSlow, MACDSignalN)

	rows := make([]models.FeatureRow, 0, max(0, len(candles)-warmupLength))
	for i, c := range candles {
		row := models.FeatureRow{
			CandleRecord: c,
			SMA:          sma[i],
			EMA:          ema[i],
			RSI:          rsi[i],
			MACD:         line[i],
			MACDSignal:   sig[i],
			MACDHist:     hist[i],
		}
		if hasNaN(row) {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func hasNaN(r models.FeatureRow) bool {
	for _, v := range [...]float64{r.SMA, r.EMA, r.RSI, r.MACD, r.MACDSignal, r.MACDHist} {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

func gainLoss(d float64) (gain, loss float64) {
	if d > 0 {
		return d, 0
	}
	return 0, -d
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	return 100 - 100/(1+avgGain/avgLoss)
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
