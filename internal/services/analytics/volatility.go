package analytics

import (
	"FinCast/internal/domain/errs"
	"FinCast/internal/domain/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Volatility is |current - old| / old * 100 where old is the first candle's
// price and current the last one's.
func Volatility(candles []models.CandleRecord) (float64, error) {
	if len(candles) == 0 {
		return 0, &errs.EmptyDataError{Reason: "no candles to measure volatility"}
	}

	old := decimal.NewFromFloat(candles[0].Price)
	current := decimal.NewFromFloat(candles[len(candles)-1].Price)
	if old.IsZero() {
		return 0, &errs.DivisionByZeroError{Operand: "old price"}
	}

	pct := current.Sub(old).Abs().Mul(hundred).Div(old)
	return pct.InexactFloat64(), nil
}
