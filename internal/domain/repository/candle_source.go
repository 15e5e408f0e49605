package repository

import (
	"context"

	"FinCast/internal/domain/models"
)

// CandleSource provides closed candles for a ticker, oldest first.
type CandleSource interface {
	FetchCandles(ctx context.Context, token string) ([]models.CandleRecord, error)
}
