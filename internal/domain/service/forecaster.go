package service

import (
	"context"

	"FinCast/internal/domain/models"
)

// Forecaster is the pretrained forecasting model. Given a row-major [T×12]
// feature matrix and a horizon it returns one predictive distribution per
// forecast step.
type Forecaster interface {
	Predict(ctx context.Context, matrix [][]float64, horizon int) ([]models.Distribution, error)
}
