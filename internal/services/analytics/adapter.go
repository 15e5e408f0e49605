package analytics

import (
	"context"
	"fmt"

	"FinCast/internal/domain/errs"
	"FinCast/internal/domain/models"
	"FinCast/internal/services/features"
)

// Horizon is the number of steps forecast per request.
const Horizon = 1

// ForecastAdapter turns feature rows into a single point forecast.
type ForecastAdapter struct {
	model *ModelHandle
}

func NewForecastAdapter(model *ModelHandle) *ForecastAdapter {
	return &ForecastAdapter{model: model}
}

// Ready reports whether the underlying model loaded.
func (a *ForecastAdapter) Ready() bool {
	return a.model.Ready()
}

// Err is why the model is not ready, nil when it is.
func (a *ForecastAdapter) Err() error {
	return a.model.Err()
}

// Forecast returns the mean of the model's next-step distribution for rows.
func (a *ForecastAdapter) Forecast(ctx context.Context, rows []models.FeatureRow) (float64, error) {
	if !a.model.Ready() {
		return 0, a.model.Err()
	}
	if len(rows) == 0 {
		return 0, &errs.EmptyDataError{Reason: "no feature rows to forecast from"}
	}

	dists, err := a.model.Predict(ctx, features.Matrix(rows), Horizon)
	if err != nil {
		return 0, &errs.ForecastError{Err: err}
	}
	if len(dists) == 0 {
		return 0, &errs.ForecastError{Err: fmt.Errorf("model returned no forecast steps")}
	}
	if len(dists[0]) == 0 {
		return 0, &errs.ForecastError{Err: fmt.Errorf("model returned an empty distribution")}
	}
	return mean(dists[0]), nil
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
