package analytics

import (
	"context"
	"fmt"

	"FinCast/internal/domain/models"
	domsvc "FinCast/internal/domain/service"
)

// ForecasterConfig locates the model service.
type ForecasterConfig struct {
	ServiceURL  string
	Model       string
	HealthPath  string
	PredictPath string
}

// HTTPForecaster calls a pretrained time-series model served over HTTP.
type HTTPForecaster struct {
	base *HTTPServiceBase
	cfg  ForecasterConfig
}

func NewHTTPForecaster(cfg ForecasterConfig, base *HTTPServiceBase) *HTTPForecaster {
	if base == nil {
		base = NewHTTPServiceBase(cfg.ServiceURL, nil)
	}
	return &HTTPForecaster{base: base, cfg: cfg}
}

type predictReq struct {
	Model            string      `json:"model"`
	Context          [][]float64 `json:"context"`
	PredictionLength int         `json:"prediction_length"`
}

type predictResp struct {
	Forecast [][]float64 `json:"forecast"`
}

// Ping checks that the service is up and the model is loaded.
func (f *HTTPForecaster) Ping(ctx context.Context) error {
	return f.base.Get(ctx, f.cfg.HealthPath)
}

// Predict returns one distribution per step of horizon.
func (f *HTTPForecaster) Predict(ctx context.Context, matrix [][]float64, horizon int) ([]models.Distribution, error) {
	var resp predictResp
	err := f.base.PostJSON(ctx, f.cfg.PredictPath, predictReq{
		Model:            f.cfg.Model,
		Context:          matrix,
		PredictionLength: horizon,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Forecast) != horizon {
		return nil, fmt.Errorf("model returned %d forecast steps, want %d", len(resp.Forecast), horizon)
	}

	out := make([]models.Distribution, len(resp.Forecast))
	for i, step := range resp.Forecast {
		out[i] = models.Distribution(step)
	}
	return out, nil
}

var _ domsvc.Forecaster = (*HTTPForecaster)(nil)
