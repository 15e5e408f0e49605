package repository

import (
	"context"

	"FinCast/internal/domain/models"
)

// EventPublisher emits inference results to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, ev *models.InferenceEvent) error
	Close() error
}

type Metrics interface {
	RecordRequest(kind, token string)
	RecordError(kind string)
	RecordForecast(token string, value float64)
	RecordVolatility(token string, pct float64)
	RecordLatency(op string, seconds float64)
}
