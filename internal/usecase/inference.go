package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"FinCast/internal/domain/errs"
	"FinCast/internal/domain/models"
	drepo "FinCast/internal/domain/repository"
	"FinCast/internal/services/analytics"
	"FinCast/internal/services/features"
	applogger "FinCast/pkg/logger"
	"FinCast/pkg/trace"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// ValueForecaster turns feature rows into a point forecast. Err holds the
// reason it is not ready.
type ValueForecaster interface {
	Ready() bool
	Err() error
	Forecast(ctx context.Context, rows []models.FeatureRow) (float64, error)
}

// InferenceUseCase runs the candle -> indicators -> forecast pipeline and the
// candle -> volatility pipeline for a single request.
type InferenceUseCase struct {
	candles    drepo.CandleSource
	forecaster ValueForecaster
	metrics    drepo.Metrics
	events     drepo.EventPublisher
	tracer     *trace.Tracer
	logger     *applogger.Logger
	now        func() time.Time
}

// NewInferenceUseCase creates a new InferenceUseCase instance.
func NewInferenceUseCase(
	candles drepo.CandleSource,
	forecaster ValueForecaster,
	metrics drepo.Metrics,
	events drepo.EventPublisher,
	tracer *trace.Tracer,
	logger *applogger.Logger,
) *InferenceUseCase {
	if tracer == nil {
		tracer = trace.NewNop()
	}
	if logger == nil {
		logger = applogger.NewNop()
	}
	return &InferenceUseCase{
		candles:    candles,
		forecaster: forecaster,
		metrics:    metrics,
		events:     events,
		tracer:     tracer,
		logger:     logger,
		now:        time.Now,
	}
}

// ModelReady reports whether the forecasting model loaded at startup.
func (uc *InferenceUseCase) ModelReady() bool {
	return uc.forecaster.Ready()
}

// Value forecasts the next close for token.
func (uc *InferenceUseCase) Value(ctx context.Context, token string) (v float64, err error) {
	ctx, span := uc.tracer.StartSpan(ctx, "inference.value", attribute.String("token", token))
	defer func() { uc.finish(ctx, span, models.KindValue, token, err) }()

	if !uc.forecaster.Ready() {
		if err := uc.forecaster.Err(); err != nil {
			return 0, err
		}
		return 0, &errs.ModelUnavailableError{}
	}

	candles, err := uc.fetch(ctx, token)
	if err != nil {
		return 0, err
	}

	var rows []models.FeatureRow
	if err := uc.stage(ctx, "indicators", func(context.Context) error {
		rows = features.ComputeIndicators(candles)
		return nil
	}); err != nil {
		return 0, err
	}

	err = uc.stage(ctx, "forecast", func(ctx context.Context) error {
		v, err = uc.forecaster.Forecast(ctx, rows)
		return err
	})
	if err != nil {
		return 0, err
	}

	uc.metrics.RecordForecast(label(token), v)
	uc.logger.Debug("forecast computed",
		applogger.String("token", token),
		applogger.Int("rows", len(rows)),
		applogger.Float64("value", v),
	)
	uc.publish(ctx, token, models.KindValue, v, len(rows))
	return v, nil
}

// Volatility returns the relative move in percent across the fetched window.
func (uc *InferenceUseCase) Volatility(ctx context.Context, token string) (v float64, err error) {
	ctx, span := uc.tracer.StartSpan(ctx, "inference.volatility", attribute.String("token", token))
	defer func() { uc.finish(ctx, span, models.KindVolatility, token, err) }()

	candles, err := uc.fetch(ctx, token)
	if err != nil {
		return 0, err
	}

	err = uc.stage(ctx, "volatility", func(context.Context) error {
		v, err = analytics.Volatility(candles)
		return err
	})
	if err != nil {
		return 0, err
	}

	uc.metrics.RecordVolatility(label(token), v)
	uc.logger.Debug("volatility computed",
		applogger.String("token", token),
		applogger.Int("candles", len(candles)),
		applogger.Float64("percent", v),
	)
	uc.publish(ctx, token, models.KindVolatility, v, len(candles))
	return v, nil
}

func (uc *InferenceUseCase) fetch(ctx context.Context, token string) ([]models.CandleRecord, error) {
	var candles []models.CandleRecord
	err := uc.stage(ctx, "fetch", func(ctx context.Context) error {
		var err error
		candles, err = uc.candles.FetchCandles(ctx, token)
		return err
	})
	return candles, err
}

// stage runs fn inside a span and records its latency.
func (uc *InferenceUseCase) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := uc.tracer.StartSpan(ctx, "inference."+name)
	start := time.Now()
	err := fn(ctx)
	uc.metrics.RecordLatency(name, time.Since(start).Seconds())
	trace.End(span, err)
	return err
}

func (uc *InferenceUseCase) finish(ctx context.Context, span oteltrace.Span, kind, token string, err error) {
	uc.metrics.RecordRequest(kind, label(token))
	if err == nil {
		trace.End(span, nil)
		return
	}

	fields := []applogger.Field{
		applogger.String("kind", kind),
		applogger.String("token", token),
		applogger.String("error_kind", errs.Kind(err)),
		applogger.Error(err),
	}
	if traceID, spanID, ok := trace.TraceFields(ctx); ok {
		fields = append(fields, applogger.String("trace_id", traceID), applogger.String("span_id", spanID))
	}
	trace.End(span, err)

	uc.metrics.RecordError(errs.Kind(err))
	uc.logger.Warn("inference failed", fields...)
}

// publish emits the result; a failed publish never fails the request.
func (uc *InferenceUseCase) publish(ctx context.Context, token, kind string, v float64, rows int) {
	if uc.events == nil {
		return
	}
	symbol, _ := drepo.SymbolFor(token)
	ev := &models.InferenceEvent{
		Token:  label(token),
		Symbol: symbol,
		Kind:   kind,
		Value:  v,
		Rows:   rows,
		At:     uc.now().UTC(),
	}
	if err := uc.events.Publish(ctx, ev); err != nil {
		uc.logger.Error("publish inference event",
			applogger.String("token", ev.Token),
			applogger.String("kind", kind),
			applogger.Error(fmt.Errorf("publish: %w", err)),
		)
	}
}

// label maps token to a bounded metric label.
func label(token string) string {
	if _, ok := drepo.SymbolFor(token); ok {
		return strings.ToUpper(token)
	}
	return "unsupported"
}
