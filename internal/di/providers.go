package di

import (
	"context"
	"fmt"
	"time"

	"FinCast/internal/domain/repository"
	"FinCast/internal/handler/api"
	mid "FinCast/internal/middleware"
	internalrepo "FinCast/internal/repository"
	"FinCast/internal/service/binance"
	"FinCast/internal/service/ratelimit"
	"FinCast/internal/services/analytics"
	"FinCast/internal/usecase"
	"FinCast/pkg/config"
	xhttp "FinCast/pkg/http"
	httpmw "FinCast/pkg/http/middleware"
	pkgkafka "FinCast/pkg/kafka"
	applogger "FinCast/pkg/logger"
	"FinCast/pkg/metrics"
	xredis "FinCast/pkg/redis"
	"FinCast/pkg/server"
	"FinCast/pkg/trace"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

const modelLoadTimeout = 30 * time.Second

// ProvideRegistry creates the Prometheus registry shared by every collector.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideKafkaProducer creates a Kafka producer. Nil when kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config, reg *prometheus.Registry) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithAsync(cfg.Kafka.Async),
		pkgkafka.WithMetrics(reg),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideLogger creates the application logger and attaches the error log
// collector when configured.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	if cfg.Logging.Collector.Enabled && producer != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   cfg.Logging.Collector.Interval,
			CountThreshold: cfg.Logging.Collector.Threshold,
			Topic:          cfg.Logging.Collector.Topic,
			Publisher:      producer,
		})
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.New(reg)
}

// ProvideTracer creates the tracer; disabled tracing yields no-op spans.
func ProvideTracer(cfg *config.Config) (*trace.Tracer, error) {
	t, err := trace.New(trace.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
	})
	if err != nil {
		return nil, fmt.Errorf("tracer: %w", err)
	}
	return t, nil
}

// ProvideEventPublisher puts the buffered event pipeline in front of Kafka.
func ProvideEventPublisher(
	cfg *config.Config,
	producer *pkgkafka.Producer,
	m repository.Metrics,
	l *applogger.Logger,
) repository.EventPublisher {
	if producer == nil {
		return internalrepo.NopEventPublisher{}
	}
	pipe := mid.NewEventPipeline(
		internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.Topic),
		m,
		mid.WithBufferSize(cfg.Kafka.Events.BufferSize),
		mid.WithPublishTimeout(cfg.Kafka.Events.PublishTimeout),
		mid.WithLogger(l),
	)
	pipe.Start()
	return pipe
}

// ProvideRedisClient connects to Redis. Nil unless the redis rate limit
// backend is in use.
func ProvideRedisClient(cfg *config.Config) (*redis.Client, error) {
	if !cfg.RateLimit.Enabled || cfg.RateLimit.Backend != "redis" {
		return nil, nil
	}
	client, err := xredis.NewClient(context.Background(),
		xredis.WithAddr(cfg.Redis.Addr),
		xredis.WithPassword(cfg.Redis.Password),
		xredis.WithDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis client: %w", err)
	}
	return client, nil
}

// ProvideLimiter picks the rate limit backend. Nil when rate limiting is off.
func ProvideLimiter(cfg *config.Config, rdb *redis.Client) httpmw.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	if cfg.RateLimit.Backend == "redis" && rdb != nil {
		return ratelimit.NewRedis(rdb, cfg.Redis.Prefix, cfg.RateLimit.Window, cfg.RateLimit.Limit)
	}
	return ratelimit.NewMemory(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
}

// ProvideCandleSource creates the Binance klines client.
func ProvideCandleSource(cfg *config.Config, l *applogger.Logger) repository.CandleSource {
	return binance.New(cfg.Binance.BaseURL, xhttp.NewClient(), l)
}

// ProvideForecaster creates the model service client.
func ProvideForecaster(cfg *config.Config) *analytics.HTTPForecaster {
	fc := analytics.ForecasterConfig{
		ServiceURL:  cfg.Model.ServiceURL,
		Model:       cfg.Model.Name,
		HealthPath:  cfg.Model.HealthPath,
		PredictPath: cfg.Model.PredictPath,
	}
	return analytics.NewHTTPForecaster(fc, analytics.NewHTTPServiceBase(fc.ServiceURL, xhttp.NewClient()))
}

// ProvideModelHandle loads the model once. A failed load is logged and kept;
// the service still starts and answers value requests with an error.
func ProvideModelHandle(cfg *config.Config, f *analytics.HTTPForecaster, l *applogger.Logger) *analytics.ModelHandle {
	ctx, cancel := context.WithTimeout(context.Background(), modelLoadTimeout)
	defer cancel()

	h := analytics.LoadModel(ctx, f, f.Ping, cfg.Model.SerializePredict)
	if err := h.Err(); err != nil {
		l.Error("model load failed",
			applogger.String("model", cfg.Model.Name),
			applogger.String("service_url", cfg.Model.ServiceURL),
			applogger.Error(err),
		)
	} else {
		l.Info("model loaded", applogger.String("model", cfg.Model.Name))
	}
	return h
}

// ProvideForecastAdapter creates the value forecaster over the loaded model.
func ProvideForecastAdapter(h *analytics.ModelHandle) usecase.ValueForecaster {
	return analytics.NewForecastAdapter(h)
}

// ProvideInferenceUseCase creates the inference use case.
func ProvideInferenceUseCase(
	candles repository.CandleSource,
	forecaster usecase.ValueForecaster,
	m repository.Metrics,
	events repository.EventPublisher,
	tracer *trace.Tracer,
	l *applogger.Logger,
) *usecase.InferenceUseCase {
	return usecase.NewInferenceUseCase(candles, forecaster, m, events, tracer, l)
}

// ProvideHTTPHandler creates the inference routes, rate limited when a
// limiter is configured.
func ProvideHTTPHandler(l *applogger.Logger, uc *usecase.InferenceUseCase, limiter httpmw.Limiter) xhttp.Handler {
	if limiter == nil {
		return api.NewInferenceEchoHandler(l, uc)
	}
	return api.NewInferenceEchoHandler(l, uc, httpmw.RateLimit(limiter, l))
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, h xhttp.Handler, l *applogger.Logger, reg *prometheus.Registry) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(reg, cfg.Metrics.Path))
	}
	return xhttp.NewServer(h, l, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	srv *xhttp.Server,
	events repository.EventPublisher,
	tracer *trace.Tracer,
	rdb *redis.Client,
	l *applogger.Logger,
) *server.App {
	return server.New(cfg, srv, events, tracer, rdb, l)
}
