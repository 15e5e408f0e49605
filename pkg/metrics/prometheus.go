package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	requests       *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	lastForecast   *prometheus.GaugeVec
	lastVolatility *prometheus.GaugeVec
	latency        *prometheus.HistogramVec
}

// New creates a Prometheus metrics recorder registered on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincast_inference_requests_total",
				Help: "Total number of inference requests by kind and token",
			},
			[]string{"kind", "token"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincast_errors_total",
				Help: "Total number of pipeline errors by kind",
			},
			[]string{"type"},
		),
		lastForecast: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fincast_last_forecast",
				Help: "Last forecast value for a token",
			},
			[]string{"token"},
		),
		lastVolatility: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fincast_last_volatility_percent",
				Help: "Last volatility percentage for a token",
			},
			[]string{"token"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fincast_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordRequest counts one inference request.
func (r *Recorder) RecordRequest(kind, token string) {
	r.requests.WithLabelValues(kind, token).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordForecast records the last forecast for a token.
func (r *Recorder) RecordForecast(token string, value float64) {
	r.lastForecast.WithLabelValues(token).Set(value)
}

// RecordVolatility records the last volatility for a token.
func (r *Recorder) RecordVolatility(token string, pct float64) {
	r.lastVolatility.WithLabelValues(token).Set(pct)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
