package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"FinCast/internal/domain/models"
	domrepo "FinCast/internal/domain/repository"
	applogger "FinCast/pkg/logger"
)

// EventPipeline sits between the inference use case and the event sink. It
// validates events, buffers them, and publishes from a background worker so
// a slow broker never delays a response. Events that do not fit the buffer
// or fail to publish are dropped.
type EventPipeline struct {
	sink      domrepo.EventPublisher
	metrics   domrepo.Metrics
	logger    *applogger.Logger
	bufSize   int
	bufCh     chan *models.InferenceEvent
	publishTO time.Duration
	mu        sync.Mutex
	started   bool
	closed    bool
	done      chan struct{}
}

type PipelineOption func(*EventPipeline)

// WithBufferSize sets how many events may wait for the worker.
func WithBufferSize(n int) PipelineOption {
	return func(p *EventPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithPublishTimeout bounds each publish to the sink.
func WithPublishTimeout(d time.Duration) PipelineOption {
	return func(p *EventPipeline) {
		if d > 0 {
			p.publishTO = d
		}
	}
}

// WithLogger sets the logger used for dropped events.
func WithLogger(l *applogger.Logger) PipelineOption {
	return func(p *EventPipeline) { p.logger = l }
}

// NewEventPipeline creates a new pipeline in front of sink.
func NewEventPipeline(sink domrepo.EventPublisher, metrics domrepo.Metrics, opts ...PipelineOption) *EventPipeline {
	p := &EventPipeline{
		sink:      sink,
		metrics:   metrics,
		logger:    applogger.NewNop(),
		bufSize:   1000,
		publishTO: 10 * time.Second,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan *models.InferenceEvent, p.bufSize)
	return p
}

// Start launches the background worker. It runs until Close.
func (p *EventPipeline) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.closed {
		return
	}
	p.started = true

	go func() {
		defer close(p.done)
		for ev := range p.bufCh {
			p.flush(ev)
		}
	}()
}

func (p *EventPipeline) flush(ev *models.InferenceEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), p.publishTO)
	defer cancel()

	start := time.Now()
	if err := p.sink.Publish(ctx, ev); err != nil {
		p.metrics.RecordError("event_publish")
		p.logger.Error("inference event dropped",
			applogger.String("token", ev.Token),
			applogger.String("kind", ev.Kind),
			applogger.Error(err),
		)
		return
	}
	p.metrics.RecordLatency("event_publish", time.Since(start).Seconds())
}

// Publish validates ev and queues it without blocking.
func (p *EventPipeline) Publish(_ context.Context, ev *models.InferenceEvent) error {
	if err := validateEvent(ev); err != nil {
		p.metrics.RecordError("event_invalid")
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return fmt.Errorf("event pipeline closed")
	}
	select {
	case p.bufCh <- ev:
		return nil
	default:
		p.metrics.RecordError("event_buffer_full")
		return fmt.Errorf("event buffer full (%d)", p.bufSize)
	}
}

// Close stops accepting events, drains the buffer and closes the sink.
func (p *EventPipeline) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	started := p.started
	close(p.bufCh)
	p.mu.Unlock()

	if started {
		<-p.done
	}
	return p.sink.Close()
}

func validateEvent(ev *models.InferenceEvent) error {
	if ev == nil {
		return fmt.Errorf("event nil")
	}
	if ev.Token == "" {
		return fmt.Errorf("token empty")
	}
	if ev.Kind != models.KindValue && ev.Kind != models.KindVolatility {
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	return nil
}

var _ domrepo.EventPublisher = (*EventPipeline)(nil)
