package logger

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu      sync.Mutex
	topics  []string
	batches [][]AggregatedLogEntry
}

func (p *capturePublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.batches = append(p.batches, payload.([]AggregatedLogEntry))
	return nil
}

func (p *capturePublisher) entries() []AggregatedLogEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []AggregatedLogEntry
	for _, b := range p.batches {
		out = append(out, b...)
	}
	return out
}

func TestCollectorDeduplicatesOnClose(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 100,
		Topic:          "fincast.logs",
		Publisher:      pub,
	})

	for i := 0; i < 3; i++ {
		c.AddLog("error", "forecast failed", map[string]interface{}{"token": "BTC"}, "x.go:1")
	}
	c.AddLog("error", "forecast failed", map[string]interface{}{"token": "ETH"}, "x.go:1")
	c.Close()

	got := pub.entries()
	require.Len(t, got, 2)
	counts := map[interface{}]int{}
	for _, e := range got {
		counts[e.Fields["token"]] = e.Count
	}
	assert.Equal(t, 3, counts["BTC"])
	assert.Equal(t, 1, counts["ETH"])
	assert.Equal(t, []string{"fincast.logs"}, pub.topics)
}

func TestCollectorFlushesAtThreshold(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 2,
		Publisher:      pub,
	})
	defer c.Close()

	c.AddLog("error", "a", nil, "x.go:1")
	c.AddLog("error", "b", nil, "x.go:2")

	assert.Eventually(t, func() bool { return len(pub.entries()) == 2 }, time.Second, 10*time.Millisecond)
}

func TestLoggerFeedsCollectorOnError(t *testing.T) {
	pub := &capturePublisher{}
	var buf bytes.Buffer
	l := NewWithWriter(&buf)
	l.AddCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 100, Publisher: pub})

	l.Info("ignored")
	l.Error("fetch failed", String("token", "SOL"), Error(errors.New("boom")), Float64("latency", 0.5))
	l.RemoveCollector()

	got := pub.entries()
	require.Len(t, got, 1)
	assert.Equal(t, "fetch failed", got[0].Message)
	assert.Equal(t, "boom", got[0].Fields["error"])
	assert.Contains(t, buf.String(), `"token":"SOL"`)
}

func TestWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf).With(String("component", "binance"))
	l.Info("fetched", Int("rows", 999))

	assert.Contains(t, buf.String(), `"component":"binance"`)
	assert.Contains(t, buf.String(), `"rows":999`)
}

func TestCollectorIgnoresLogsAfterClose(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 1, Publisher: pub})
	c.Close()
	c.Close()

	c.AddLog("error", "late", nil, "x.go:1")
	assert.Empty(t, pub.entries())
}

func TestRemoveCollectorWhileLogging(t *testing.T) {
	pub := &capturePublisher{}
	l := NewNop()
	l.AddCollector(&CollectionConfig{TimeInterval: time.Millisecond, CountThreshold: 2, Publisher: pub})
	child := l.With(String("component", "pipeline"))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for n := 0; ; n++ {
				select {
				case <-stop:
					return
				default:
				}
				child.Error("publish failed", Int("worker", i), Int("n", n%3))
			}
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	l.RemoveCollector()
	time.Sleep(5 * time.Millisecond)
	close(stop)
	wg.Wait()

	seen := len(pub.entries())
	child.Error("after removal")
	l.RemoveCollector()
	assert.Equal(t, seen, len(pub.entries()))
}
