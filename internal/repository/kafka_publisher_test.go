package repository

import (
	"context"
	"testing"
	"time"

	"FinCast/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProducer struct {
	topic  string
	key    []byte
	value  interface{}
	closed bool
}

func (r *recordingProducer) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	r.topic, r.key, r.value = topic, key, value
	return nil
}

func (r *recordingProducer) Close() error {
	r.closed = true
	return nil
}

func TestKafkaEventPublisher(t *testing.T) {
	prod := &recordingProducer{}
	pub := NewKafkaEventPublisher(prod, "fincast.inference")

	ev := &models.InferenceEvent{
		Token:  "BTC",
		Symbol: "BTCUSDT",
		Kind:   models.KindValue,
		Value:  64000.25,
		Rows:   966,
		At:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, pub.Publish(context.Background(), ev))

	assert.Equal(t, "fincast.inference", prod.topic)
	assert.Equal(t, []byte("BTC"), prod.key)
	assert.Same(t, ev, prod.value)

	require.NoError(t, pub.Close())
	assert.True(t, prod.closed)
}

func TestNopEventPublisher(t *testing.T) {
	var pub NopEventPublisher
	assert.NoError(t, pub.Publish(context.Background(), &models.InferenceEvent{}))
	assert.NoError(t, pub.Close())
}
