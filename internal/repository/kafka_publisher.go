package repository

import (
	"context"

	"FinCast/internal/domain/models"
	"FinCast/internal/domain/repository"
)

type producer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaEventPublisher writes inference events keyed by token so each
// token's events stay ordered within a partition.
type KafkaEventPublisher struct {
	producer producer
	topic    string
}

// NewKafkaEventPublisher creates Kafka publisher. p is typically a *kafka.Producer.
func NewKafkaEventPublisher(p producer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: p, topic: topic}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, ev *models.InferenceEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.Token), ev)
}

func (p *KafkaEventPublisher) Close() error {
	return p.producer.Close()
}

// NopEventPublisher drops every event.
type NopEventPublisher struct{}

func (NopEventPublisher) Publish(context.Context, *models.InferenceEvent) error { return nil }

func (NopEventPublisher) Close() error { return nil }

var (
	_ repository.EventPublisher = (*KafkaEventPublisher)(nil)
	_ repository.EventPublisher = NopEventPublisher{}
)
