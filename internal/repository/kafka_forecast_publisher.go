package repository

import (
	"context"
	"fmt"

	"PriceCast/internal/domain/models"
	drepo "PriceCast/internal/domain/repository"
	pkgkafka "PriceCast/pkg/kafka"
)

// KafkaForecastPublisher emits completed forecasts keyed by symbol so
// downstream consumers see per-symbol ordering.
type KafkaForecastPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaForecastPublisher creates the publisher.
func NewKafkaForecastPublisher(producer *pkgkafka.Producer, topic string) drepo.ForecastPublisher {
	return &KafkaForecastPublisher{producer: producer, topic: topic}
}

func (p *KafkaForecastPublisher) Publish(ctx context.Context, f *models.Forecast) error {
	if f == nil || len(f.Points) == 0 {
		return nil
	}
	if err := p.producer.Publish(ctx, p.topic, []byte(f.Symbol), f); err != nil {
		return fmt.Errorf("publish forecast: %w", err)
	}
	return nil
}

func (p *KafkaForecastPublisher) Close() error {
	return p.producer.Close()
}

// NopForecastPublisher discards events when the broker is disabled.
type NopForecastPublisher struct{}

func NewNopForecastPublisher() drepo.ForecastPublisher { return &NopForecastPublisher{} }

func (NopForecastPublisher) Publish(context.Context, *models.Forecast) error { return nil }
func (NopForecastPublisher) Close() error                                    { return nil }
