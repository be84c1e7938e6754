package events

import (
	"context"
	"time"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/service"

	"github.com/segmentio/kafka-go"
)

const publishTimeout = 5 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaBus пишет доменные события в один топик, ключ — id агрегата.
type KafkaBus struct {
	writer messageWriter
	now    func() time.Time
}

func NewKafkaBus(brokers []string, topic string) *KafkaBus {
	return &KafkaBus{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		now: time.Now,
	}
}

func (b *KafkaBus) publish(ctx context.Context, key, eventType string, data any) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	value, err := encode(eventType, data, b.now())
	if err != nil {
		return err
	}
	return b.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	})
}

func (b *KafkaBus) PublishCustomerCreated(ctx context.Context, e service.CustomerCreatedEvent) error {
	return b.publish(ctx, e.CustomerID.String(), service.EventCustomerCreated, e)
}

func (b *KafkaBus) PublishOrderCreated(ctx context.Context, e service.OrderCreatedEvent) error {
	return b.publish(ctx, e.OrderID.String(), service.EventOrderCreated, e)
}

func (b *KafkaBus) PublishStockReplenished(ctx context.Context, e service.StockReplenishedEvent) error {
	return b.publish(ctx, service.EventStockReplenished, service.EventStockReplenished, e)
}

func (b *KafkaBus) Close() error {
	return b.writer.Close()
}
