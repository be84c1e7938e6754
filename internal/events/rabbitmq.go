package events

import (
	"context"
	"fmt"
	"time"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/service"

	"github.com/streadway/amqp"
)

type amqpChannel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitBus — topic exchange, routing key = тип события.
type RabbitBus struct {
	conn     *amqp.Connection
	channel  amqpChannel
	exchange string
	now      func() time.Time
}

func NewRabbitBus(amqpURL, exchange string) (*RabbitBus, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &RabbitBus{conn: conn, channel: ch, exchange: exchange, now: time.Now}, nil
}

func (b *RabbitBus) publish(ctx context.Context, routingKey string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := b.now()
	body, err := encode(routingKey, data, now)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = b.channel.Publish(b.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now.UTC(),
		Type:         routingKey,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (b *RabbitBus) PublishCustomerCreated(ctx context.Context, e service.CustomerCreatedEvent) error {
	return b.publish(ctx, service.EventCustomerCreated, e)
}

func (b *RabbitBus) PublishOrderCreated(ctx context.Context, e service.OrderCreatedEvent) error {
	return b.publish(ctx, service.EventOrderCreated, e)
}

func (b *RabbitBus) PublishStockReplenished(ctx context.Context, e service.StockReplenishedEvent) error {
	return b.publish(ctx, service.EventStockReplenished, e)
}

func (b *RabbitBus) Close() error {
	if b.channel != nil {
		b.channel.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
