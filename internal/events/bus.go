package events

import (
	"context"
	"fmt"
	"io"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/service"

	"go.uber.org/zap"
)

const (
	KindNone     = "none"
	KindKafka    = "kafka"
	KindRabbitMQ = "rabbitmq"
)

type Config struct {
	Kind         string
	KafkaBrokers []string
	KafkaTopic   string
	RabbitURL    string
	RabbitExch   string
}

type NopBus struct{}

func (NopBus) PublishCustomerCreated(context.Context, service.CustomerCreatedEvent) error {
	return nil
}
func (NopBus) PublishOrderCreated(context.Context, service.OrderCreatedEvent) error { return nil }
func (NopBus) PublishStockReplenished(context.Context, service.StockReplenishedEvent) error {
	return nil
}
func (NopBus) Close() error { return nil }

type Bus interface {
	service.EventBus
	io.Closer
}

var (
	_ Bus = (*KafkaBus)(nil)
	_ Bus = (*RabbitBus)(nil)
	_ Bus = NopBus{}
)

func New(cfg Config, log *zap.Logger) (Bus, error) {
	switch cfg.Kind {
	case "", KindNone:
		log.Info("event bus отключён")
		return NopBus{}, nil
	case KindKafka:
		if len(cfg.KafkaBrokers) == 0 || cfg.KafkaTopic == "" {
			return nil, fmt.Errorf("kafka event bus: brokers and topic are required")
		}
		log.Info("event bus: kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
		return NewKafkaBus(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	case KindRabbitMQ:
		b, err := NewRabbitBus(cfg.RabbitURL, cfg.RabbitExch)
		if err != nil {
			return nil, err
		}
		log.Info("event bus: rabbitmq", zap.String("exchange", cfg.RabbitExch))
		return b, nil
	}
	return nil, fmt.Errorf("unknown event bus %q", cfg.Kind)
}
