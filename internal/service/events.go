package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventCustomerCreated  = "customer.created"
	EventOrderCreated     = "order.created"
	EventStockReplenished = "product.stock_replenished"
)

type CustomerCreatedEvent struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
}

type OrderItemEvent struct {
	ProductID      uuid.UUID `json:"product_id"`
	Quantity       int32     `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	LineTotalCents int64     `json:"line_total_cents"`
}

type OrderCreatedEvent struct {
	OrderID       uuid.UUID        `json:"order_id"`
	CustomerID    uuid.UUID        `json:"customer_id"`
	CustomerEmail string           `json:"customer_email"`
	Items         []OrderItemEvent `json:"items"`
	TotalCents    int64            `json:"total_cents"`
	OrderDate     time.Time        `json:"order_date"`
}

type StockReplenishedEvent struct {
	ProductIDs   []uuid.UUID `json:"product_ids"`
	UpdatedCount int64       `json:"updated_count"`
	Threshold    int32       `json:"threshold"`
	Floor        int32       `json:"floor"`
	Increment    int32       `json:"increment,omitempty"`
	At           time.Time   `json:"at"`
}

// EventBus публикует доменные события после коммита.
type EventBus interface {
	PublishCustomerCreated(ctx context.Context, e CustomerCreatedEvent) error
	PublishOrderCreated(ctx context.Context, e OrderCreatedEvent) error
	PublishStockReplenished(ctx context.Context, e StockReplenishedEvent) error
}
