package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Envelope — общий формат сообщения для Kafka и RabbitMQ.
type Envelope struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

func encode(eventType string, data any, now time.Time) ([]byte, error) {
	return json.Marshal(Envelope{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: now.UTC(),
		Data:       data,
	})
}
