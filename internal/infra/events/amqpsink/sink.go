package amqpsink

import (
	"context"
	"fmt"
	"time"

	"github.com/sportafit/booking-service/internal/domain"
)

// Publisher публикация JSON в topic exchange
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Message сообщение для других сервисов (уведомления, аналитика)
type Message struct {
	Event      domain.EventType    `json:"event"`
	UserID     int64               `json:"userId"`
	Data       domain.EventPayload `json:"data"`
	OccurredAt time.Time           `json:"occurredAt"`
}

// Sink публикует события бронирований в booking exchange с ключом booking.<действие>
type Sink struct {
	publisher Publisher
	now       func() time.Time
}

func New(publisher Publisher) *Sink {
	return &Sink{publisher: publisher, now: time.Now}
}

// Publish реализует events.Transport
func (s *Sink) Publish(ctx context.Context, e domain.Event) error {
	msg := Message{
		Event:      e.Type,
		UserID:     e.UserID,
		Data:       e.Payload,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.PublishJSON(ctx, e.Type.RoutingKey(), msg); err != nil {
		return fmt.Errorf("amqpsink: publish %s: %w", e.Type, err)
	}
	return nil
}
