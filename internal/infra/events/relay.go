package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/sportafit/booking-service/internal/domain"
)

// Transport один из каналов доставки: локальный хаб, Redis, брокер
type Transport interface {
	Publish(ctx context.Context, e domain.Event) error
}

// PublishMetrics счётчик опубликованных событий
type PublishMetrics interface {
	EventPublished(eventType string)
}

// Relay рассылает событие во все транспорты
// Доставка best-effort: сбой одного транспорта не мешает остальным
type Relay struct {
	transports []Transport
	metrics    PublishMetrics
}

func NewRelay(metrics PublishMetrics, transports ...Transport) *Relay {
	return &Relay{transports: transports, metrics: metrics}
}

func (r *Relay) Publish(ctx context.Context, e domain.Event) error {
	var errs []error
	for _, t := range r.transports {
		if err := t.Publish(ctx, e); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", t, err))
		}
	}
	r.metrics.EventPublished(string(e.Type))
	return errors.Join(errs...)
}
