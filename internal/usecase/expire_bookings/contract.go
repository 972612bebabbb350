package expire_bookings

import (
	"context"
	"time"

	"github.com/sportafit/booking-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*domain.Booking, error)
	TransitionStatus(ctx context.Context, invoiceNumber string, tr domain.Transition, reason *string, now time.Time) (*domain.Booking, error)
}

// EventPublisher публикует уведомления об изменении бронирований
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// Metrics счётчики истёкших бронирований
type Metrics interface {
	AddExpired(n int)
	ObserveTransition(from, to string)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
