package bookings

import (
	"context"
	"time"

	"github.com/sportafit/booking-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByInvoice(ctx context.Context, invoiceNumber string) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	TransitionStatus(ctx context.Context, invoiceNumber string, tr domain.Transition, reason *string, now time.Time) (*domain.Booking, error)
	Stats(ctx context.Context) (*domain.BookingStats, error)
	DailyStats(ctx context.Context, from, to time.Time) ([]domain.DailyStat, error)
	ArenaStats(ctx context.Context) ([]domain.ArenaStat, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует уведомления об изменении бронирований
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// TransitionRecorder метрики переходов статуса
type TransitionRecorder interface {
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
