package preview_booking

import (
	"context"
	"time"

	"github.com/sportafit/booking-service/internal/domain"
)

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetByID(ctx context.Context, courtID int64) (*domain.Court, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetSlotHolders(ctx context.Context, courtID int64, date time.Time, now time.Time) ([]*domain.Booking, error)
}

// VoucherRepository интерфейс репозитория ваучеров
type VoucherRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Voucher, error)
	GetUserVoucher(ctx context.Context, userID, voucherID int64) (*domain.UserVoucher, error)
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
