package vouchers

import (
	"context"
	"time"

	"github.com/sportafit/booking-service/internal/domain"
)

// VoucherRepository интерфейс репозитория ваучеров
type VoucherRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Voucher, error)
	Claim(ctx context.Context, userID, voucherID int64, now time.Time) (*domain.UserVoucher, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.UserVoucher, error)
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
