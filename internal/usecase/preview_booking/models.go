package preview_booking

import (
	"time"

	"github.com/sportafit/booking-service/pkg/types"
)

// Settings параметры расчёта из конфигурации
type Settings struct {
	ServiceFee          int64
	SlotDurationMinutes int
	Location            *time.Location
}

// Request тот же набор полей, что и при создании бронирования
type Request struct {
	UserID      int64
	CourtID     int64
	Date        time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	VoucherCode *string
}

// Response расчёт стоимости без создания бронирования
type Response struct {
	CourtID          int64
	DurationMinutes  int
	PricePerHour     int64
	TotalAmount      int64
	DiscountAmount   int64
	ServiceFee       int64
	FinalTotalAmount int64
	VoucherCode      *string // применённый ваучер
	Available        bool    // слот свободен на момент запроса
}
