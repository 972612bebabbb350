package create_booking

import (
	"time"

	"github.com/sportafit/booking-service/pkg/types"
)

// Settings параметры бронирования из конфигурации
type Settings struct {
	ExpiryWindow        time.Duration  // окно оплаты pending бронирования
	ServiceFee          int64          // сервисный сбор, рупии
	SlotDurationMinutes int            // шаг сетки слотов
	Location            *time.Location // часовой пояс арен
}

// Request модель запроса на создание бронирования
type Request struct {
	UserID      int64            // ID пользователя
	CourtID     int64            // ID корта
	Date        time.Time        // Дата бронирования (без времени)
	StartTime   types.TimeString // Время начала, например "18:00"
	EndTime     types.TimeString // Время окончания, например "20:00"
	VoucherCode *string          // Код ваучера (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	InvoiceNumber   string
	CourtID         int64
	ArenaID         int64
	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          string
	PaymentStatus   string
	ExpiryTime      time.Time

	TotalAmount      int64
	DiscountAmount   int64
	ServiceFee       int64
	FinalTotalAmount int64

	CreatedAt time.Time
}
