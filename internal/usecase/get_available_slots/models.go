package get_available_slots

import (
	"time"

	"github.com/sportafit/booking-service/internal/domain"
)

// Settings параметры сетки слотов
type Settings struct {
	SlotDurationMinutes int
	Location            *time.Location
}

// Request модель запроса на получение доступных слотов
type Request struct {
	CourtID int64     // ID корта
	Date    time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком слотов
type Response struct {
	Date         time.Time
	CourtID      int64
	ArenaID      int64
	PricePerHour int64
	Slots        []domain.AvailableSlot
}
