package get_available_slots

import (
	"time"

	"github.com/sportafit/booking-service/internal/domain"
	getAvailableSlots "github.com/sportafit/booking-service/internal/usecase/get_available_slots"
)

// SlotResponse HTTP response model
type SlotResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Price     int64  `json:"price"`
	Available bool   `json:"available"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date         string         `json:"date"`
	CourtID      int64          `json:"court_id"`
	ArenaID      int64          `json:"arena_id"`
	PricePerHour int64          `json:"price_per_hour"`
	Slots        []SlotResponse `json:"slots"`
}

// ToUseCaseRequest конвертирует параметры запроса в модель use case
func ToUseCaseRequest(courtID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}
	return &getAvailableSlots.Request{CourtID: courtID, Date: date}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
			Price:     s.Price,
			Available: s.Available,
		})
	}

	return &AvailableSlotsResponse{
		Date:         resp.Date.Format(domain.DateFormat),
		CourtID:      resp.CourtID,
		ArenaID:      resp.ArenaID,
		PricePerHour: resp.PricePerHour,
		Slots:        slots,
	}
}
