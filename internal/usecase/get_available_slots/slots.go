package get_available_slots

import (
	"time"

	"github.com/sportafit/booking-service/internal/domain"
	"github.com/sportafit/booking-service/pkg/types"
)

// buildSlots размечает сетку слотов: слот свободен, если он ещё не начался
// и не пересекается ни с одним активным бронированием
// Граничащие интервалы не пересекаются: бронь 16:00-18:00 не занимает слот 18:00-19:00
func buildSlots(
	grid [][2]types.TimeString,
	date time.Time,
	now time.Time,
	pricePerHour int64,
	slotMinutes int,
	holders []*domain.Booking,
) []domain.AvailableSlot {
	result := make([]domain.AvailableSlot, 0, len(grid))

	for _, slot := range grid {
		available := true

		if startAt, err := slot[0].On(date); err != nil || !startAt.After(now) {
			available = false
		}

		if available {
			for _, b := range holders {
				if b.HoldsSlot(now) && b.Overlaps(slot[0], slot[1]) {
					available = false
					break
				}
			}
		}

		result = append(result, domain.AvailableSlot{
			StartTime: slot[0],
			EndTime:   slot[1],
			Price:     domain.PriceFor(pricePerHour, slotMinutes),
			Available: available,
		})
	}

	return result
}
