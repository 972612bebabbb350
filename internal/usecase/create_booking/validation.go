package create_booking

import (
	"fmt"
	"strings"

	"github.com/sportafit/booking-service/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.CourtID <= 0 {
		return fmt.Errorf("%w: court_id must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: booking_date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: start_time and end_time are required", ErrInvalidInput)
	}

	if req.VoucherCode != nil {
		code := strings.TrimSpace(*req.VoucherCode)
		if len(code) > domain.MaxVoucherCodeLength {
			return fmt.Errorf("%w: voucher_code is longer than %d characters", ErrInvalidInput, domain.MaxVoucherCodeLength)
		}
		if code == "" {
			req.VoucherCode = nil
		} else {
			req.VoucherCode = &code
		}
	}

	return nil
}

// findOverlap возвращает первое бронирование, пересекающееся с интервалом
// Граничащие интервалы не пересекаются
func findOverlap(req *Request, holders []*domain.Booking) *domain.Booking {
	for _, b := range holders {
		if b.Overlaps(req.StartTime, req.EndTime) {
			return b
		}
	}
	return nil
}
