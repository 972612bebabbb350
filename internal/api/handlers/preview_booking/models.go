package preview_booking

import (
	"fmt"
	"time"

	"github.com/sportafit/booking-service/internal/domain"
	previewBooking "github.com/sportafit/booking-service/internal/usecase/preview_booking"
	"github.com/sportafit/booking-service/pkg/types"
)

// PreviewRequest тело совпадает с запросом на создание бронирования
type PreviewRequest struct {
	CourtID     int64   `json:"court_id" validate:"required,gt=0"`
	BookingDate string  `json:"booking_date" validate:"required,datetime=2006-01-02"`
	StartTime   string  `json:"start_time" validate:"required"`
	EndTime     string  `json:"end_time" validate:"required"`
	VoucherCode *string `json:"voucher_code,omitempty" validate:"omitempty,max=50"`
}

// PreviewResponse расчёт стоимости
type PreviewResponse struct {
	CourtID          int64   `json:"court_id"`
	DurationMinutes  int     `json:"duration_minutes"`
	PricePerHour     int64   `json:"price_per_hour"`
	TotalAmount      int64   `json:"total_amount"`
	DiscountAmount   int64   `json:"discount_amount"`
	ServiceFee       int64   `json:"service_fee"`
	FinalTotalAmount int64   `json:"final_total_amount"`
	VoucherCode      *string `json:"voucher_code,omitempty"`
	Available        bool    `json:"available"`
}

func (r *PreviewRequest) ToUseCaseRequest(userID int64) (*previewBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("booking_date: %w", err)
	}
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("start_time: %w", err)
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("end_time: %w", err)
	}

	return &previewBooking.Request{
		UserID:      userID,
		CourtID:     r.CourtID,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		VoucherCode: r.VoucherCode,
	}, nil
}

func FromUseCaseResponse(resp *previewBooking.Response) *PreviewResponse {
	return &PreviewResponse{
		CourtID:          resp.CourtID,
		DurationMinutes:  resp.DurationMinutes,
		PricePerHour:     resp.PricePerHour,
		TotalAmount:      resp.TotalAmount,
		DiscountAmount:   resp.DiscountAmount,
		ServiceFee:       resp.ServiceFee,
		FinalTotalAmount: resp.FinalTotalAmount,
		VoucherCode:      resp.VoucherCode,
		Available:        resp.Available,
	}
}
