package create_booking

import (
	"fmt"
	"time"

	"github.com/sportafit/booking-service/internal/domain"
	createBooking "github.com/sportafit/booking-service/internal/usecase/create_booking"
	"github.com/sportafit/booking-service/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CourtID     int64   `json:"court_id" validate:"required,gt=0"`
	BookingDate string  `json:"booking_date" validate:"required,datetime=2006-01-02"` // "2025-03-15"
	StartTime   string  `json:"start_time" validate:"required"`                       // "18:00"
	EndTime     string  `json:"end_time" validate:"required"`                         // "20:00"
	VoucherCode *string `json:"voucher_code,omitempty" validate:"omitempty,max=50"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	InvoiceNumber    string    `json:"invoice_number"`
	CourtID          int64     `json:"court_id"`
	ArenaID          int64     `json:"arena_id"`
	BookingDate      string    `json:"booking_date"`
	StartTime        string    `json:"start_time"`
	EndTime          string    `json:"end_time"`
	DurationMinutes  int       `json:"duration_minutes"`
	Status           string    `json:"status"`
	PaymentStatus    string    `json:"payment_status"`
	ExpiryTime       time.Time `json:"expiry_time"`
	TotalAmount      int64     `json:"total_amount"`
	DiscountAmount   int64     `json:"discount_amount"`
	ServiceFee       int64     `json:"service_fee"`
	FinalTotalAmount int64     `json:"final_total_amount"`
	CreatedAt        time.Time `json:"created_at"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
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

	return &createBooking.Request{
		UserID:      userID,
		CourtID:     r.CourtID,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		VoucherCode: r.VoucherCode,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		InvoiceNumber:    resp.InvoiceNumber,
		CourtID:          resp.CourtID,
		ArenaID:          resp.ArenaID,
		BookingDate:      resp.BookingDate.Format(domain.DateFormat),
		StartTime:        resp.StartTime.String(),
		EndTime:          resp.EndTime.String(),
		DurationMinutes:  resp.DurationMinutes,
		Status:           resp.Status,
		PaymentStatus:    resp.PaymentStatus,
		ExpiryTime:       resp.ExpiryTime.UTC(),
		TotalAmount:      resp.TotalAmount,
		DiscountAmount:   resp.DiscountAmount,
		ServiceFee:       resp.ServiceFee,
		FinalTotalAmount: resp.FinalTotalAmount,
		CreatedAt:        resp.CreatedAt.UTC(),
	}
}
