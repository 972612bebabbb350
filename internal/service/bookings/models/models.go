package models

import (
	"time"

	"github.com/sportafit/booking-service/internal/domain"
)

// Request модели

// UpdateStatusRequest запрос на изменение статуса и/или статуса оплаты
type UpdateStatusRequest struct {
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"payment_status,omitempty"`
}

// ListBookingsRequest фильтры списка бронирований для администратора
type ListBookingsRequest struct {
	Status   *string
	ArenaID  *int64
	CourtID  *int64
	UserID   *int64
	DateFrom *string // "2025-03-01"
	DateTo   *string
	Limit    int
	Offset   int
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64   `json:"id"`
	InvoiceNumber   string  `json:"invoice_number"`
	UserID          int64   `json:"user_id"`
	CourtID         int64   `json:"court_id"`
	ArenaID         int64   `json:"arena_id"`
	VoucherID       *int64  `json:"voucher_id,omitempty"`
	BookingDate     string  `json:"booking_date"` // "2025-03-15"
	StartTime       string  `json:"start_time"`   // "10:00"
	EndTime         string  `json:"end_time"`
	DurationMinutes int     `json:"duration_minutes"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"payment_status"`
	ExpiryTime      *string `json:"expiry_time,omitempty"` // RFC3339, только для pending

	TotalAmount      int64 `json:"total_amount"`
	DiscountAmount   int64 `json:"discount_amount"`
	ServiceFee       int64 `json:"service_fee"`
	FinalTotalAmount int64 `json:"final_total_amount"`

	CancellationReason *string `json:"cancellation_reason,omitempty"`
	CancelledAt        *string `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// StatsResponse сводка для админки
type StatsResponse struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
	Revenue  int64            `json:"revenue"`
}

// ChartPoint точка графика по дням
type ChartPoint struct {
	Date     string `json:"date"`
	Bookings int64  `json:"bookings"`
	Revenue  int64  `json:"revenue"`
}

// ChartDataResponse данные графика за последние N дней
type ChartDataResponse struct {
	Days   int          `json:"days"`
	Points []ChartPoint `json:"points"`
}

// ArenaStatResponse статистика по арене
type ArenaStatResponse struct {
	ArenaID   int64  `json:"arena_id"`
	ArenaName string `json:"arena_name"`
	Bookings  int64  `json:"bookings"`
	Revenue   int64  `json:"revenue"`
}

// ArenaStatsResponse статистика по всем аренам
type ArenaStatsResponse struct {
	Arenas []ArenaStatResponse `json:"arenas"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		InvoiceNumber:      b.InvoiceNumber,
		UserID:             b.UserID,
		CourtID:            b.CourtID,
		ArenaID:            b.ArenaID,
		VoucherID:          b.VoucherID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		DurationMinutes:    b.DurationMinutes(),
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		TotalAmount:        b.TotalAmount,
		DiscountAmount:     b.DiscountAmount,
		ServiceFee:         b.ServiceFee,
		FinalTotalAmount:   b.FinalTotalAmount,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.ExpiryTime != nil {
		expiry := b.ExpiryTime.Format(time.RFC3339)
		resp.ExpiryTime = &expiry
	}
	if b.CancelledAt != nil {
		cancelled := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelled
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}
	return resp
}

// FromDomainStats все статусы присутствуют в ответе, даже с нулём
func FromDomainStats(s *domain.BookingStats) *StatsResponse {
	resp := &StatsResponse{
		ByStatus: make(map[string]int64, len(domain.AllStatuses)),
	}
	for _, status := range domain.AllStatuses {
		resp.ByStatus[string(status)] = 0
	}
	if s == nil {
		return resp
	}

	resp.Total = s.Total
	resp.Revenue = s.Revenue
	for status, count := range s.ByStatus {
		resp.ByStatus[string(status)] = count
	}
	return resp
}
