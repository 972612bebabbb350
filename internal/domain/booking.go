package domain

import (
	"time"

	"github.com/sportafit/booking-service/pkg/types"
)

// BookingStatus represents the lifecycle status of a court booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusExpired   BookingStatus = "expired"
)

// PaymentStatus represents the payment state of a booking
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// Booking represents a court reservation
type Booking struct {
	ID            int64
	InvoiceNumber string
	UserID        int64
	CourtID       int64
	ArenaID       int64 // денормализовано для отчётов по аренам
	VoucherID     *int64

	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString

	Status        BookingStatus
	PaymentStatus PaymentStatus
	ExpiryTime    *time.Time // только для pending

	TotalAmount      int64
	DiscountAmount   int64
	ServiceFee       int64
	FinalTotalAmount int64

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if no further status transition is possible
func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return CanTransition(b.Status, StatusCancelled)
}

// IsExpiredAt returns true if the payment window of a pending booking has lapsed.
// The window includes the expiry instant itself: a booking expires strictly after expiry_time.
func (b *Booking) IsExpiredAt(now time.Time) bool {
	return b.Status == StatusPending && b.ExpiryTime != nil && now.After(*b.ExpiryTime)
}

// HoldsSlot returns true if the booking occupies its court slot at the given moment.
// Pending bookings hold the slot until they expire.
func (b *Booking) HoldsSlot(now time.Time) bool {
	for _, status := range SlotHoldingStatuses {
		if b.Status == status {
			return !b.IsExpiredAt(now)
		}
	}
	return false
}

// Overlaps returns true if the booking time range intersects [start, end).
// Touching ranges do not overlap.
func (b *Booking) Overlaps(start, end types.TimeString) bool {
	return b.StartTime.IsBefore(end) && b.EndTime.IsAfter(start)
}

// DurationMinutes returns the booked duration
func (b *Booking) DurationMinutes() int {
	minutes, err := types.MinutesBetween(b.StartTime, b.EndTime)
	if err != nil {
		return 0
	}
	return minutes
}

// BookingsFilter фильтр для списка бронирований (админка)
type BookingsFilter struct {
	Status   *BookingStatus
	ArenaID  *int64
	CourtID  *int64
	UserID   *int64
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

// BookingStats aggregate counters for the admin dashboard.
// Revenue counts only paid bookings.
type BookingStats struct {
	Total    int64
	ByStatus map[BookingStatus]int64
	Revenue  int64
}

// DailyStat one point of the admin chart
type DailyStat struct {
	Date     time.Time
	Bookings int64
	Revenue  int64
}

// ArenaStat bookings and revenue per arena
type ArenaStat struct {
	ArenaID   int64
	ArenaName string
	Bookings  int64
	Revenue   int64
}
