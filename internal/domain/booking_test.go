package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sportafit/booking-service/pkg/ptr"
)

func TestBooking_HoldsSlot(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	pendingAlive := &Booking{Status: StatusPending, ExpiryTime: ptr.Ptr(now.Add(time.Minute))}
	pendingLapsed := &Booking{Status: StatusPending, ExpiryTime: ptr.Ptr(now.Add(-time.Minute))}

	assert.True(t, pendingAlive.HoldsSlot(now))
	assert.False(t, pendingLapsed.HoldsSlot(now))
	assert.True(t, pendingLapsed.IsExpiredAt(now))
	assert.True(t, (&Booking{Status: StatusConfirmed}).HoldsSlot(now))
	assert.True(t, (&Booking{Status: StatusCompleted}).HoldsSlot(now))
	assert.False(t, (&Booking{Status: StatusCancelled}).HoldsSlot(now))
	assert.False(t, (&Booking{Status: StatusExpired}).HoldsSlot(now))
}

func TestBooking_ExpiryBoundary(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	// окно оплаты включает сам момент expiry_time, как и выборка expiry_time < now
	atExpiry := &Booking{Status: StatusPending, ExpiryTime: ptr.Ptr(now)}
	assert.False(t, atExpiry.IsExpiredAt(now))
	assert.True(t, atExpiry.HoldsSlot(now))

	later := now.Add(time.Nanosecond)
	assert.True(t, atExpiry.IsExpiredAt(later))
	assert.False(t, atExpiry.HoldsSlot(later))

	paid := &Booking{Status: StatusConfirmed, ExpiryTime: ptr.Ptr(now.Add(-time.Hour))}
	assert.False(t, paid.IsExpiredAt(now))
	assert.False(t, (&Booking{Status: StatusPending}).IsExpiredAt(now))
}

func TestBooking_Overlaps(t *testing.T) {
	b := &Booking{StartTime: "10:00", EndTime: "12:00"}

	assert.True(t, b.Overlaps("11:00", "13:00"))
	assert.True(t, b.Overlaps("09:00", "10:30"))
	assert.True(t, b.Overlaps("10:00", "12:00"))
	assert.False(t, b.Overlaps("12:00", "13:00"))
	assert.False(t, b.Overlaps("08:00", "10:00"))
	assert.Equal(t, 120, b.DurationMinutes())
}

func TestNewInvoiceNumber(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	inv := NewInvoiceNumber(now)

	assert.Regexp(t, regexp.MustCompile(`^INV-20250310-[0-9A-F]{8}$`), inv)
	assert.NotEqual(t, inv, NewInvoiceNumber(now))
}

func TestEventType_RoutingKey(t *testing.T) {
	assert.Equal(t, "booking.created", EventBookingCreated.RoutingKey())
	assert.Equal(t, "booking.expired", EventBookingExpired.RoutingKey())
}

func TestArena_IsOpenDuring(t *testing.T) {
	a := &Arena{OpenTime: "08:00", CloseTime: "22:00"}
	assert.True(t, a.IsOpenDuring("08:00", "09:00"))
	assert.True(t, a.IsOpenDuring("21:00", "22:00"))
	assert.False(t, a.IsOpenDuring("07:00", "08:00"))
	assert.False(t, a.IsOpenDuring("21:00", "23:00"))
}
