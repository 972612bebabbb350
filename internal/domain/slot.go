package domain

import (
	"fmt"
	"time"

	"github.com/sportafit/booking-service/pkg/types"
)

// AvailableSlot represents a court time slot on the booking grid
type AvailableSlot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Price     int64
	Available bool
}

// ValidateSlot checks that [start, end) on date can be booked at now.
// date must carry the arena time zone; now is converted into it.
func ValidateSlot(arena *Arena, date time.Time, start, end types.TimeString, now time.Time, gridMinutes int) error {
	if err := start.Validate(); err != nil {
		return fmt.Errorf("%w: start_time %q", ErrInvalidTimeRange, start)
	}
	if err := end.Validate(); err != nil {
		return fmt.Errorf("%w: end_time %q", ErrInvalidTimeRange, end)
	}

	now = now.In(date.Location())
	if IsDateInPast(date, now) {
		return ErrDateInPast
	}

	minutes, err := types.MinutesBetween(start, end)
	if err != nil || minutes <= 0 {
		return fmt.Errorf("%w: end_time must be after start_time", ErrInvalidTimeRange)
	}
	if minutes > MaxBookingDurationMinutes {
		return fmt.Errorf("%w: at most %d minutes", ErrDurationTooLong, MaxBookingDurationMinutes)
	}

	if !arena.IsOpenDuring(start, end) {
		return fmt.Errorf("%w: arena is open %s-%s", ErrOutsideOpeningHours, arena.OpenTime, arena.CloseTime)
	}

	if gridMinutes > 0 {
		open, _ := arena.OpenTime.Minutes()
		startMin, _ := start.Minutes()
		if (startMin-open)%gridMinutes != 0 || minutes%gridMinutes != 0 {
			return fmt.Errorf("%w: slots are %d minutes long starting at %s", ErrOffGrid, gridMinutes, arena.OpenTime)
		}
	}

	startAt, err := start.On(date)
	if err != nil {
		return fmt.Errorf("%w: start_time %q", ErrInvalidTimeRange, start)
	}
	if !startAt.After(now) {
		return ErrSlotStarted
	}

	return nil
}

// GenerateSlots splits opening hours into consecutive slots of gridMinutes.
// A trailing remainder shorter than a slot is dropped.
func GenerateSlots(arena *Arena, gridMinutes int) ([][2]types.TimeString, error) {
	open, err := arena.OpenTime.Minutes()
	if err != nil {
		return nil, err
	}
	closing, err := arena.CloseTime.Minutes()
	if err != nil {
		return nil, err
	}
	if gridMinutes <= 0 {
		return nil, fmt.Errorf("%w: slot duration must be positive", ErrInvalidTimeRange)
	}

	slots := make([][2]types.TimeString, 0)
	for m := open; m+gridMinutes <= closing; m += gridMinutes {
		start, err := types.FromMinutes(m)
		if err != nil {
			return nil, err
		}
		end, err := types.FromMinutes(m + gridMinutes)
		if err != nil {
			return nil, err
		}
		slots = append(slots, [2]types.TimeString{start, end})
	}
	return slots, nil
}

// IsDateInPast проверяет, что дата раньше сегодняшнего дня
func IsDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
}

// DateOnly календарная дата без времени в UTC, так она хранится в колонке DATE
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
