package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStatus unknown booking status value
	ErrInvalidStatus = errors.New("domain: invalid booking status")

	// ErrInvalidPaymentStatus unknown payment status value
	ErrInvalidPaymentStatus = errors.New("domain: invalid payment status")

	// ErrTerminalState booking is completed, cancelled or expired
	ErrTerminalState = errors.New("domain: booking is in a terminal state")

	// ErrInvalidTransition status change is not in the transition table
	ErrInvalidTransition = errors.New("domain: invalid status transition")

	// ErrInvalidPaymentTransition payment status change is not allowed
	ErrInvalidPaymentTransition = errors.New("domain: invalid payment status transition")

	// ErrNothingToChange requested state equals the current one
	ErrNothingToChange = errors.New("domain: nothing to change")
)

// ErrVoucherIneligible общая ошибка неприменимого ваучера, конкретные причины оборачивают её
var ErrVoucherIneligible = errors.New("domain: voucher is not eligible")

var (
	ErrVoucherInactive     = fmt.Errorf("%w: voucher is inactive", ErrVoucherIneligible)
	ErrVoucherNotValidNow  = fmt.Errorf("%w: voucher is outside its validity window", ErrVoucherIneligible)
	ErrVoucherExhausted    = fmt.Errorf("%w: voucher usage limit reached", ErrVoucherIneligible)
	ErrVoucherNotClaimed   = fmt.Errorf("%w: voucher is not claimed by the user", ErrVoucherIneligible)
	ErrVoucherUsed         = fmt.Errorf("%w: voucher is already used", ErrVoucherIneligible)
	ErrVoucherBelowMinimum = fmt.Errorf("%w: booking price is below the voucher minimum purchase", ErrVoucherIneligible)
)

// ErrInvalidSlot общая ошибка некорректного интервала бронирования
var ErrInvalidSlot = errors.New("domain: invalid booking slot")

var (
	ErrInvalidTimeRange    = fmt.Errorf("%w: invalid time range", ErrInvalidSlot)
	ErrDateInPast          = fmt.Errorf("%w: booking date is in the past", ErrInvalidSlot)
	ErrDurationTooLong     = fmt.Errorf("%w: booking is too long", ErrInvalidSlot)
	ErrOutsideOpeningHours = fmt.Errorf("%w: outside arena opening hours", ErrInvalidSlot)
	ErrOffGrid             = fmt.Errorf("%w: time is not on the slot grid", ErrInvalidSlot)
	ErrSlotStarted         = fmt.Errorf("%w: slot has already started", ErrInvalidSlot)
)
