package handlers

import (
	"errors"

	"github.com/sportafit/booking-service/internal/domain"
)

// domainMessages причины отказа, которые показываются клиенту как есть
var domainMessages = []struct {
	err error
	msg string
}{
	{domain.ErrInvalidTimeRange, "end_time must be after start_time"},
	{domain.ErrDateInPast, "booking date is in the past"},
	{domain.ErrDurationTooLong, "booking is longer than allowed"},
	{domain.ErrOutsideOpeningHours, "requested time is outside arena opening hours"},
	{domain.ErrOffGrid, "requested time does not match the slot grid"},
	{domain.ErrSlotStarted, "slot has already started"},

	{domain.ErrVoucherInactive, "voucher is inactive"},
	{domain.ErrVoucherNotValidNow, "voucher is not valid at this time"},
	{domain.ErrVoucherExhausted, "voucher usage limit reached"},
	{domain.ErrVoucherNotClaimed, "voucher is not claimed"},
	{domain.ErrVoucherUsed, "voucher is already used"},
	{domain.ErrVoucherBelowMinimum, "booking total is below the voucher minimum purchase"},

	{domain.ErrTerminalState, "booking is already finished"},
	{domain.ErrInvalidTransition, "status transition is not allowed"},
	{domain.ErrInvalidPaymentTransition, "payment status transition is not allowed"},
}

// DomainMessage сообщение по доменной причине ошибки, иначе fallback
func DomainMessage(err error, fallback string) string {
	for _, m := range domainMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return fallback
}
