package preview_booking

import "errors"

var (
	ErrCourtNotFound        = errors.New("preview_booking: court not found")
	ErrCourtUnavailable     = errors.New("preview_booking: court is not available for booking")
	ErrInvalidTimeSlot      = errors.New("preview_booking: invalid time slot")
	ErrVoucherNotFound      = errors.New("preview_booking: voucher not found")
	ErrVoucherNotApplicable = errors.New("preview_booking: voucher is not applicable")
	ErrInvalidInput         = errors.New("preview_booking: invalid input data")
	ErrInternal             = errors.New("preview_booking: internal error")
)
