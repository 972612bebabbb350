package create_booking

import "errors"

var (
	// ErrCourtNotFound возвращается, когда корт не найден
	ErrCourtNotFound = errors.New("create_booking: court not found")

	// ErrCourtUnavailable возвращается, когда корт или арена закрыты для бронирования
	ErrCourtUnavailable = errors.New("create_booking: court is not available for booking")

	// ErrInvalidTimeSlot возвращается, когда дата или время бронирования некорректны
	// (в прошлом, вне часов работы, не по сетке слотов)
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrSlotNotAvailable возвращается, когда слот пересекается с активным бронированием
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrVoucherNotFound ваучер с таким кодом не существует
	ErrVoucherNotFound = errors.New("create_booking: voucher not found")

	// ErrVoucherNotApplicable ваучер нельзя применить к этому бронированию
	ErrVoucherNotApplicable = errors.New("create_booking: voucher is not applicable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
