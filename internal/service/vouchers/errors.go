package vouchers

import "errors"

var (
	// ErrVoucherNotFound ваучер с таким кодом не существует
	ErrVoucherNotFound = errors.New("service: voucher not found")

	// ErrAlreadyClaimed пользователь уже получил этот ваучер
	ErrAlreadyClaimed = errors.New("service: voucher already claimed")

	// ErrNotClaimable ваучер неактивен, просрочен или исчерпан
	ErrNotClaimable = errors.New("service: voucher cannot be claimed")

	// ErrNotApplicable ваучер нельзя применить к этому бронированию
	ErrNotApplicable = errors.New("service: voucher not applicable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
