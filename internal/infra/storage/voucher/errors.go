package voucher

import "errors"

var (
	// ErrVoucherNotFound ваучер с таким кодом не найден
	ErrVoucherNotFound = errors.New("voucher.repository: voucher not found")

	// ErrUserVoucherNotFound пользователь не получал этот ваучер
	ErrUserVoucherNotFound = errors.New("voucher.repository: user voucher not found")

	// ErrAlreadyClaimed пользователь уже получил этот ваучер
	ErrAlreadyClaimed = errors.New("voucher.repository: voucher already claimed")

	// ErrAlreadyUsed ваучер пользователя уже использован
	ErrAlreadyUsed = errors.New("voucher.repository: voucher already used")

	ErrBuildQuery = errors.New("voucher.repository: failed to build query")
	ErrExecQuery  = errors.New("voucher.repository: failed to execute query")
	ErrScanRow    = errors.New("voucher.repository: failed to scan row")
)
