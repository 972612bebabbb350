package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrStaleState возвращается, когда бронирование изменили параллельно
	// и условное обновление не затронуло ни одной строки
	ErrStaleState = errors.New("booking.repository: booking state changed concurrently")

	// ErrDuplicateInvoice возвращается при коллизии номера счёта
	ErrDuplicateInvoice = errors.New("booking.repository: duplicate invoice number")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
