package domain

// Business validation constants
const (
	MaxCancellationReasonLength = 500
	MaxVoucherCodeLength        = 64
	MaxBookingDurationMinutes   = 8 * 60
	DefaultListLimit            = 50
	MaxListLimit                = 200
	DefaultChartDays            = 7
	MaxChartDays                = 366
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// SlotHoldingStatuses статусы, которые могут занимать слот корта.
// pending занимает слот по expiry_time включительно, это проверяется отдельно
var SlotHoldingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}

// AllStatuses все статусы бронирования, порядок для отчётов
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
	StatusExpired,
}
