package cancel_booking

// CancelBookingRequest HTTP request model, тело необязательно
type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}
