package update_booking

import "github.com/sportafit/booking-service/internal/service/bookings/models"

// UpdateBookingRequest HTTP request model, нужно хотя бы одно поле
type UpdateBookingRequest struct {
	Status        *string `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed completed cancelled expired"`
	PaymentStatus *string `json:"payment_status,omitempty" validate:"omitempty,oneof=unpaid paid failed refunded"`
}

func (r *UpdateBookingRequest) ToServiceRequest() *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		Status:        r.Status,
		PaymentStatus: r.PaymentStatus,
	}
}
