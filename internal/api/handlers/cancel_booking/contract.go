package cancel_booking

import (
	"context"

	"github.com/sportafit/booking-service/internal/domain"
	"github.com/sportafit/booking-service/internal/service/bookings/models"
)

type BookingService interface {
	Cancel(ctx context.Context, invoiceNumber string, requester *domain.User, reason string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
