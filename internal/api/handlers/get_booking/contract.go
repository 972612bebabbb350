package get_booking

import (
	"context"

	"github.com/sportafit/booking-service/internal/domain"
	"github.com/sportafit/booking-service/internal/service/bookings/models"
)

type BookingService interface {
	GetByInvoice(ctx context.Context, invoiceNumber string, requester *domain.User) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
