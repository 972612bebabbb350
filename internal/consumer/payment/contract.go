package payment

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/sportafit/booking-service/internal/domain"
	"github.com/sportafit/booking-service/internal/service/bookings/models"
)

// DeliverySource источник сообщений из очереди (pkg/mq.Consumer)
type DeliverySource interface {
	Deliveries(ctx context.Context) (<-chan amqp.Delivery, error)
}

// BookingService применяет результат оплаты к бронированию
type BookingService interface {
	ApplyPayment(ctx context.Context, invoiceNumber string, payment domain.PaymentStatus) (*models.BookingResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
