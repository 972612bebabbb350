package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/sportafit/booking-service/internal/domain"
	"github.com/sportafit/booking-service/internal/service/bookings"
)

// Consumer применяет события оплаты к бронированиям
// Повторная доставка безопасна: переход в уже установленный статус оплаты ничего не меняет
type Consumer struct {
	source  DeliverySource
	service BookingService
	logger  Logger
}

func NewConsumer(source DeliverySource, service BookingService, logger Logger) *Consumer {
	return &Consumer{
		source:  source,
		service: service,
		logger:  logger,
	}
}

// Run читает очередь до отмены ctx или закрытия канала
func (c *Consumer) Run(ctx context.Context) error {
	deliveries, err := c.source.Deliveries(ctx)
	if err != nil {
		return fmt.Errorf("payment consumer: subscribe: %w", err)
	}

	c.logger.Info("PaymentConsumer: started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("payment consumer: delivery channel closed")
			}
			c.handle(ctx, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	err := c.process(ctx, d.Body)
	switch {
	case err == nil:
		c.ack(d)
	case retryable(err):
		c.logger.Error("PaymentConsumer: will retry message %s: %v", d.RoutingKey, err)
		if nackErr := d.Nack(false, true); nackErr != nil {
			c.logger.Error("PaymentConsumer: nack failed: %v", nackErr)
		}
	default:
		c.logger.Warn("PaymentConsumer: drop message %s: %v", d.RoutingKey, err)
		c.ack(d)
	}
}

func (c *Consumer) process(ctx context.Context, body []byte) error {
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	invoice := strings.TrimSpace(msg.Data.InvoiceNumber)
	if invoice == "" {
		return fmt.Errorf("%w: empty invoice_number", ErrMalformedMessage)
	}

	var payment domain.PaymentStatus
	switch msg.Event {
	case EventPaymentPaid:
		payment = domain.PaymentPaid
	case EventPaymentFailed:
		payment = domain.PaymentFailed
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, msg.Event)
	}

	c.logger.Info("PaymentConsumer: %s for invoice=%s payment_id=%s", msg.Event, invoice, msg.Data.PaymentID)

	_, err := c.service.ApplyPayment(ctx, invoice, payment)
	return err
}

func (c *Consumer) ack(d amqp.Delivery) {
	if err := d.Ack(false); err != nil {
		c.logger.Error("PaymentConsumer: ack failed: %v", err)
	}
}

// retryable внутренние ошибки и параллельные изменения стоит повторить,
// неизвестный счёт и недопустимый переход при повторе не исправятся
func retryable(err error) bool {
	return errors.Is(err, bookings.ErrInternal) || errors.Is(err, bookings.ErrConflict)
}
