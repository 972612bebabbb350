package expire_bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sportafit/booking-service/internal/domain"
	bookingRepo "github.com/sportafit/booking-service/internal/infra/storage/booking"
)

// UseCase один проход очистки: pending бронирования с истёкшим окном оплаты переводятся в expired
type UseCase struct {
	bookingRepo  BookingRepository
	publisher    EventPublisher
	metrics      Metrics
	batchSize    int
	timeProvider TimeProvider
	logger       Logger
}

func NewUseCase(
	bookingRepo BookingRepository,
	publisher EventPublisher,
	metrics Metrics,
	batchSize int,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		publisher:    publisher,
		metrics:      metrics,
		batchSize:    batchSize,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute переводит каждое найденное бронирование условным UPDATE pending -> expired
// Бронирование, оплаченное между выборкой и обновлением, пропускается.
// Ошибка по одному бронированию не останавливает проход
func (uc *UseCase) Execute(ctx context.Context) (Result, error) {
	var result Result
	now := uc.timeProvider.Now()

	expired, err := uc.bookingRepo.ListExpired(ctx, now, uc.batchSize)
	if err != nil {
		uc.logger.Error("ExpireBookings: failed to list expired bookings: %v", err)
		return result, fmt.Errorf("%w: ListExpired: %w", ErrInternal, err)
	}
	result.Scanned = len(expired)

	for _, b := range expired {
		if ctx.Err() != nil {
			uc.logger.Warn("ExpireBookings: stopped, %d of %d processed: %v",
				result.Expired+result.Skipped+result.Failed, result.Scanned, ctx.Err())
			break
		}

		// строка могла прийти из выборки без проверки окна оплаты
		if !b.IsExpiredAt(now) {
			uc.logger.Warn("ExpireBookings: booking invoice=%s (%s) is not expired at %s, skipped",
				b.InvoiceNumber, b.Status, now.Format(time.RFC3339))
			result.Skipped++
			continue
		}

		tr := domain.Transition{
			FromStatus:  b.Status,
			FromPayment: b.PaymentStatus,
			ToStatus:    domain.StatusExpired,
			ToPayment:   b.PaymentStatus,
		}

		updated, err := uc.bookingRepo.TransitionStatus(ctx, b.InvoiceNumber, tr, nil, now)
		switch {
		case err == nil:
		case errors.Is(err, bookingRepo.ErrStaleState), errors.Is(err, bookingRepo.ErrBookingNotFound):
			uc.logger.Info("ExpireBookings: booking invoice=%s changed meanwhile, skipped", b.InvoiceNumber)
			result.Skipped++
			continue
		default:
			uc.logger.Error("ExpireBookings: failed to expire booking invoice=%s: %v", b.InvoiceNumber, err)
			result.Failed++
			continue
		}

		result.Expired++
		uc.metrics.ObserveTransition(string(tr.FromStatus), string(tr.ToStatus))

		if err := uc.publisher.Publish(ctx, domain.NewBookingEvent(domain.EventBookingExpired, updated)); err != nil {
			uc.logger.Warn("ExpireBookings: event for invoice=%s not delivered: %v", b.InvoiceNumber, err)
		}
	}

	uc.metrics.AddExpired(result.Expired)

	if result.Scanned > 0 {
		uc.logger.Info("ExpireBookings: scanned=%d expired=%d skipped=%d failed=%d",
			result.Scanned, result.Expired, result.Skipped, result.Failed)
	}
	return result, nil
}
