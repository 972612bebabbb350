package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sportafit/booking-service/internal/domain"
	courtRepo "github.com/sportafit/booking-service/internal/infra/storage/court"
	voucherRepo "github.com/sportafit/booking-service/internal/infra/storage/voucher"
	"github.com/sportafit/booking-service/internal/service/vouchers"
	"github.com/sportafit/booking-service/pkg/ptr"
	"github.com/sportafit/booking-service/pkg/txmanager"
	"github.com/sportafit/booking-service/pkg/types"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	courtRepo    CourtRepository
	voucherRepo  VoucherRepository
	txManager    TransactionManager
	publisher    EventPublisher
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	courtRepo CourtRepository,
	voucherRepo VoucherRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	settings Settings,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		courtRepo:    courtRepo,
		voucherRepo:  voucherRepo,
		txManager:    txManager,
		publisher:    publisher,
		settings:     settings,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка пересечений, списание ваучера и вставка выполняются в одной
// сериализуемой транзакции, поэтому два параллельных запроса не займут один слот
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, court=%d, date=%s, time=%s-%s",
		req.UserID, req.CourtID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	y, m, d := req.Date.Date()
	localDate := time.Date(y, m, d, 0, 0, 0, 0, uc.settings.Location)

	// 2. Получаем корт вместе с ареной
	court, err := uc.courtRepo.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			uc.logger.Warn("CreateBooking: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("CreateBooking: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %w", ErrInternal, err)
	}
	if !court.IsActive || court.Arena == nil || !court.Arena.IsActive {
		uc.logger.Warn("CreateBooking: court id=%d is not active", req.CourtID)
		return nil, ErrCourtUnavailable
	}

	// 3. Проверяем дату, часы работы арены и сетку слотов
	if err := domain.ValidateSlot(court.Arena, localDate, req.StartTime, req.EndTime, now, uc.settings.SlotDurationMinutes); err != nil {
		uc.logger.Warn("CreateBooking: slot validation failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidTimeSlot, err)
	}

	minutes, _ := types.MinutesBetween(req.StartTime, req.EndTime)
	bookingDate := domain.DateOnly(localDate)

	var result *domain.Booking

	// 4. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Активные бронирования корта на эту дату с блокировкой (FOR UPDATE)
		holders, err := uc.bookingRepo.GetSlotHolders(txCtx, court.ID, bookingDate, now)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		if overlap := findOverlap(req, holders); overlap != nil {
			uc.logger.Warn("CreateBooking: slot %s-%s overlaps booking invoice=%s (%s)",
				req.StartTime, req.EndTime, overlap.InvoiceNumber, overlap.Status)
			return ErrSlotNotAvailable
		}

		// 4.2. Применяем ваучер и помечаем его использованным
		voucher, err := uc.redeemVoucher(txCtx, req, court.PricePerHour, minutes, now)
		if err != nil {
			return err
		}

		// 4.3. Считаем сумму тем же путём, что и предпросмотр
		quote := domain.NewQuote(court.PricePerHour, minutes, voucher, uc.settings.ServiceFee)
		expiry := now.Add(uc.settings.ExpiryWindow)

		booking := &domain.Booking{
			InvoiceNumber:    domain.NewInvoiceNumber(now.In(uc.settings.Location)),
			UserID:           req.UserID,
			CourtID:          court.ID,
			ArenaID:          court.ArenaID,
			BookingDate:      bookingDate,
			StartTime:        req.StartTime,
			EndTime:          req.EndTime,
			Status:           domain.StatusPending,
			PaymentStatus:    domain.PaymentUnpaid,
			ExpiryTime:       &expiry,
			TotalAmount:      quote.TotalAmount,
			DiscountAmount:   quote.DiscountAmount,
			ServiceFee:       quote.ServiceFee,
			FinalTotalAmount: quote.FinalTotalAmount,
		}
		if voucher != nil {
			booking.VoucherID = ptr.Ptr(voucher.ID)
		}

		// 4.4. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		// Параллельная транзакция заняла тот же слот раньше
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("CreateBooking: serialization conflict for court=%d on %s: %v",
				req.CourtID, bookingDate.Format(domain.DateFormat), err)
			return nil, ErrSlotNotAvailable
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking invoice=%s, final=%d, expires=%s",
		result.InvoiceNumber, result.FinalTotalAmount, result.ExpiryTime.Format(time.RFC3339))

	// 5. Уведомляем подписчиков, ошибка доставки не отменяет бронирование
	if err := uc.publisher.Publish(ctx, domain.NewBookingEvent(domain.EventBookingCreated, result)); err != nil {
		uc.logger.Warn("CreateBooking: event for invoice=%s not delivered: %v", result.InvoiceNumber, err)
	}

	return &Response{
		InvoiceNumber:    result.InvoiceNumber,
		CourtID:          result.CourtID,
		ArenaID:          result.ArenaID,
		BookingDate:      result.BookingDate,
		StartTime:        result.StartTime,
		EndTime:          result.EndTime,
		DurationMinutes:  minutes,
		Status:           string(result.Status),
		PaymentStatus:    string(result.PaymentStatus),
		ExpiryTime:       *result.ExpiryTime,
		TotalAmount:      result.TotalAmount,
		DiscountAmount:   result.DiscountAmount,
		ServiceFee:       result.ServiceFee,
		FinalTotalAmount: result.FinalTotalAmount,
		CreatedAt:        result.CreatedAt,
	}, nil
}

// redeemVoucher проверяет ваучер пользователя и списывает его в текущей транзакции
// Без кода возвращает nil
func (uc *UseCase) redeemVoucher(ctx context.Context, req *Request, pricePerHour int64, minutes int, now time.Time) (*domain.Voucher, error) {
	if req.VoucherCode == nil {
		return nil, nil
	}

	price := domain.PriceFor(pricePerHour, minutes)
	voucher, userVoucher, err := vouchers.Resolve(ctx, uc.voucherRepo, req.UserID, *req.VoucherCode, price, now)
	switch {
	case errors.Is(err, vouchers.ErrVoucherNotFound):
		uc.logger.Warn("CreateBooking: voucher code=%s not found", *req.VoucherCode)
		return nil, ErrVoucherNotFound
	case errors.Is(err, vouchers.ErrNotApplicable):
		uc.logger.Warn("CreateBooking: voucher code=%s rejected for user=%d: %v", *req.VoucherCode, req.UserID, err)
		return nil, fmt.Errorf("%w: %w", ErrVoucherNotApplicable, err)
	case err != nil:
		uc.logger.Error("CreateBooking: failed to resolve voucher code=%s: %v", *req.VoucherCode, err)
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	if err := uc.voucherRepo.MarkUsed(ctx, userVoucher.ID, voucher.ID, now); err != nil {
		if errors.Is(err, voucherRepo.ErrAlreadyUsed) {
			uc.logger.Warn("CreateBooking: voucher=%d already used by user=%d", voucher.ID, req.UserID)
			return nil, fmt.Errorf("%w: %w", ErrVoucherNotApplicable, domain.ErrVoucherUsed)
		}
		uc.logger.Error("CreateBooking: failed to mark voucher used: %v", err)
		return nil, fmt.Errorf("%w: failed to mark voucher used: %w", ErrInternal, err)
	}

	return voucher, nil
}
