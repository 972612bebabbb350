package preview_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sportafit/booking-service/internal/domain"
	courtRepo "github.com/sportafit/booking-service/internal/infra/storage/court"
	"github.com/sportafit/booking-service/internal/service/vouchers"
	"github.com/sportafit/booking-service/pkg/types"
)

// UseCase расчёт стоимости бронирования без записи в БД
type UseCase struct {
	courtRepo    CourtRepository
	bookingRepo  BookingRepository
	voucherRepo  VoucherRepository
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

func NewUseCase(
	courtRepo CourtRepository,
	bookingRepo BookingRepository,
	voucherRepo VoucherRepository,
	settings Settings,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &UseCase{
		courtRepo:    courtRepo,
		bookingRepo:  bookingRepo,
		voucherRepo:  voucherRepo,
		settings:     settings,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute считает сумму так же, как создание бронирования, но ничего не сохраняет
// и не списывает ваучер
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.CourtID <= 0 || req.Date.IsZero() || req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, fmt.Errorf("%w: court_id, booking_date, start_time and end_time are required", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()
	y, m, d := req.Date.Date()
	localDate := time.Date(y, m, d, 0, 0, 0, 0, uc.settings.Location)

	court, err := uc.courtRepo.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("PreviewBooking: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %w", ErrInternal, err)
	}
	if !court.IsActive || court.Arena == nil || !court.Arena.IsActive {
		return nil, ErrCourtUnavailable
	}

	if err := domain.ValidateSlot(court.Arena, localDate, req.StartTime, req.EndTime, now, uc.settings.SlotDurationMinutes); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTimeSlot, err)
	}
	minutes, _ := types.MinutesBetween(req.StartTime, req.EndTime)

	voucher, err := uc.checkVoucher(ctx, req, domain.PriceFor(court.PricePerHour, minutes), now)
	if err != nil {
		return nil, err
	}

	holders, err := uc.bookingRepo.GetSlotHolders(ctx, court.ID, domain.DateOnly(localDate), now)
	if err != nil {
		uc.logger.Error("PreviewBooking: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
	}
	available := true
	for _, b := range holders {
		if b.Overlaps(req.StartTime, req.EndTime) {
			available = false
			break
		}
	}

	quote := domain.NewQuote(court.PricePerHour, minutes, voucher, uc.settings.ServiceFee)

	resp := &Response{
		CourtID:          court.ID,
		DurationMinutes:  quote.DurationMinutes,
		PricePerHour:     court.PricePerHour,
		TotalAmount:      quote.TotalAmount,
		DiscountAmount:   quote.DiscountAmount,
		ServiceFee:       quote.ServiceFee,
		FinalTotalAmount: quote.FinalTotalAmount,
		Available:        available,
	}
	if voucher != nil {
		resp.VoucherCode = &voucher.Code
	}

	uc.logger.Info("PreviewBooking: user=%d court=%d %s %s-%s final=%d available=%t",
		req.UserID, court.ID, localDate.Format(domain.DateFormat), req.StartTime, req.EndTime,
		resp.FinalTotalAmount, available)
	return resp, nil
}

func (uc *UseCase) checkVoucher(ctx context.Context, req *Request, price int64, now time.Time) (*domain.Voucher, error) {
	if req.VoucherCode == nil || strings.TrimSpace(*req.VoucherCode) == "" {
		return nil, nil
	}

	voucher, _, err := vouchers.Resolve(ctx, uc.voucherRepo, req.UserID, *req.VoucherCode, price, now)
	switch {
	case errors.Is(err, vouchers.ErrVoucherNotFound):
		return nil, ErrVoucherNotFound
	case errors.Is(err, vouchers.ErrNotApplicable):
		return nil, fmt.Errorf("%w: %w", ErrVoucherNotApplicable, err)
	case err != nil:
		uc.logger.Error("PreviewBooking: failed to resolve voucher: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return voucher, nil
}
