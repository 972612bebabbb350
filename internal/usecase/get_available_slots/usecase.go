package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sportafit/booking-service/internal/domain"
	courtRepo "github.com/sportafit/booking-service/internal/infra/storage/court"
)

// UseCase use case для получения доступных слотов корта
type UseCase struct {
	bookingRepo  BookingRepository
	courtRepo    CourtRepository
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	courtRepo CourtRepository,
	settings Settings,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		courtRepo:    courtRepo,
		settings:     settings,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: court=%d, date=%s", req.CourtID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if req.CourtID <= 0 {
		return nil, fmt.Errorf("%w: courtId must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	now := uc.timeProvider.Now().In(uc.settings.Location)
	y, m, d := req.Date.Date()
	localDate := time.Date(y, m, d, 0, 0, 0, 0, uc.settings.Location)

	if domain.IsDateInPast(localDate, now) {
		uc.logger.Warn("GetAvailableSlots: date %s is in the past", localDate.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 2. Получаем корт с часами работы арены
	court, err := uc.courtRepo.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			uc.logger.Warn("GetAvailableSlots: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %w", ErrInternal, err)
	}
	if !court.IsActive || court.Arena == nil || !court.Arena.IsActive {
		return nil, ErrCourtUnavailable
	}

	// 3. Сетка слотов по часам работы арены
	grid, err := domain.GenerateSlots(court.Arena, uc.settings.SlotDurationMinutes)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots for arena id=%d: %v", court.ArenaID, err)
		return nil, fmt.Errorf("%w: failed to generate slots: %w", ErrInternal, err)
	}

	// 4. Активные бронирования корта на дату
	holders, err := uc.bookingRepo.GetSlotHolders(ctx, court.ID, domain.DateOnly(localDate), now)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
	}

	slots := buildSlots(grid, localDate, now, court.PricePerHour, uc.settings.SlotDurationMinutes, holders)

	uc.logger.Info("GetAvailableSlots: court=%d, %d slots, %d active bookings", court.ID, len(slots), len(holders))

	return &Response{
		Date:         localDate,
		CourtID:      court.ID,
		ArenaID:      court.ArenaID,
		PricePerHour: court.PricePerHour,
		Slots:        slots,
	}, nil
}
