package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sportafit/booking-service/internal/domain"
	bookingRepo "github.com/sportafit/booking-service/internal/infra/storage/booking"
	"github.com/sportafit/booking-service/internal/service/bookings/models"
	"github.com/sportafit/booking-service/pkg/ptr"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      TransitionRecorder
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
// location - часовой пояс арен, в нём считаются дни для графика
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics TransitionRecorder,
	timeProvider TimeProvider,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: timeProvider,
		location:     location,
		logger:       logger,
	}
}

// GetByInvoice получает бронирование по номеру счёта
// Пользователь видит только свои бронирования, администратор - любые
func (s *Service) GetByInvoice(ctx context.Context, invoiceNumber string, requester *domain.User) (*models.BookingResponse, error) {
	s.logger.Info("GetByInvoice: fetching booking invoice=%s for user=%d", invoiceNumber, requester.ID)

	booking, err := s.getBooking(ctx, "GetByInvoice", invoiceNumber)
	if err != nil {
		return nil, err
	}

	if !requester.CanAccess(booking) {
		s.logger.Warn("GetByInvoice: access denied for user=%d to booking invoice=%s", requester.ID, invoiceNumber)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя, новые первыми
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, userID int64, status *string) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", userID, status)

	var domainStatus *domain.BookingStatus
	if status != nil {
		parsed, err := domain.ParseBookingStatus(*status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *status, userID)
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		domainStatus = ptr.Ptr(parsed)
	}

	var bookings []*domain.Booking
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		bookings, err = s.bookingRepo.GetByUserID(txCtx, userID, domainStatus)
		return err
	})
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: fetched %d bookings for user=%d", len(bookings), userID)
	return models.FromDomainBookingList(bookings), nil
}

// ListBookings список бронирований с фильтрами для администратора
func (s *Service) ListBookings(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	filter, err := s.toDomainFilter(req)
	if err != nil {
		s.logger.Warn("ListBookings: invalid filter: %v", err)
		return nil, err
	}

	var bookings []*domain.Booking
	err = s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		bookings, err = s.bookingRepo.List(txCtx, filter)
		return err
	})
	if err != nil {
		s.logger.Error("ListBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBookings - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("ListBookings: fetched %d bookings (limit=%d, offset=%d)", len(bookings), filter.Limit, filter.Offset)
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus меняет статус и/или статус оплаты (администратор или платёжный колбэк)
// Запрос, совпадающий с текущим состоянием, возвращает бронирование без изменений и без события
func (s *Service) UpdateStatus(ctx context.Context, invoiceNumber string, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: booking invoice=%s status=%v payment_status=%v",
		invoiceNumber, req.Status, req.PaymentStatus)

	var (
		target  *domain.BookingStatus
		payment *domain.PaymentStatus
	)
	if req.Status != nil {
		parsed, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		target = ptr.Ptr(parsed)
	}
	if req.PaymentStatus != nil {
		parsed, err := domain.ParsePaymentStatus(*req.PaymentStatus)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		payment = ptr.Ptr(parsed)
	}
	if target == nil && payment == nil {
		return nil, fmt.Errorf("%w: status or payment_status is required", ErrInvalidInput)
	}

	booking, err := s.transition(ctx, "UpdateStatus", invoiceNumber, target, payment, nil, nil)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(booking), nil
}

// Cancel отменяет бронирование
// Пользователь может отменить только своё бронирование, администратор - любое
// Отменить можно только pending и confirmed бронирования
func (s *Service) Cancel(ctx context.Context, invoiceNumber string, requester *domain.User, reason string) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking invoice=%s by user=%d", invoiceNumber, requester.ID)

	reason = strings.TrimSpace(reason)
	if len(reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason is longer than %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}
	var reasonPtr *string
	if reason != "" {
		reasonPtr = ptr.Ptr(reason)
	}

	check := func(b *domain.Booking) error {
		if !requester.CanAccess(b) {
			s.logger.Warn("Cancel: access denied for user=%d to booking invoice=%s", requester.ID, invoiceNumber)
			return ErrAccessDenied
		}
		if !b.CanBeCancelled() {
			s.logger.Warn("Cancel: booking invoice=%s cannot be cancelled, status=%s", invoiceNumber, b.Status)
			return ErrCannotCancel
		}
		return nil
	}

	booking, err := s.transition(ctx, "Cancel", invoiceNumber, ptr.Ptr(domain.StatusCancelled), nil, reasonPtr, check)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(booking), nil
}

// ApplyPayment применяет результат оплаты от платёжного сервиса
// paid подтверждает pending бронирование
func (s *Service) ApplyPayment(ctx context.Context, invoiceNumber string, payment domain.PaymentStatus) (*models.BookingResponse, error) {
	s.logger.Info("ApplyPayment: booking invoice=%s payment_status=%s", invoiceNumber, payment)

	booking, err := s.transition(ctx, "ApplyPayment", invoiceNumber, nil, ptr.Ptr(payment), nil, nil)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(booking), nil
}

// Stats количество бронирований по статусам и выручка
func (s *Service) Stats(ctx context.Context) (*models.StatsResponse, error) {
	var stats *domain.BookingStats
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		stats, err = s.bookingRepo.Stats(txCtx)
		return err
	})
	if err != nil {
		s.logger.Error("Stats: repository error: %v", err)
		return nil, fmt.Errorf("%w: Stats - repository error: %w", ErrInternal, err)
	}
	return models.FromDomainStats(stats), nil
}

// ChartData бронирования и выручка по дням за последние days дней, включая сегодня
// Дни без бронирований заполняются нулями
func (s *Service) ChartData(ctx context.Context, days int) (*models.ChartDataResponse, error) {
	if days == 0 {
		days = domain.DefaultChartDays
	}
	if days < 1 || days > domain.MaxChartDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidInput, domain.MaxChartDays)
	}

	now := s.timeProvider.Now().In(s.location)
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := to.AddDate(0, 0, -(days - 1))

	var stats []domain.DailyStat
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		stats, err = s.bookingRepo.DailyStats(txCtx, from, to)
		return err
	})
	if err != nil {
		s.logger.Error("ChartData: repository error: %v", err)
		return nil, fmt.Errorf("%w: ChartData - repository error: %w", ErrInternal, err)
	}

	byDate := make(map[string]domain.DailyStat, len(stats))
	for _, stat := range stats {
		byDate[stat.Date.Format(domain.DateFormat)] = stat
	}

	resp := &models.ChartDataResponse{
		Days:   days,
		Points: make([]models.ChartPoint, 0, days),
	}
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		key := day.Format(domain.DateFormat)
		stat := byDate[key]
		resp.Points = append(resp.Points, models.ChartPoint{
			Date:     key,
			Bookings: stat.Bookings,
			Revenue:  stat.Revenue,
		})
	}

	return resp, nil
}

// ArenaStats бронирования и выручка по аренам
func (s *Service) ArenaStats(ctx context.Context) (*models.ArenaStatsResponse, error) {
	var stats []domain.ArenaStat
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		stats, err = s.bookingRepo.ArenaStats(txCtx)
		return err
	})
	if err != nil {
		s.logger.Error("ArenaStats: repository error: %v", err)
		return nil, fmt.Errorf("%w: ArenaStats - repository error: %w", ErrInternal, err)
	}

	resp := &models.ArenaStatsResponse{
		Arenas: make([]models.ArenaStatResponse, 0, len(stats)),
	}
	for _, stat := range stats {
		resp.Arenas = append(resp.Arenas, models.ArenaStatResponse{
			ArenaID:   stat.ArenaID,
			ArenaName: stat.ArenaName,
			Bookings:  stat.Bookings,
			Revenue:   stat.Revenue,
		})
	}
	return resp, nil
}

// Вспомогательные методы

// transition читает бронирование, планирует переход и применяет его условным UPDATE
// Чтение и обновление выполняются в одной транзакции, событие публикуется после фиксации
// check вызывается для прочитанного бронирования до планирования перехода
func (s *Service) transition(
	ctx context.Context,
	op string,
	invoiceNumber string,
	target *domain.BookingStatus,
	payment *domain.PaymentStatus,
	reason *string,
	check func(*domain.Booking) error,
) (*domain.Booking, error) {
	var (
		tr      domain.Transition
		updated *domain.Booking
		changed bool
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, op, invoiceNumber)
		if err != nil {
			return err
		}

		if check != nil {
			if err := check(booking); err != nil {
				return err
			}
		}

		tr, err = domain.PlanTransition(booking, target, payment)
		if errors.Is(err, domain.ErrNothingToChange) {
			s.logger.Info("%s: booking invoice=%s already %s/%s, nothing to change",
				op, invoiceNumber, booking.Status, booking.PaymentStatus)
			updated = booking
			return nil
		}
		if err != nil {
			s.logger.Warn("%s: booking invoice=%s rejected transition: %v", op, invoiceNumber, err)
			return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
		}

		updated, err = s.bookingRepo.TransitionStatus(txCtx, invoiceNumber, tr, reason, s.timeProvider.Now())
		if err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrBookingNotFound):
				return ErrBookingNotFound
			case errors.Is(err, bookingRepo.ErrStaleState):
				s.logger.Warn("%s: booking invoice=%s changed concurrently: %v", op, invoiceNumber, err)
				return ErrConflict
			default:
				s.logger.Error("%s: repository error for booking invoice=%s: %v", op, invoiceNumber, err)
				return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
			}
		}
		changed = true
		return nil
	})
	if err != nil {
		if isServiceError(err) {
			return nil, err
		}
		s.logger.Error("%s: transaction error for booking invoice=%s: %v", op, invoiceNumber, err)
		return nil, fmt.Errorf("%w: %s - transaction error: %w", ErrInternal, op, err)
	}
	if !changed {
		return updated, nil
	}

	if tr.StatusChanged() {
		s.metrics.ObserveTransition(string(tr.FromStatus), string(tr.ToStatus))
	}

	s.logger.Info("%s: booking invoice=%s %s/%s -> %s/%s",
		op, invoiceNumber, tr.FromStatus, tr.FromPayment, updated.Status, updated.PaymentStatus)

	s.publish(ctx, domain.NewBookingEvent(domain.EventForTransition(tr), updated))
	return updated, nil
}

// isServiceError ошибка уже переведена в ошибку сервиса внутри транзакции
func isServiceError(err error) bool {
	for _, target := range []error{
		ErrBookingNotFound, ErrAccessDenied, ErrCannotCancel,
		ErrInvalidTransition, ErrConflict, ErrInternal,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (s *Service) getBooking(ctx context.Context, op, invoiceNumber string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByInvoice(ctx, invoiceNumber)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking invoice=%s not found", op, invoiceNumber)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking invoice=%s: %v", op, invoiceNumber, err)
		return nil, fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
	return booking, nil
}

// publish доставка событий best-effort, ошибка не откатывает изменение
func (s *Service) publish(ctx context.Context, event domain.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish: event %s for invoice=%s not delivered: %v",
			event.Type, event.Payload.InvoiceNumber, err)
	}
}

func (s *Service) toDomainFilter(req *models.ListBookingsRequest) (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		ArenaID: req.ArenaID,
		CourtID: req.CourtID,
		UserID:  req.UserID,
		Limit:   req.Limit,
		Offset:  req.Offset,
	}

	if req.Status != nil {
		status, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			return filter, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		filter.Status = ptr.Ptr(status)
	}

	parseDate := func(name string, value *string) (*time.Time, error) {
		if value == nil {
			return nil, nil
		}
		date, err := time.Parse(domain.DateFormat, *value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", ErrInvalidInput, name)
		}
		return &date, nil
	}

	var err error
	if filter.DateFrom, err = parseDate("date_from", req.DateFrom); err != nil {
		return filter, err
	}
	if filter.DateTo, err = parseDate("date_to", req.DateTo); err != nil {
		return filter, err
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return filter, fmt.Errorf("%w: date_to is before date_from", ErrInvalidInput)
	}

	if filter.Offset < 0 {
		return filter, fmt.Errorf("%w: offset must not be negative", ErrInvalidInput)
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = domain.DefaultListLimit
	case filter.Limit > domain.MaxListLimit:
		filter.Limit = domain.MaxListLimit
	}

	return filter, nil
}
