package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/sportafit/booking-service/internal/domain"
	"github.com/sportafit/booking-service/pkg/dbmetrics"
	"github.com/sportafit/booking-service/pkg/psqlbuilder"
)

const uniqueViolation = "23505"

// revenueExpr выручка считается только по оплаченным бронированиям
const revenueExpr = "COALESCE(SUM(final_total_amount) FILTER (WHERE payment_status = 'paid'), 0)"

var bookingColumns = []string{
	"id",
	"invoice_number",
	"user_id",
	"court_id",
	"arena_id",
	"voucher_id",
	"booking_date",
	"start_time",
	"end_time",
	"status",
	"payment_status",
	"expiry_time",
	"total_amount",
	"discount_amount",
	"service_fee",
	"final_total_amount",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"invoice_number",
			"user_id",
			"court_id",
			"arena_id",
			"voucher_id",
			"booking_date",
			"start_time",
			"end_time",
			"status",
			"payment_status",
			"expiry_time",
			"total_amount",
			"discount_amount",
			"service_fee",
			"final_total_amount",
		).
		Values(
			booking.InvoiceNumber,
			booking.UserID,
			booking.CourtID,
			booking.ArenaID,
			booking.VoucherID,
			booking.BookingDate,
			booking.StartTime,
			booking.EndTime,
			booking.Status,
			booking.PaymentStatus,
			booking.ExpiryTime,
			booking.TotalAmount,
			booking.DiscountAmount,
			booking.ServiceFee,
			booking.FinalTotalAmount,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateInvoice, booking.InvoiceNumber)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByInvoice получает бронирование по номеру счёта
func (r *Repository) GetByInvoice(ctx context.Context, invoiceNumber string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"invoice_number": invoiceNumber}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByInvoice - build select query: %w", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByInvoice - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetByUserID получает список бронирований пользователя, новые первыми
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	return r.queryBookings(ctx, "GetByUserID", selectBuilder)
}

// List получает бронирования с фильтрацией для админки
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		OrderBy("booking_date DESC", "start_time DESC", "id DESC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.ArenaID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"arena_id": *filter.ArenaID})
	}
	if filter.CourtID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"court_id": *filter.CourtID})
	}
	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.DateFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.DateTo})
	}
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(filter.Offset))
	}

	return r.queryBookings(ctx, "List", selectBuilder)
}

// GetSlotHolders получает бронирования корта на дату, которые занимают слот в момент now:
// confirmed, completed и pending с неистёкшим expiry_time.
// Внутри транзакции строки блокируются (FOR UPDATE), чтобы два параллельных
// создания не заняли один и тот же слот
func (r *Repository) GetSlotHolders(ctx context.Context, courtID int64, date time.Time, now time.Time) ([]*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"court_id": courtID}).
		Where(squirrel.Eq{"booking_date": date}).
		Where(squirrel.Eq{"status": domain.SlotHoldingStatuses}).
		// pending с истёкшим окном оплаты слот уже не держит
		Where(squirrel.Or{
			squirrel.NotEq{"status": domain.StatusPending},
			squirrel.GtOrEq{"expiry_time": now},
		}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return r.queryBookings(ctx, "GetSlotHolders", selectBuilder)
}

// ListExpired получает pending бронирования с истёкшим окном оплаты, старые первыми
func (r *Repository) ListExpired(ctx context.Context, now time.Time, limit int) ([]*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusPending}).
		Where(squirrel.Lt{"expiry_time": now}).
		OrderBy("expiry_time ASC")

	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
	}

	return r.queryBookings(ctx, "ListExpired", selectBuilder)
}

// TransitionStatus применяет переход атомарным условным UPDATE:
// строка меняется только если её статус и статус оплаты всё ещё равны ожидаемым.
// Если ни одна строка не обновлена, бронирование либо не существует (ErrBookingNotFound),
// либо было изменено параллельно (ErrStaleState)
func (r *Repository) TransitionStatus(
	ctx context.Context,
	invoiceNumber string,
	tr domain.Transition,
	reason *string,
	now time.Time,
) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", tr.ToStatus).
		Set("payment_status", tr.ToPayment).
		Set("updated_at", now).
		Where(squirrel.Eq{
			"invoice_number": invoiceNumber,
			"status":         tr.FromStatus,
			"payment_status": tr.FromPayment,
		})

	if tr.LeavesPending() {
		updateBuilder = updateBuilder.Set("expiry_time", nil)
	}
	if tr.StatusChanged() && tr.ToStatus == domain.StatusCancelled {
		updateBuilder = updateBuilder.
			Set("cancellation_reason", reason).
			Set("cancelled_at", now)
	}

	query, args, err := updateBuilder.
		Suffix("RETURNING " + strings.Join(bookingColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: TransitionStatus - build update query: %w", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		exists, existsErr := r.exists(ctx, invoiceNumber)
		if existsErr != nil {
			return nil, existsErr
		}
		if !exists {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: invoice=%s expected %s/%s",
			ErrStaleState, invoiceNumber, tr.FromStatus, tr.FromPayment)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: TransitionStatus - execute update: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// Stats количество бронирований по статусам и выручка
func (r *Repository) Stats(ctx context.Context) (*domain.BookingStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("status", "COUNT(*)", revenueExpr).
		From("bookings").
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Stats - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Stats - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	stats := &domain.BookingStats{ByStatus: make(map[domain.BookingStatus]int64)}
	for rows.Next() {
		var (
			status  domain.BookingStatus
			count   int64
			revenue int64
		)
		if err := rows.Scan(&status, &count, &revenue); err != nil {
			return nil, fmt.Errorf("%w: Stats - scan row: %w", ErrScanRow, err)
		}
		stats.ByStatus[status] = count
		stats.Total += count
		stats.Revenue += revenue
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Stats - rows error: %w", ErrScanRow, err)
	}

	return stats, nil
}

// DailyStats количество бронирований и выручка по дням в диапазоне [from, to]
// Дни без бронирований не возвращаются
func (r *Repository) DailyStats(ctx context.Context, from, to time.Time) ([]domain.DailyStat, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("booking_date", "COUNT(*)", revenueExpr).
		From("bookings").
		Where(squirrel.GtOrEq{"booking_date": from}).
		Where(squirrel.LtOrEq{"booking_date": to}).
		GroupBy("booking_date").
		OrderBy("booking_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: DailyStats - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: DailyStats - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.DailyStat, 0)
	for rows.Next() {
		var stat domain.DailyStat
		if err := rows.Scan(&stat.Date, &stat.Bookings, &stat.Revenue); err != nil {
			return nil, fmt.Errorf("%w: DailyStats - scan row: %w", ErrScanRow, err)
		}
		result = append(result, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: DailyStats - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// ArenaStats количество бронирований и выручка по аренам, включая арены без бронирований
func (r *Repository) ArenaStats(ctx context.Context) ([]domain.ArenaStat, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"a.id",
		"a.name",
		"COUNT(b.id)",
		"COALESCE(SUM(b.final_total_amount) FILTER (WHERE b.payment_status = 'paid'), 0)",
	).
		From("arenas a").
		LeftJoin("bookings b ON b.arena_id = a.id").
		GroupBy("a.id", "a.name").
		OrderBy("a.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ArenaStats - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ArenaStats - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.ArenaStat, 0)
	for rows.Next() {
		var stat domain.ArenaStat
		if err := rows.Scan(&stat.ArenaID, &stat.ArenaName, &stat.Bookings, &stat.Revenue); err != nil {
			return nil, fmt.Errorf("%w: ArenaStats - scan row: %w", ErrScanRow, err)
		}
		result = append(result, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ArenaStats - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

func (r *Repository) exists(ctx context.Context, invoiceNumber string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{"invoice_number": invoiceNumber}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: exists - build select query: %w", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: exists - execute query: %w", ErrExecQuery, err)
	}
	return true, nil
}

func (r *Repository) queryBookings(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking порядок полей совпадает с bookingColumns
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking     domain.Booking
		voucherID   sql.NullInt64
		expiryTime  sql.NullTime
		reason      sql.NullString
		cancelledAt sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&booking.InvoiceNumber,
		&booking.UserID,
		&booking.CourtID,
		&booking.ArenaID,
		&voucherID,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.PaymentStatus,
		&expiryTime,
		&booking.TotalAmount,
		&booking.DiscountAmount,
		&booking.ServiceFee,
		&booking.FinalTotalAmount,
		&reason,
		&cancelledAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if voucherID.Valid {
		booking.VoucherID = &voucherID.Int64
	}
	if expiryTime.Valid {
		booking.ExpiryTime = &expiryTime.Time
	}
	if reason.Valid {
		booking.CancellationReason = &reason.String
	}
	if cancelledAt.Valid {
		booking.CancelledAt = &cancelledAt.Time
	}

	return &booking, nil
}
