package booking

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportafit/booking-service/internal/domain"
	"github.com/sportafit/booking-service/pkg/dbmetrics"
	"github.com/sportafit/booking-service/pkg/types"
)

var testNow = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) (*Repository, *dbmetrics.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db := dbmetrics.Wrap(sqlDB, nil)
	return NewRepository(db), db, mock
}

func bookingRow(invoice string, status domain.BookingStatus, payment domain.PaymentStatus, expiry interface{}) []driver.Value {
	return []driver.Value{
		int64(1), invoice, int64(7), int64(3), int64(2), nil,
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), "18:00:00", "20:00:00",
		string(status), string(payment), expiry,
		int64(200000), int64(0), int64(5000), int64(205000),
		nil, nil, testNow, testNow,
	}
}

func TestRepository_GetByInvoice(t *testing.T) {
	repo, _, mock := newTestRepo(t)

	mock.ExpectQuery(`SELECT id, invoice_number, .+ FROM bookings WHERE invoice_number = \$1`).
		WithArgs("INV-1").
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow(bookingRow("INV-1", domain.StatusPending, domain.PaymentUnpaid, testNow.Add(15*time.Minute))...))

	b, err := repo.GetByInvoice(context.Background(), "INV-1")
	require.NoError(t, err)

	assert.Equal(t, "INV-1", b.InvoiceNumber)
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, types.TimeString("18:00"), b.StartTime)
	assert.Equal(t, types.TimeString("20:00"), b.EndTime)
	require.NotNil(t, b.ExpiryTime)
	assert.Nil(t, b.VoucherID)
	assert.Nil(t, b.CancelledAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByInvoice_NotFound(t *testing.T) {
	repo, _, mock := newTestRepo(t)

	mock.ExpectQuery(`FROM bookings WHERE invoice_number = \$1`).
		WithArgs("INV-404").
		WillReturnRows(sqlmock.NewRows(bookingColumns))

	_, err := repo.GetByInvoice(context.Background(), "INV-404")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_TransitionStatus(t *testing.T) {
	repo, _, mock := newTestRepo(t)

	tr := domain.Transition{
		FromStatus:  domain.StatusPending,
		FromPayment: domain.PaymentUnpaid,
		ToStatus:    domain.StatusConfirmed,
		ToPayment:   domain.PaymentPaid,
	}

	mock.ExpectQuery(`UPDATE bookings SET status = \$1, payment_status = \$2, updated_at = \$3, expiry_time = \$4 WHERE .*invoice_number = \$5.* RETURNING id, invoice_number`).
		WithArgs("confirmed", "paid", testNow, nil, "INV-1", "unpaid", "pending").
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow(bookingRow("INV-1", domain.StatusConfirmed, domain.PaymentPaid, nil)...))

	b, err := repo.TransitionStatus(context.Background(), "INV-1", tr, nil, testNow)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, b.Status)
	assert.Equal(t, domain.PaymentPaid, b.PaymentStatus)
	assert.Nil(t, b.ExpiryTime)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_TransitionStatus_Cancel(t *testing.T) {
	repo, _, mock := newTestRepo(t)

	tr := domain.Transition{
		FromStatus:  domain.StatusConfirmed,
		FromPayment: domain.PaymentPaid,
		ToStatus:    domain.StatusCancelled,
		ToPayment:   domain.PaymentPaid,
	}
	reason := "rain"

	mock.ExpectQuery(`UPDATE bookings SET status = \$1, payment_status = \$2, updated_at = \$3, cancellation_reason = \$4, cancelled_at = \$5 WHERE`).
		WithArgs("cancelled", "paid", testNow, "rain", testNow, "INV-1", "paid", "confirmed").
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow(bookingRow("INV-1", domain.StatusCancelled, domain.PaymentPaid, nil)...))

	_, err := repo.TransitionStatus(context.Background(), "INV-1", tr, &reason, testNow)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_TransitionStatus_Stale(t *testing.T) {
	repo, _, mock := newTestRepo(t)

	tr := domain.Transition{
		FromStatus:  domain.StatusPending,
		FromPayment: domain.PaymentUnpaid,
		ToStatus:    domain.StatusExpired,
		ToPayment:   domain.PaymentUnpaid,
	}

	mock.ExpectQuery(`UPDATE bookings SET`).
		WillReturnRows(sqlmock.NewRows(bookingColumns))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM bookings WHERE invoice_number = $1`)).
		WithArgs("INV-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	_, err := repo.TransitionStatus(context.Background(), "INV-1", tr, nil, testNow)
	assert.ErrorIs(t, err, ErrStaleState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_TransitionStatus_NotFound(t *testing.T) {
	repo, _, mock := newTestRepo(t)

	mock.ExpectQuery(`UPDATE bookings SET`).
		WillReturnRows(sqlmock.NewRows(bookingColumns))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM bookings WHERE invoice_number = $1`)).
		WithArgs("INV-404").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	_, err := repo.TransitionStatus(context.Background(), "INV-404", domain.Transition{
		FromStatus: domain.StatusPending, ToStatus: domain.StatusConfirmed,
	}, nil, testNow)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_ListExpired(t *testing.T) {
	repo, _, mock := newTestRepo(t)

	mock.ExpectQuery(`FROM bookings WHERE status = \$1 AND expiry_time < \$2 ORDER BY expiry_time ASC LIMIT 100`).
		WithArgs("pending", testNow).
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow(bookingRow("INV-1", domain.StatusPending, domain.PaymentUnpaid, testNow.Add(-time.Minute))...))

	list, err := repo.ListExpired(context.Background(), testNow, 100)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetSlotHolders_LocksInTransaction(t *testing.T) {
	repo, db, mock := newTestRepo(t)
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings WHERE court_id = \$1 AND booking_date = \$2 AND status IN \(\$3,\$4,\$5\) AND \(status <> \$6 OR expiry_time >= \$7\) ORDER BY start_time ASC FOR UPDATE`).
		WithArgs(int64(3), date, "pending", "confirmed", "completed", "pending", testNow).
		WillReturnRows(sqlmock.NewRows(bookingColumns))
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	list, err := repo.GetSlotHolders(dbmetrics.WithTx(context.Background(), tx), 3, date, testNow)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_DuplicateInvoice(t *testing.T) {
	repo, _, mock := newTestRepo(t)

	mock.ExpectQuery(`INSERT INTO bookings`).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), &domain.Booking{InvoiceNumber: "INV-1"})
	assert.ErrorIs(t, err, ErrDuplicateInvoice)
}

func TestRepository_Create_KeepsDriverError(t *testing.T) {
	repo, _, mock := newTestRepo(t)

	mock.ExpectQuery(`INSERT INTO bookings`).
		WillReturnError(&pq.Error{Code: "40001"})

	_, err := repo.Create(context.Background(), &domain.Booking{InvoiceNumber: "INV-1"})
	assert.ErrorIs(t, err, ErrExecQuery)

	var pqErr *pq.Error
	require.True(t, errors.As(err, &pqErr))
	assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)
}

func TestRepository_Create(t *testing.T) {
	repo, _, mock := newTestRepo(t)

	mock.ExpectQuery(`INSERT INTO bookings \(invoice_number,.+\) VALUES .+ RETURNING id, created_at, updated_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(9), testNow, testNow))

	b, err := repo.Create(context.Background(), &domain.Booking{
		InvoiceNumber: "INV-1",
		StartTime:     "18:00",
		EndTime:       "19:00",
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentUnpaid,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), b.ID)
	assert.Equal(t, testNow, b.CreatedAt)
}

func TestRepository_Stats(t *testing.T) {
	repo, _, mock := newTestRepo(t)

	mock.ExpectQuery(`SELECT status, COUNT\(\*\), .+ FROM bookings GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count", "revenue"}).
			AddRow("confirmed", int64(3), int64(600000)).
			AddRow("expired", int64(2), int64(0)))

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(5), stats.Total)
	assert.Equal(t, int64(600000), stats.Revenue)
	assert.Equal(t, int64(2), stats.ByStatus[domain.StatusExpired])
}
