package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingRepo "github.com/sportafit/booking-service/internal/infra/storage/booking"
	"github.com/sportafit/booking-service/pkg/dbmetrics"
	"github.com/sportafit/booking-service/pkg/txmanager"
)

// Конфликт сериализации от Postgres в середине транзакции отдаётся как занятый слот
func TestUseCase_Execute_SerializationFailureFromDriver(t *testing.T) {
	serializeErr := &pq.Error{Code: "40001", Message: "could not serialize access due to read/write dependencies among transactions"}

	tests := []struct {
		name   string
		expect func(mock sqlmock.Sqlmock)
	}{
		{
			name: "insert",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM bookings WHERE court_id = \$1 .+ FOR UPDATE`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
				mock.ExpectQuery(`INSERT INTO bookings`).
					WillReturnError(serializeErr)
			},
		},
		{
			name: "select for update",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM bookings WHERE court_id = \$1 .+ FOR UPDATE`).
					WillReturnError(serializeErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()

			sqlDB, mock, err := sqlmock.New()
			require.NoError(t, err)
			t.Cleanup(func() { _ = sqlDB.Close() })
			db := dbmetrics.Wrap(sqlDB, nil)

			courts := &mockCourtRepo{}
			courts.On("GetByID", ctx, int64(3)).Return(testCourt(), nil)
			events := &recordingPublisher{}

			uc := NewUseCase(
				bookingRepo.NewRepository(db),
				courts,
				&mockVoucherRepo{},
				txmanager.NewTransactionManager(db),
				events,
				Settings{
					ExpiryWindow:        10 * time.Minute,
					ServiceFee:          5000,
					SlotDurationMinutes: 60,
					Location:            jakarta,
				},
				fixedClock{},
				nopLogger{},
			)

			mock.ExpectBegin()
			tt.expect(mock)
			mock.ExpectRollback()

			_, err = uc.Execute(ctx, tomorrowRequest())

			assert.ErrorIs(t, err, ErrSlotNotAvailable)
			assert.NotErrorIs(t, err, ErrInternal)
			assert.Empty(t, events.events)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
