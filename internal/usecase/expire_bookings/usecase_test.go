package expire_bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sportafit/booking-service/internal/domain"
	bookingRepo "github.com/sportafit/booking-service/internal/infra/storage/booking"
)

var testNow = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) ListExpired(ctx context.Context, now time.Time, limit int) ([]*domain.Booking, error) {
	args := m.Called(ctx, now, limit)
	list, _ := args.Get(0).([]*domain.Booking)
	return list, args.Error(1)
}

func (m *mockRepo) TransitionStatus(ctx context.Context, invoice string, tr domain.Transition, reason *string, now time.Time) (*domain.Booking, error) {
	args := m.Called(ctx, invoice, tr, reason, now)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

type recordingPublisher struct{ events []domain.Event }

func (p *recordingPublisher) Publish(_ context.Context, e domain.Event) error {
	p.events = append(p.events, e)
	return nil
}

type countingMetrics struct {
	expired     int
	transitions int
}

func (m *countingMetrics) AddExpired(n int)                 { m.expired += n }
func (m *countingMetrics) ObserveTransition(string, string) { m.transitions++ }

type fixedClock struct{}

func (fixedClock) Now() time.Time { return testNow }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func pending(invoice string) *domain.Booking {
	expiry := testNow.Add(-time.Minute)
	return &domain.Booking{
		InvoiceNumber: invoice,
		UserID:        7,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentUnpaid,
		ExpiryTime:    &expiry,
	}
}

func expireTransition() domain.Transition {
	return domain.Transition{
		FromStatus:  domain.StatusPending,
		FromPayment: domain.PaymentUnpaid,
		ToStatus:    domain.StatusExpired,
		ToPayment:   domain.PaymentUnpaid,
	}
}

func TestUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	pub := &recordingPublisher{}
	metrics := &countingMetrics{}
	uc := NewUseCase(repo, pub, metrics, 100, fixedClock{}, nopLogger{})

	expired := pending("INV-A")
	expired.Status = domain.StatusExpired
	expired.ExpiryTime = nil

	repo.On("ListExpired", ctx, testNow, 100).Return([]*domain.Booking{pending("INV-A"), pending("INV-B"), pending("INV-C")}, nil)
	repo.On("TransitionStatus", ctx, "INV-A", expireTransition(), (*string)(nil), testNow).Return(expired, nil)
	// оплачено между выборкой и обновлением
	repo.On("TransitionStatus", ctx, "INV-B", expireTransition(), (*string)(nil), testNow).Return(nil, bookingRepo.ErrStaleState)
	repo.On("TransitionStatus", ctx, "INV-C", expireTransition(), (*string)(nil), testNow).Return(nil, errors.New("connection reset"))

	result, err := uc.Execute(ctx)
	require.NoError(t, err)

	assert.Equal(t, Result{Scanned: 3, Expired: 1, Skipped: 1, Failed: 1}, result)
	require.Len(t, pub.events, 1)
	assert.Equal(t, domain.EventBookingExpired, pub.events[0].Type)
	assert.Equal(t, domain.StatusExpired, pub.events[0].Payload.Status)
	assert.Equal(t, 1, metrics.expired)
	assert.Equal(t, 1, metrics.transitions)
}

func TestUseCase_Execute_NothingToDo(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	uc := NewUseCase(repo, &recordingPublisher{}, &countingMetrics{}, 100, fixedClock{}, nopLogger{})

	repo.On("ListExpired", ctx, testNow, 100).Return([]*domain.Booking{}, nil)

	result, err := uc.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{}, result)
	repo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUseCase_Execute_ListError(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	uc := NewUseCase(repo, &recordingPublisher{}, &countingMetrics{}, 100, fixedClock{}, nopLogger{})

	repo.On("ListExpired", ctx, testNow, 100).Return(nil, errors.New("db down"))

	_, err := uc.Execute(ctx)
	assert.ErrorIs(t, err, ErrInternal)
}

// Второй проход сразу после первого ничего не истекает и не публикует событий
func TestUseCase_Execute_BackToBackTicks(t *testing.T) {
	ctx := context.Background()

	expired := pending("INV-A")
	expired.Status = domain.StatusExpired
	expired.ExpiryTime = nil

	tests := []struct {
		name       string
		secondTick func(repo *mockRepo)
		want       Result
	}{
		{
			name: "row already expired",
			secondTick: func(repo *mockRepo) {
				repo.On("ListExpired", ctx, testNow, 100).Return([]*domain.Booking{}, nil).Once()
			},
			want: Result{},
		},
		{
			name: "stale read from replica",
			secondTick: func(repo *mockRepo) {
				repo.On("ListExpired", ctx, testNow, 100).Return([]*domain.Booking{pending("INV-A")}, nil).Once()
				repo.On("TransitionStatus", ctx, "INV-A", expireTransition(), (*string)(nil), testNow).
					Return(nil, bookingRepo.ErrStaleState).Once()
			},
			want: Result{Scanned: 1, Skipped: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			pub := &recordingPublisher{}
			metrics := &countingMetrics{}
			uc := NewUseCase(repo, pub, metrics, 100, fixedClock{}, nopLogger{})

			repo.On("ListExpired", ctx, testNow, 100).Return([]*domain.Booking{pending("INV-A")}, nil).Once()
			repo.On("TransitionStatus", ctx, "INV-A", expireTransition(), (*string)(nil), testNow).Return(expired, nil).Once()

			first, err := uc.Execute(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, first.Expired)
			require.Len(t, pub.events, 1)

			tt.secondTick(repo)

			second, err := uc.Execute(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, second)
			assert.Equal(t, 0, second.Expired)

			// событие только от первого прохода
			assert.Len(t, pub.events, 1)
			assert.Equal(t, 1, metrics.expired)
			assert.Equal(t, 1, metrics.transitions)
			repo.AssertExpectations(t)
		})
	}
}

func TestUseCase_Execute_SkipsRowsStillInPaymentWindow(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	pub := &recordingPublisher{}
	uc := NewUseCase(repo, pub, &countingMetrics{}, 100, fixedClock{}, nopLogger{})

	atExpiry := pending("INV-A")
	atExpiry.ExpiryTime = &testNow
	confirmed := pending("INV-B")
	confirmed.Status = domain.StatusConfirmed

	repo.On("ListExpired", ctx, testNow, 100).Return([]*domain.Booking{atExpiry, confirmed}, nil)

	result, err := uc.Execute(ctx)
	require.NoError(t, err)

	assert.Equal(t, Result{Scanned: 2, Skipped: 2}, result)
	assert.Empty(t, pub.events)
	repo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
