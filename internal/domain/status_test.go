package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportafit/booking-service/pkg/ptr"
)

func booking(status BookingStatus, payment PaymentStatus) *Booking {
	return &Booking{InvoiceNumber: "INV123", Status: status, PaymentStatus: payment}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		allowed  bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusExpired, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusConfirmed, StatusExpired, false},
		{StatusExpired, StatusPending, false},
		{StatusExpired, StatusConfirmed, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestParseStatuses(t *testing.T) {
	s, err := ParseBookingStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseBookingStatus("in_progress")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	p, err := ParsePaymentStatus("refunded")
	require.NoError(t, err)
	assert.Equal(t, PaymentRefunded, p)

	_, err = ParsePaymentStatus("partial")
	assert.ErrorIs(t, err, ErrInvalidPaymentStatus)
}

func TestPlanTransition_ConfirmAndPay(t *testing.T) {
	// PUT {status: confirmed, payment_status: paid} на pending бронирование
	tr, err := PlanTransition(booking(StatusPending, PaymentUnpaid),
		ptr.Ptr(StatusConfirmed), ptr.Ptr(PaymentPaid))

	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, tr.ToStatus)
	assert.Equal(t, PaymentPaid, tr.ToPayment)
	assert.True(t, tr.LeavesPending())
	assert.Equal(t, EventBookingUpdated, EventForTransition(tr))
}

func TestPlanTransition_PaymentConfirmsPending(t *testing.T) {
	tr, err := PlanTransition(booking(StatusPending, PaymentUnpaid), nil, ptr.Ptr(PaymentPaid))

	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, tr.ToStatus)
	assert.Equal(t, PaymentPaid, tr.ToPayment)
}

func TestPlanTransition_PaidButKeepPending(t *testing.T) {
	tr, err := PlanTransition(booking(StatusPending, PaymentUnpaid), ptr.Ptr(StatusPending), ptr.Ptr(PaymentPaid))

	require.NoError(t, err)
	assert.Equal(t, StatusPending, tr.ToStatus)
	assert.False(t, tr.LeavesPending())
}

func TestPlanTransition_TerminalRejectsStatus(t *testing.T) {
	for _, status := range []BookingStatus{StatusCompleted, StatusCancelled, StatusExpired} {
		for _, target := range AllStatuses {
			_, err := PlanTransition(booking(status, PaymentUnpaid), ptr.Ptr(target), nil)
			assert.ErrorIs(t, err, ErrTerminalState, "%s -> %s", status, target)
		}
	}
}

func TestPlanTransition_ExpiredThenConfirm(t *testing.T) {
	_, err := PlanTransition(booking(StatusExpired, PaymentUnpaid), ptr.Ptr(StatusConfirmed), ptr.Ptr(PaymentPaid))
	assert.ErrorIs(t, err, ErrTerminalState)

	_, err = PlanTransition(booking(StatusExpired, PaymentUnpaid), nil, ptr.Ptr(PaymentPaid))
	assert.ErrorIs(t, err, ErrTerminalState)
}

func TestPlanTransition_RefundCancelled(t *testing.T) {
	tr, err := PlanTransition(booking(StatusCancelled, PaymentPaid), nil, ptr.Ptr(PaymentRefunded))

	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, tr.ToStatus)
	assert.Equal(t, PaymentRefunded, tr.ToPayment)
}

func TestPlanTransition_Invalid(t *testing.T) {
	_, err := PlanTransition(booking(StatusPending, PaymentUnpaid), ptr.Ptr(StatusCompleted), nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = PlanTransition(booking(StatusConfirmed, PaymentUnpaid), nil, ptr.Ptr(PaymentRefunded))
	assert.ErrorIs(t, err, ErrInvalidPaymentTransition)

	_, err = PlanTransition(booking(StatusConfirmed, PaymentPaid), nil, ptr.Ptr(PaymentUnpaid))
	assert.ErrorIs(t, err, ErrInvalidPaymentTransition)

	_, err = PlanTransition(booking(StatusPending, PaymentUnpaid), ptr.Ptr(StatusCancelled), ptr.Ptr(PaymentPaid))
	assert.ErrorIs(t, err, ErrInvalidPaymentTransition)
}

func TestPlanTransition_NothingToChange(t *testing.T) {
	_, err := PlanTransition(booking(StatusConfirmed, PaymentPaid), ptr.Ptr(StatusConfirmed), ptr.Ptr(PaymentPaid))
	assert.ErrorIs(t, err, ErrNothingToChange)

	_, err = PlanTransition(booking(StatusPending, PaymentUnpaid), nil, nil)
	assert.ErrorIs(t, err, ErrNothingToChange)
}

func TestPlanTransition_SameStatusChangesPaymentOnly(t *testing.T) {
	tr, err := PlanTransition(booking(StatusConfirmed, PaymentUnpaid), ptr.Ptr(StatusConfirmed), ptr.Ptr(PaymentFailed))

	require.NoError(t, err)
	assert.False(t, tr.StatusChanged())
	assert.Equal(t, PaymentFailed, tr.ToPayment)
}

func TestEventForTransition(t *testing.T) {
	assert.Equal(t, EventBookingExpired, EventForTransition(Transition{FromStatus: StatusPending, ToStatus: StatusExpired}))
	assert.Equal(t, EventBookingCancelled, EventForTransition(Transition{FromStatus: StatusConfirmed, ToStatus: StatusCancelled}))
	assert.Equal(t, EventBookingUpdated, EventForTransition(Transition{FromStatus: StatusCancelled, ToStatus: StatusCancelled}))
}
