package domain

import "fmt"

// allowedTransitions таблица допустимых переходов статуса бронирования
var allowedTransitions = map[BookingStatus]map[BookingStatus]bool{
	StatusPending: {
		StatusConfirmed: true,
		StatusCancelled: true,
		StatusExpired:   true,
	},
	StatusConfirmed: {
		StatusCompleted: true,
		StatusCancelled: true,
	},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusExpired:   {},
}

// allowedPaymentTransitions таблица допустимых переходов статуса оплаты
var allowedPaymentTransitions = map[PaymentStatus]map[PaymentStatus]bool{
	PaymentUnpaid: {
		PaymentPaid:   true,
		PaymentFailed: true,
	},
	PaymentFailed: {
		PaymentPaid:   true,
		PaymentUnpaid: true,
	},
	PaymentPaid: {
		PaymentRefunded: true,
	},
	PaymentRefunded: {},
}

// ParseBookingStatus validates a status string
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if _, ok := allowedTransitions[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// ParsePaymentStatus validates a payment status string
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	status := PaymentStatus(s)
	if _, ok := allowedPaymentTransitions[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, s)
	}
	return status, nil
}

// IsTerminal completed, cancelled and expired are final
func (s BookingStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// CanTransition reports whether from -> to is in the transition table
func CanTransition(from, to BookingStatus) bool {
	return allowedTransitions[from][to]
}

// CanTransitionPayment reports whether from -> to is in the payment table
func CanTransitionPayment(from, to PaymentStatus) bool {
	return allowedPaymentTransitions[from][to]
}

// Transition planned change of a booking, From* values are the expected current state
type Transition struct {
	FromStatus  BookingStatus
	FromPayment PaymentStatus
	ToStatus    BookingStatus
	ToPayment   PaymentStatus
}

// StatusChanged returns true if the booking status moves
func (t Transition) StatusChanged() bool {
	return t.FromStatus != t.ToStatus
}

// LeavesPending returns true if the booking leaves pending, its expiry must be cleared
func (t Transition) LeavesPending() bool {
	return t.FromStatus == StatusPending && t.ToStatus != StatusPending
}

// PlanTransition computes the next (status, payment status) pair for a booking.
//
// Rules:
//   - a terminal booking rejects any status request; only paid -> refunded is accepted for it
//   - a status equal to the current one changes nothing but the payment status
//   - payment "paid" on a pending booking without an explicit status confirms it
//   - payment "paid" is accepted only if the resulting status is pending or confirmed
//
// ErrNothingToChange is returned when the request matches the current state.
func PlanTransition(current *Booking, target *BookingStatus, payment *PaymentStatus) (Transition, error) {
	t := Transition{
		FromStatus:  current.Status,
		FromPayment: current.PaymentStatus,
		ToStatus:    current.Status,
		ToPayment:   current.PaymentStatus,
	}

	if target == nil && payment == nil {
		return t, ErrNothingToChange
	}

	if current.IsTerminal() {
		if target != nil {
			return t, fmt.Errorf("%w: booking is %s", ErrTerminalState, current.Status)
		}
		if *payment == current.PaymentStatus {
			return t, ErrNothingToChange
		}
		if *payment != PaymentRefunded || !CanTransitionPayment(current.PaymentStatus, *payment) {
			return t, fmt.Errorf("%w: booking is %s", ErrTerminalState, current.Status)
		}
		t.ToPayment = *payment
		return t, nil
	}

	if target != nil && *target != current.Status {
		if !CanTransition(current.Status, *target) {
			return t, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, *target)
		}
		t.ToStatus = *target
	}

	if payment != nil && *payment != current.PaymentStatus {
		if !CanTransitionPayment(current.PaymentStatus, *payment) {
			return t, fmt.Errorf("%w: %s -> %s", ErrInvalidPaymentTransition, current.PaymentStatus, *payment)
		}
		t.ToPayment = *payment

		if *payment == PaymentPaid {
			// Оплата pending бронирования без явного статуса подтверждает его
			if target == nil && current.Status == StatusPending {
				t.ToStatus = StatusConfirmed
			}
			if t.ToStatus != StatusPending && t.ToStatus != StatusConfirmed {
				return t, fmt.Errorf("%w: cannot mark %s booking as paid", ErrInvalidPaymentTransition, t.ToStatus)
			}
		}
	}

	if t.ToStatus == t.FromStatus && t.ToPayment == t.FromPayment {
		return t, ErrNothingToChange
	}

	return t, nil
}
