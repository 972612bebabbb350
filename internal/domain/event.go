package domain

import "strings"

// EventType type of a booking notification
type EventType string

const (
	EventBookingCreated   EventType = "BOOKING_CREATED"
	EventBookingUpdated   EventType = "BOOKING_UPDATED"
	EventBookingExpired   EventType = "BOOKING_EXPIRED"
	EventBookingCancelled EventType = "BOOKING_CANCELLED"
)

// RoutingKey ключ маршрутизации для брокера: BOOKING_CREATED -> booking.created
func (t EventType) RoutingKey() string {
	return strings.ToLower(strings.Replace(string(t), "_", ".", 1))
}

// EventPayload body sent to subscribers
type EventPayload struct {
	InvoiceNumber string        `json:"invoiceNumber"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
}

// Event booking change notification. UserID selects the recipients and is not serialized.
type Event struct {
	Type    EventType    `json:"type"`
	Payload EventPayload `json:"payload"`
	UserID  int64        `json:"-"`
}

// NewBookingEvent builds an event from the current booking state
func NewBookingEvent(t EventType, b *Booking) Event {
	return Event{
		Type: t,
		Payload: EventPayload{
			InvoiceNumber: b.InvoiceNumber,
			Status:        b.Status,
			PaymentStatus: b.PaymentStatus,
		},
		UserID: b.UserID,
	}
}

// EventForTransition picks the event type for a status change
func EventForTransition(t Transition) EventType {
	switch {
	case t.StatusChanged() && t.ToStatus == StatusCancelled:
		return EventBookingCancelled
	case t.StatusChanged() && t.ToStatus == StatusExpired:
		return EventBookingExpired
	default:
		return EventBookingUpdated
	}
}
