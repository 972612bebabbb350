package amqpsink

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportafit/booking-service/internal/domain"
)

type recordingPublisher struct {
	key string
	msg any
	err error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.key, p.msg = key, v
	return p.err
}

func TestSink_Publish(t *testing.T) {
	pub := &recordingPublisher{}
	sink := New(pub)
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	sink.now = func() time.Time { return now }

	err := sink.Publish(context.Background(), domain.Event{
		Type:    domain.EventBookingCancelled,
		Payload: domain.EventPayload{InvoiceNumber: "INV123", Status: domain.StatusCancelled, PaymentStatus: domain.PaymentUnpaid},
		UserID:  7,
	})
	require.NoError(t, err)

	assert.Equal(t, "booking.cancelled", pub.key)
	msg, ok := pub.msg.(Message)
	require.True(t, ok)
	assert.Equal(t, int64(7), msg.UserID)
	assert.Equal(t, "INV123", msg.Data.InvoiceNumber)
	assert.Equal(t, now, msg.OccurredAt)
}

func TestSink_PublishError(t *testing.T) {
	sink := New(&recordingPublisher{err: errors.New("channel closed")})

	err := sink.Publish(context.Background(), domain.Event{Type: domain.EventBookingCreated})
	assert.ErrorContains(t, err, "channel closed")
}
