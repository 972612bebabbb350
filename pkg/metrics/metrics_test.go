package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/api/bookings", 200, time.Millisecond)
		m.ObserveTransition("pending", "confirmed")
		m.AddExpired(3)
		m.SSEConnected()
		m.SSEDisconnected()
		m.EventPublished("BOOKING_UPDATED")
	})
}

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg, "sportafit-test")

	m.AddExpired(2)
	m.AddExpired(0)
	m.ObserveTransition("pending", "expired")
	m.ObserveTransition("pending", "expired")
	m.SSEConnected()
	m.SSEConnected()
	m.SSEDisconnected()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookingsExpired))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookingTransitions.WithLabelValues("pending", "expired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sseConnections))
}
