package stream_events

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportafit/booking-service/internal/api/middleware"
	"github.com/sportafit/booking-service/internal/domain"
	"github.com/sportafit/booking-service/internal/infra/events"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type nopMetrics struct{}

func (nopMetrics) SSEConnected()    {}
func (nopMetrics) SSEDisconnected() {}

func withUser(user *domain.User, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next(w, r.WithContext(middleware.WithUser(r.Context(), user)))
	}
}

// readUntil читает строки потока, пока не встретится строка с префиксом
func readUntil(t *testing.T, r *bufio.Reader, prefix string) string {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line)
		}
	}
}

func TestHandler_StreamsOwnEvents(t *testing.T) {
	hub := events.NewHub(4, nopMetrics{}, nopLogger{})
	h := NewHandler(hub, time.Hour, nopLogger{})
	srv := httptest.NewServer(withUser(&domain.User{ID: 7, Role: domain.RoleUser}, h.Handle))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readUntil(t, reader, ": connected")

	other := domain.Event{Type: domain.EventBookingCreated, Payload: domain.EventPayload{InvoiceNumber: "INV-OTHER"}, UserID: 8}
	own := domain.Event{
		Type:    domain.EventBookingUpdated,
		Payload: domain.EventPayload{InvoiceNumber: "INV123", Status: domain.StatusConfirmed, PaymentStatus: domain.PaymentPaid},
		UserID:  7,
	}
	assert.Equal(t, 0, hub.Deliver(other))
	assert.Equal(t, 1, hub.Deliver(own))

	assert.Equal(t, "event: BOOKING_UPDATED", readUntil(t, reader, "event:"))
	assert.Equal(t,
		`data: {"type":"BOOKING_UPDATED","payload":{"invoiceNumber":"INV123","status":"confirmed","paymentStatus":"paid"}}`,
		readUntil(t, reader, "data:"))

	// после отключения клиента подписчик удаляется
	require.NoError(t, resp.Body.Close())
	assert.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, hub.Deliver(own))
}

func TestHandler_Heartbeat(t *testing.T) {
	hub := events.NewHub(4, nopMetrics{}, nopLogger{})
	h := NewHandler(hub, 20*time.Millisecond, nopLogger{})
	srv := httptest.NewServer(withUser(&domain.User{ID: 1, Role: domain.RoleAdmin}, h.Handle))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	readUntil(t, reader, ": connected")
	assert.Equal(t, ": ping", readUntil(t, reader, ": ping"))
}

func TestHandler_Unauthorized(t *testing.T) {
	h := NewHandler(events.NewHub(1, nopMetrics{}, nopLogger{}), time.Hour, nopLogger{})
	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
