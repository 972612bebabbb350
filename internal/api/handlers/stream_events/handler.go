package stream_events

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sportafit/booking-service/internal/api/handlers"
	"github.com/sportafit/booking-service/internal/api/middleware"
	"github.com/sportafit/booking-service/internal/domain"
)

const (
	msgUnauthorized     = "authentication required"
	msgStreamNotSupport = "streaming is not supported"

	defaultHeartbeat = 25 * time.Second
)

type Handler struct {
	hub       Hub
	heartbeat time.Duration
	logger    Logger
}

func NewHandler(hub Hub, heartbeat time.Duration, logger Logger) *Handler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &Handler{
		hub:       hub,
		heartbeat: heartbeat,
		logger:    logger,
	}
}

// Handle GET /api/events
// Поток живёт до отключения клиента, ошибки записи или удаления подписчика хабом
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	rc := http.NewResponseController(w)
	// WriteTimeout сервера оборвал бы долгий поток
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		h.logger.Warn("GET /events - Failed to clear write deadline: %v", err)
	}

	sub := h.hub.Subscribe(user.ID, user.IsAdmin())
	defer h.hub.Unsubscribe(sub.ID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		h.logger.Error("GET /events - %s: %v", msgStreamNotSupport, err)
		return
	}

	h.logger.Info("GET /events - Stream opened: user_id=%d, subscriber=%s", user.ID, sub.ID)
	defer h.logger.Info("GET /events - Stream closed: user_id=%d, subscriber=%s", user.ID, sub.ID)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return

		case event, ok := <-sub.Events():
			if !ok {
				h.logger.Warn("GET /events - Subscriber dropped by hub: user_id=%d, subscriber=%s", user.ID, sub.ID)
				return
			}
			if err := writeEvent(w, event); err != nil {
				h.logger.Warn("GET /events - Write failed: subscriber=%s, error=%v", sub.ID, err)
				return
			}

		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		}

		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, event domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
	return err
}
