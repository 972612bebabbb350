package stream_events

import (
	"github.com/sportafit/booking-service/internal/infra/events"
)

// Hub реестр SSE подписчиков
type Hub interface {
	Subscribe(userID int64, admin bool) *events.Subscriber
	Unsubscribe(id string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
