package events

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/sportafit/booking-service/internal/domain"
)

// ConnectionMetrics счётчик открытых потоков событий
type ConnectionMetrics interface {
	SSEConnected()
	SSEDisconnected()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Subscriber открытый поток событий одного клиента
// Администратор получает все события, пользователь только события своих бронирований
type Subscriber struct {
	ID     string
	UserID int64
	Admin  bool

	events chan domain.Event
}

// Events канал закрывается, когда подписчик удалён из хаба
func (s *Subscriber) Events() <-chan domain.Event {
	return s.events
}

func (s *Subscriber) wants(e domain.Event) bool {
	return s.Admin || s.UserID == e.UserID
}

// Hub реестр подписчиков текущего процесса
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]*Subscriber
	buffer      int
	metrics     ConnectionMetrics
	logger      Logger
}

func NewHub(buffer int, metrics ConnectionMetrics, logger Logger) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	return &Hub{
		subscribers: make(map[string]*Subscriber),
		buffer:      buffer,
		metrics:     metrics,
		logger:      logger,
	}
}

// Subscribe регистрирует новый поток
func (h *Hub) Subscribe(userID int64, admin bool) *Subscriber {
	sub := &Subscriber{
		ID:     uuid.NewString(),
		UserID: userID,
		Admin:  admin,
		events: make(chan domain.Event, h.buffer),
	}

	h.mu.Lock()
	h.subscribers[sub.ID] = sub
	count := len(h.subscribers)
	h.mu.Unlock()

	h.metrics.SSEConnected()
	h.logger.Info("Hub: subscriber %s connected (user=%d, admin=%t), total=%d", sub.ID, userID, admin, count)
	return sub
}

// Unsubscribe удаляет поток, повторный вызов ничего не делает
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(id)
}

// Deliver неблокирующая отправка события подходящим подписчикам
// Подписчик с заполненным буфером отключается, остальные получают событие
func (h *Hub) Deliver(e domain.Event) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for id, sub := range h.subscribers {
		if !sub.wants(e) {
			continue
		}
		select {
		case sub.events <- e:
			delivered++
		default:
			h.logger.Warn("Hub: subscriber %s is too slow, dropping it", id)
			h.removeLocked(id)
		}
	}
	return delivered
}

// Publish доставка в локальные подписчики, реализует Transport
func (h *Hub) Publish(_ context.Context, e domain.Event) error {
	h.Deliver(e)
	return nil
}

// Count количество открытых потоков
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Close отключает всех подписчиков при остановке сервиса
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id := range h.subscribers {
		h.removeLocked(id)
	}
}

func (h *Hub) removeLocked(id string) {
	sub, ok := h.subscribers[id]
	if !ok {
		return
	}
	delete(h.subscribers, id)
	close(sub.events)
	h.metrics.SSEDisconnected()
}
