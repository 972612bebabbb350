package redisbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sportafit/booking-service/internal/domain"
)

// Deliverer локальный хаб подписчиков
type Deliverer interface {
	Deliver(e domain.Event) int
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// envelope событие вместе с адресатом, UserID в самом событии не сериализуется
type envelope struct {
	UserID int64        `json:"userId"`
	Event  domain.Event `json:"event"`
}

// Bus мост между экземплярами сервиса через Redis pub/sub
// Publish отправляет событие в канал, Run получает события всех экземпляров
// и передаёт их в локальный хаб
type Bus struct {
	client  redis.UniversalClient
	channel string
	local   Deliverer
	logger  Logger
}

func New(client redis.UniversalClient, channel string, local Deliverer, logger Logger) *Bus {
	return &Bus{
		client:  client,
		channel: channel,
		local:   local,
		logger:  logger,
	}
}

// Publish реализует events.Transport
func (b *Bus) Publish(ctx context.Context, e domain.Event) error {
	data, err := encode(e)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("redisbus: publish to %s: %w", b.channel, err)
	}
	return nil
}

// Run слушает канал до отмены ctx
func (b *Bus) Run(ctx context.Context) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	// Дожидаемся подтверждения подписки, иначе первые события могут потеряться
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("redisbus: subscribe to %s: %w", b.channel, err)
	}
	b.logger.Info("RedisBus: subscribed to channel %s", b.channel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return errors.New("redisbus: subscription channel closed")
			}
			b.handle(msg.Payload)
		}
	}
}

func (b *Bus) handle(payload string) {
	e, err := decode(payload)
	if err != nil {
		b.logger.Warn("RedisBus: skip malformed message: %v", err)
		return
	}
	b.local.Deliver(e)
}

func encode(e domain.Event) ([]byte, error) {
	data, err := json.Marshal(envelope{UserID: e.UserID, Event: e})
	if err != nil {
		return nil, fmt.Errorf("redisbus: marshal event: %w", err)
	}
	return data, nil
}

func decode(payload string) (domain.Event, error) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return domain.Event{}, fmt.Errorf("redisbus: unmarshal event: %w", err)
	}
	if env.Event.Type == "" || env.Event.Payload.InvoiceNumber == "" {
		return domain.Event{}, errors.New("redisbus: event without type or invoice")
	}
	env.Event.UserID = env.UserID
	return env.Event, nil
}
