package payment

import "errors"

var (
	// ErrMalformedMessage сообщение не удалось разобрать
	ErrMalformedMessage = errors.New("payment consumer: malformed message")

	// ErrUnknownEvent событие, которое сервис не обрабатывает
	ErrUnknownEvent = errors.New("payment consumer: unknown event")
)
