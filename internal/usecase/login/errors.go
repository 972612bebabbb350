package login

import "errors"

var (
	// ErrInvalidCredentials неизвестный email или неверный пароль
	ErrInvalidCredentials = errors.New("login: invalid email or password")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("login: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("login: internal error")
)
