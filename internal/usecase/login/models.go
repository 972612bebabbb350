package login

import (
	"time"

	"github.com/sportafit/booking-service/internal/domain"
)

// Request email и пароль
type Request struct {
	Email    string
	Password string
}

// Response выпущенный токен и пользователь
type Response struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}
