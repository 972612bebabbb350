package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sportafit/booking-service/internal/api/handlers"
	"github.com/sportafit/booking-service/internal/domain"
	userRepo "github.com/sportafit/booking-service/internal/infra/storage/user"
	"github.com/sportafit/booking-service/pkg/auth"
)

const (
	msgMissingToken = "authorization token is required"
	msgInvalidToken = "invalid or expired token"
	msgAdminOnly    = "admin access required"
)

type contextKey string

const userContextKey contextKey = "user"

// TokenParser проверка access-токена
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// UserRepository пользователь загружается на каждый запрос, роль и удаление вступают в силу сразу
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type Auth struct {
	tokens TokenParser
	users  UserRepository
	logger Logger
}

func NewAuth(tokens TokenParser, users UserRepository, logger Logger) *Auth {
	return &Auth{tokens: tokens, users: users, logger: logger}
}

// Require токен только из заголовка Authorization: Bearer <token>
func (a *Auth) Require(next http.Handler) http.Handler {
	return a.authenticate(next, false)
}

// RequireStream дополнительно принимает ?token=, EventSource не умеет слать заголовки
func (a *Auth) RequireStream(next http.Handler) http.Handler {
	return a.authenticate(next, true)
}

func (a *Auth) authenticate(next http.Handler, allowQuery bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" && allowQuery {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			handlers.RespondUnauthorized(w, msgMissingToken)
			return
		}

		claims, err := a.tokens.Parse(token)
		if err != nil {
			a.logger.Warn("%s %s - token rejected: %v", r.Method, r.URL.Path, err)
			handlers.RespondUnauthorized(w, msgInvalidToken)
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			handlers.RespondUnauthorized(w, msgInvalidToken)
			return
		}

		user, err := a.users.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, userRepo.ErrUserNotFound) {
				a.logger.Warn("%s %s - token for unknown user_id=%d", r.Method, r.URL.Path, userID)
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}
			a.logger.Error("%s %s - failed to load user_id=%d: %v", r.Method, r.URL.Path, userID, err)
			handlers.RespondInternalError(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireAdmin ставится после Require
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUser(r.Context())
		if !ok {
			handlers.RespondUnauthorized(w, msgMissingToken)
			return
		}
		if !user.IsAdmin() {
			handlers.RespondForbidden(w, msgAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUser пользователь, установленный Auth
func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	return user, ok && user != nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}
