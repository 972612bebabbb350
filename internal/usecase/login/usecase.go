package login

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	userRepo "github.com/sportafit/booking-service/internal/infra/storage/user"
)

// UseCase вход по email и паролю
type UseCase struct {
	userRepo UserRepository
	issuer   TokenIssuer
	logger   Logger
}

func NewUseCase(userRepo UserRepository, issuer TokenIssuer, logger Logger) *UseCase {
	return &UseCase{
		userRepo: userRepo,
		issuer:   issuer,
		logger:   logger,
	}
}

// Execute сверяет пароль с bcrypt хешем и выпускает токен
// Неизвестный email и неверный пароль дают одну и ту же ошибку
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			uc.logger.Warn("Login: unknown email=%s", email)
			return nil, ErrInvalidCredentials
		}
		uc.logger.Error("Login: failed to get user email=%s: %v", email, err)
		return nil, fmt.Errorf("%w: failed to get user: %w", ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		uc.logger.Warn("Login: wrong password for user=%d", user.ID)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := uc.issuer.Issue(user.ID, string(user.Role))
	if err != nil {
		uc.logger.Error("Login: failed to issue token for user=%d: %v", user.ID, err)
		return nil, fmt.Errorf("%w: failed to issue token: %w", ErrInternal, err)
	}

	uc.logger.Info("Login: user=%d role=%s logged in", user.ID, user.Role)
	return &Response{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
