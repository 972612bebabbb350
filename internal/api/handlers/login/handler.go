package login

import (
	"errors"
	"net/http"

	"github.com/sportafit/booking-service/internal/api/handlers"
	loginUC "github.com/sportafit/booking-service/internal/usecase/login"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidCredentials = "invalid email or password"
)

type Handler struct {
	useCase LoginUseCase
	logger  Logger
}

func NewHandler(useCase LoginUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/auth/login
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/login - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(req); err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), &loginUC.Request{Email: req.Email, Password: req.Password})
	if err != nil {
		switch {
		case errors.Is(err, loginUC.ErrInvalidCredentials), errors.Is(err, loginUC.ErrInvalidInput):
			handlers.RespondUnauthorized(w, msgInvalidCredentials)
		default:
			h.logger.Error("POST /auth/login - Failed to log in: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /auth/login - User logged in: user_id=%d", result.User.ID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
