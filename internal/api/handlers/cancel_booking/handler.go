package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sportafit/booking-service/internal/api/handlers"
	"github.com/sportafit/booking-service/internal/api/middleware"
	"github.com/sportafit/booking-service/internal/service/bookings"
)

const (
	msgUnauthorized       = "authentication required"
	msgInvalidRequestBody = "invalid request body"
	msgNotFound           = "booking not found"
	msgForbidden          = "access denied"
	msgCannotCancel       = "booking cannot be cancelled"
	msgConflict           = "booking was modified by another request, retry"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/bookings/{invoiceNumber}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}
	invoice := mux.Vars(r)["invoiceNumber"]

	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("PATCH /bookings/{invoiceNumber}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(req); err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.service.Cancel(r.Context(), invoice, user, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{invoiceNumber}/cancel - Access denied: invoice=%s, user_id=%d", invoice, user.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrCannotCancel), errors.Is(err, bookings.ErrInvalidTransition):
			handlers.RespondBadRequest(w, msgCannotCancel)

		case errors.Is(err, bookings.ErrConflict):
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /bookings/{invoiceNumber}/cancel - Failed to cancel booking: invoice=%s, error=%v", invoice, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{invoiceNumber}/cancel - Booking cancelled: invoice=%s, user_id=%d", invoice, user.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
