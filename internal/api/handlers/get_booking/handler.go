package get_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sportafit/booking-service/internal/api/handlers"
	"github.com/sportafit/booking-service/internal/api/middleware"
	"github.com/sportafit/booking-service/internal/service/bookings"
)

const (
	msgUnauthorized = "authentication required"
	msgNotFound     = "booking not found"
	msgForbidden    = "access denied"
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

// Handle GET /api/bookings/{invoiceNumber}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}
	invoice := mux.Vars(r)["invoiceNumber"]

	result, err := h.service.GetByInvoice(r.Context(), invoice, user)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /bookings/{invoiceNumber} - Access denied: invoice=%s, user_id=%d", invoice, user.ID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /bookings/{invoiceNumber} - Failed to get booking: invoice=%s, error=%v", invoice, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
