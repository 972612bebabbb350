package update_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sportafit/booking-service/internal/api/handlers"
	"github.com/sportafit/booking-service/internal/service/bookings"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgNotFound           = "booking not found"
	msgInvalidTransition  = "status transition is not allowed"
	msgConflict           = "booking was modified by another request, retry"
	msgNothingToUpdate    = "status or payment_status is required"
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

// Handle PUT /api/bookings/{invoiceNumber}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	invoice := mux.Vars(r)["invoiceNumber"]

	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/{invoiceNumber} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(req); err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}
	if req.Status == nil && req.PaymentStatus == nil {
		handlers.RespondBadRequest(w, msgNothingToUpdate)
		return
	}

	result, err := h.service.UpdateStatus(r.Context(), invoice, req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrInvalidTransition):
			handlers.RespondBadRequest(w, handlers.DomainMessage(err, msgInvalidTransition))

		case errors.Is(err, bookings.ErrConflict):
			h.logger.Warn("PUT /bookings/{invoiceNumber} - Concurrent update: invoice=%s", invoice)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PUT /bookings/{invoiceNumber} - Failed to update booking: invoice=%s, error=%v", invoice, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{invoiceNumber} - Booking updated: invoice=%s, status=%s, payment_status=%s",
		invoice, result.Status, result.PaymentStatus)
	handlers.RespondJSON(w, http.StatusOK, result)
}
