package create_booking

import (
	"errors"
	"net/http"

	"github.com/sportafit/booking-service/internal/api/handlers"
	"github.com/sportafit/booking-service/internal/api/middleware"
	createBooking "github.com/sportafit/booking-service/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody   = "invalid request body"
	msgInvalidTime          = "invalid time format, expected HH:MM"
	msgUnauthorized         = "authentication required"
	msgCourtNotFound        = "court not found"
	msgCourtUnavailable     = "court is not available for booking"
	msgInvalidTimeSlot      = "invalid time slot"
	msgSlotNotAvailable     = "selected time slot is already booked"
	msgVoucherNotFound      = "voucher not found"
	msgVoucherNotApplicable = "voucher cannot be applied to this booking"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(req); err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(user.ID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: user_id=%d, court_id=%d", user.ID, req.CourtID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrCourtNotFound):
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, createBooking.ErrCourtUnavailable):
			handlers.RespondBadRequest(w, msgCourtUnavailable)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			handlers.RespondBadRequest(w, handlers.DomainMessage(err, msgInvalidTimeSlot))

		case errors.Is(err, createBooking.ErrVoucherNotFound):
			handlers.RespondNotFound(w, msgVoucherNotFound)

		case errors.Is(err, createBooking.ErrVoucherNotApplicable):
			handlers.RespondBadRequest(w, handlers.DomainMessage(err, msgVoucherNotApplicable))

		case errors.Is(err, createBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, court_id=%d, error=%v",
				user.ID, req.CourtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: invoice=%s, user_id=%d, court_id=%d",
		result.InvoiceNumber, user.ID, req.CourtID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
