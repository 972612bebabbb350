package preview_booking

import (
	"errors"
	"net/http"

	"github.com/sportafit/booking-service/internal/api/handlers"
	"github.com/sportafit/booking-service/internal/api/middleware"
	previewBooking "github.com/sportafit/booking-service/internal/usecase/preview_booking"
)

const (
	msgInvalidRequestBody   = "invalid request body"
	msgInvalidTime          = "invalid time format, expected HH:MM"
	msgUnauthorized         = "authentication required"
	msgCourtNotFound        = "court not found"
	msgCourtUnavailable     = "court is not available for booking"
	msgInvalidTimeSlot      = "invalid time slot"
	msgVoucherNotFound      = "voucher not found"
	msgVoucherNotApplicable = "voucher cannot be applied to this booking"
)

type Handler struct {
	useCase PreviewBookingUseCase
	logger  Logger
}

func NewHandler(useCase PreviewBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/bookings/preview
// Ничего не сохраняет: ваучер проверяется, но не списывается
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req PreviewRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/preview - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(req); err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(user.ID)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, previewBooking.ErrCourtNotFound):
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, previewBooking.ErrCourtUnavailable):
			handlers.RespondBadRequest(w, msgCourtUnavailable)

		case errors.Is(err, previewBooking.ErrInvalidTimeSlot):
			handlers.RespondBadRequest(w, handlers.DomainMessage(err, msgInvalidTimeSlot))

		case errors.Is(err, previewBooking.ErrVoucherNotFound):
			handlers.RespondNotFound(w, msgVoucherNotFound)

		case errors.Is(err, previewBooking.ErrVoucherNotApplicable):
			handlers.RespondBadRequest(w, handlers.DomainMessage(err, msgVoucherNotApplicable))

		case errors.Is(err, previewBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings/preview - Failed to preview booking: user_id=%d, court_id=%d, error=%v",
				user.ID, req.CourtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
