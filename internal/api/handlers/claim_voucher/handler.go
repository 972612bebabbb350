package claim_voucher

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sportafit/booking-service/internal/api/handlers"
	"github.com/sportafit/booking-service/internal/api/middleware"
	"github.com/sportafit/booking-service/internal/service/vouchers"
)

const (
	msgUnauthorized   = "authentication required"
	msgInvalidCode    = "invalid voucher code"
	msgNotFound       = "voucher not found"
	msgAlreadyClaimed = "voucher is already claimed"
	msgNotClaimable   = "voucher cannot be claimed"
)

type Handler struct {
	service VoucherService
	logger  Logger
}

func NewHandler(service VoucherService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/vouchers/{code}/claim
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}
	code := mux.Vars(r)["code"]

	result, err := h.service.Claim(r.Context(), user.ID, code)
	if err != nil {
		switch {
		case errors.Is(err, vouchers.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidCode)

		case errors.Is(err, vouchers.ErrVoucherNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, vouchers.ErrAlreadyClaimed):
			handlers.RespondConflict(w, msgAlreadyClaimed)

		case errors.Is(err, vouchers.ErrNotClaimable):
			handlers.RespondBadRequest(w, handlers.DomainMessage(err, msgNotClaimable))

		default:
			h.logger.Error("POST /vouchers/{code}/claim - Failed to claim voucher: code=%s, user_id=%d, error=%v", code, user.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /vouchers/{code}/claim - Voucher claimed: code=%s, user_id=%d", code, user.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
