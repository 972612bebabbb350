package booking_stats

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/sportafit/booking-service/internal/api/handlers"
	"github.com/sportafit/booking-service/internal/service/bookings"
)

const msgInvalidDays = "days must be a number between 1 and 366"

// Handler отчёты для админки, только чтение
type Handler struct {
	service StatsService
	logger  Logger
}

func NewHandler(service StatsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Stats GET /api/bookings/admin/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error("GET /bookings/admin/stats - Failed to get stats: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// ChartData GET /api/bookings/admin/chart-data?days=7
func (h *Handler) ChartData(w http.ResponseWriter, r *http.Request) {
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDays)
			return
		}
		days = n
	}

	result, err := h.service.ChartData(r.Context(), days)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidDays)
			return
		}
		h.logger.Error("GET /bookings/admin/chart-data - Failed to get chart data: days=%d, error=%v", days, err)
		handlers.RespondInternalError(w)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// ArenaStats GET /api/bookings/admin/arena-stats
func (h *Handler) ArenaStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ArenaStats(r.Context())
	if err != nil {
		h.logger.Error("GET /bookings/admin/arena-stats - Failed to get arena stats: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}
