package booking_stats

import (
	"context"

	"github.com/sportafit/booking-service/internal/service/bookings/models"
)

type StatsService interface {
	Stats(ctx context.Context) (*models.StatsResponse, error)
	ChartData(ctx context.Context, days int) (*models.ChartDataResponse, error)
	ArenaStats(ctx context.Context) (*models.ArenaStatsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
