package get_user_vouchers

import (
	"context"

	"github.com/sportafit/booking-service/internal/service/vouchers/models"
)

type VoucherService interface {
	ListUserVouchers(ctx context.Context, userID int64) (*models.UserVoucherListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
