package claim_voucher

import (
	"context"

	"github.com/sportafit/booking-service/internal/service/vouchers/models"
)

type VoucherService interface {
	Claim(ctx context.Context, userID int64, code string) (*models.UserVoucherResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
