package vouchers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sportafit/booking-service/internal/domain"
	voucherRepo "github.com/sportafit/booking-service/internal/infra/storage/voucher"
)

// VoucherReader чтение ваучера и его привязки к пользователю
type VoucherReader interface {
	GetByCode(ctx context.Context, code string) (*domain.Voucher, error)
	GetUserVoucher(ctx context.Context, userID, voucherID int64) (*domain.UserVoucher, error)
}

// Resolve находит ваучер по коду и проверяет, что пользователь может применить его к цене price.
// Общий путь для предпросмотра и создания бронирования, ваучер не списывается.
// Ошибки: ErrVoucherNotFound, ErrNotApplicable (с причиной из domain), ErrInternal
func Resolve(
	ctx context.Context,
	repo VoucherReader,
	userID int64,
	code string,
	price int64,
	now time.Time,
) (*domain.Voucher, *domain.UserVoucher, error) {
	code = strings.TrimSpace(code)

	voucher, err := repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, voucherRepo.ErrVoucherNotFound) {
			return nil, nil, ErrVoucherNotFound
		}
		return nil, nil, fmt.Errorf("%w: Resolve - get voucher code=%s: %w", ErrInternal, code, err)
	}

	userVoucher, err := repo.GetUserVoucher(ctx, userID, voucher.ID)
	if err != nil && !errors.Is(err, voucherRepo.ErrUserVoucherNotFound) {
		return nil, nil, fmt.Errorf("%w: Resolve - get user voucher: %w", ErrInternal, err)
	}

	if err := domain.CheckEligibility(price, voucher, userVoucher, now); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrNotApplicable, err)
	}

	return voucher, userVoucher, nil
}
