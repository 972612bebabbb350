package vouchers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sportafit/booking-service/internal/domain"
	voucherRepo "github.com/sportafit/booking-service/internal/infra/storage/voucher"
	"github.com/sportafit/booking-service/internal/service/vouchers/models"
)

// Service сервис ваучеров пользователя
type Service struct {
	voucherRepo  VoucherRepository
	timeProvider TimeProvider
	logger       Logger
}

func NewService(voucherRepo VoucherRepository, timeProvider TimeProvider, logger Logger) *Service {
	return &Service{
		voucherRepo:  voucherRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Claim привязывает ваучер к пользователю
// Неактивный, просроченный или исчерпанный ваучер получить нельзя
func (s *Service) Claim(ctx context.Context, userID int64, code string) (*models.UserVoucherResponse, error) {
	code = strings.TrimSpace(code)
	if code == "" || len(code) > domain.MaxVoucherCodeLength {
		return nil, fmt.Errorf("%w: voucher code must be 1..%d characters", ErrInvalidInput, domain.MaxVoucherCodeLength)
	}

	s.logger.Info("Claim: user=%d claims voucher code=%s", userID, code)

	voucher, err := s.voucherRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, voucherRepo.ErrVoucherNotFound) {
			s.logger.Warn("Claim: voucher code=%s not found", code)
			return nil, ErrVoucherNotFound
		}
		s.logger.Error("Claim: repository error for code=%s: %v", code, err)
		return nil, fmt.Errorf("%w: Claim - get voucher: %w", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	switch {
	case !voucher.IsActive:
		return nil, fmt.Errorf("%w: %w", ErrNotClaimable, domain.ErrVoucherInactive)
	case !voucher.IsValidAt(now):
		return nil, fmt.Errorf("%w: %w", ErrNotClaimable, domain.ErrVoucherNotValidNow)
	case voucher.IsExhausted():
		return nil, fmt.Errorf("%w: %w", ErrNotClaimable, domain.ErrVoucherExhausted)
	}

	uv, err := s.voucherRepo.Claim(ctx, userID, voucher.ID, now)
	if err != nil {
		if errors.Is(err, voucherRepo.ErrAlreadyClaimed) {
			s.logger.Warn("Claim: user=%d already claimed voucher=%d", userID, voucher.ID)
			return nil, ErrAlreadyClaimed
		}
		s.logger.Error("Claim: repository error for user=%d voucher=%d: %v", userID, voucher.ID, err)
		return nil, fmt.Errorf("%w: Claim - insert: %w", ErrInternal, err)
	}
	uv.Voucher = voucher

	s.logger.Info("Claim: user=%d claimed voucher=%d", userID, voucher.ID)
	resp := models.FromDomainUserVoucher(uv)
	return &resp, nil
}

// ListUserVouchers ваучеры пользователя, новые первыми
func (s *Service) ListUserVouchers(ctx context.Context, userID int64) (*models.UserVoucherListResponse, error) {
	list, err := s.voucherRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("ListUserVouchers: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: ListUserVouchers - repository error: %w", ErrInternal, err)
	}

	resp := &models.UserVoucherListResponse{
		Vouchers: make([]models.UserVoucherResponse, 0, len(list)),
	}
	for _, uv := range list {
		resp.Vouchers = append(resp.Vouchers, models.FromDomainUserVoucher(uv))
	}
	return resp, nil
}
