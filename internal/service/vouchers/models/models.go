package models

import (
	"time"

	"github.com/sportafit/booking-service/internal/domain"
)

// VoucherResponse описание ваучера
type VoucherResponse struct {
	ID            int64     `json:"id"`
	Code          string    `json:"code"`
	DiscountType  string    `json:"discount_type"`
	DiscountValue int64     `json:"discount_value"`
	MinPurchase   int64     `json:"min_purchase"`
	MaxDiscount   *int64    `json:"max_discount,omitempty"`
	ValidFrom     time.Time `json:"valid_from"`
	ValidUntil    time.Time `json:"valid_until"`
}

// UserVoucherResponse ваучер, полученный пользователем
type UserVoucherResponse struct {
	ID        int64            `json:"id"`
	ClaimedAt time.Time        `json:"claimed_at"`
	UsedAt    *time.Time       `json:"used_at,omitempty"`
	IsUsed    bool             `json:"is_used"`
	Voucher   *VoucherResponse `json:"voucher,omitempty"`
}

// UserVoucherListResponse ваучеры пользователя
type UserVoucherListResponse struct {
	Vouchers []UserVoucherResponse `json:"vouchers"`
}

// FromDomainVoucher конвертирует domain модель в DTO
func FromDomainVoucher(v *domain.Voucher) *VoucherResponse {
	if v == nil {
		return nil
	}
	return &VoucherResponse{
		ID:            v.ID,
		Code:          v.Code,
		DiscountType:  string(v.DiscountType),
		DiscountValue: v.DiscountValue,
		MinPurchase:   v.MinPurchase,
		MaxDiscount:   v.MaxDiscount,
		ValidFrom:     v.ValidFrom,
		ValidUntil:    v.ValidUntil,
	}
}

// FromDomainUserVoucher конвертирует domain модель в DTO
func FromDomainUserVoucher(uv *domain.UserVoucher) UserVoucherResponse {
	return UserVoucherResponse{
		ID:        uv.ID,
		ClaimedAt: uv.ClaimedAt,
		UsedAt:    uv.UsedAt,
		IsUsed:    uv.IsUsed,
		Voucher:   FromDomainVoucher(uv.Voucher),
	}
}
