package domain

import "time"

// DiscountType percentage or fixed amount
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Voucher discount definition. Amounts are in rupiah.
type Voucher struct {
	ID            int64
	Code          string
	DiscountType  DiscountType
	DiscountValue int64  // процент для percentage, сумма для fixed
	MinPurchase   int64
	MaxDiscount   *int64 // nil = без ограничения
	UsageLimit    int    // 0 = без ограничения
	UsedCount     int
	ValidFrom     time.Time
	ValidUntil    time.Time
	IsActive      bool
}

// UserVoucher a voucher claimed by a user, single use
type UserVoucher struct {
	ID        int64
	UserID    int64
	VoucherID int64
	ClaimedAt time.Time
	UsedAt    *time.Time
	IsUsed    bool

	Voucher *Voucher
}

// IsValidAt returns true if now is inside [ValidFrom, ValidUntil]
func (v *Voucher) IsValidAt(now time.Time) bool {
	return !now.Before(v.ValidFrom) && !now.After(v.ValidUntil)
}

// IsExhausted returns true if the usage limit is reached
func (v *Voucher) IsExhausted() bool {
	return v.UsageLimit > 0 && v.UsedCount >= v.UsageLimit
}

// CalculateDiscount returns the discount for a pre-discount price.
// Percentage discounts are capped at MaxDiscount, every discount is capped at the price.
func CalculateDiscount(price int64, v *Voucher) int64 {
	if v == nil || price <= 0 {
		return 0
	}

	var discount int64
	switch v.DiscountType {
	case DiscountPercentage:
		discount = price * v.DiscountValue / 100
		if v.MaxDiscount != nil && discount > *v.MaxDiscount {
			discount = *v.MaxDiscount
		}
	case DiscountFixed:
		discount = v.DiscountValue
	}

	if discount < 0 {
		return 0
	}
	if discount > price {
		return price
	}
	return discount
}

// CheckEligibility validates that the user may apply the voucher to the price
func CheckEligibility(price int64, v *Voucher, uv *UserVoucher, now time.Time) error {
	switch {
	case !v.IsActive:
		return ErrVoucherInactive
	case !v.IsValidAt(now):
		return ErrVoucherNotValidNow
	case v.IsExhausted():
		return ErrVoucherExhausted
	case uv == nil:
		return ErrVoucherNotClaimed
	case uv.IsUsed:
		return ErrVoucherUsed
	case price < v.MinPurchase:
		return ErrVoucherBelowMinimum
	}
	return nil
}

// Quote price breakdown of a booking
type Quote struct {
	DurationMinutes  int
	TotalAmount      int64
	DiscountAmount   int64
	ServiceFee       int64
	FinalTotalAmount int64
}

// PriceFor returns the court price for the duration
func PriceFor(pricePerHour int64, minutes int) int64 {
	return pricePerHour * int64(minutes) / 60
}

// FinalTotal total - discount + fee, never negative
func FinalTotal(total, discount, fee int64) int64 {
	final := total - discount + fee
	if final < 0 {
		return 0
	}
	return final
}

// NewQuote builds the price breakdown. Preview and creation both go through it,
// so the same inputs always give the same amounts.
func NewQuote(pricePerHour int64, minutes int, v *Voucher, serviceFee int64) Quote {
	total := PriceFor(pricePerHour, minutes)
	discount := CalculateDiscount(total, v)

	return Quote{
		DurationMinutes:  minutes,
		TotalAmount:      total,
		DiscountAmount:   discount,
		ServiceFee:       serviceFee,
		FinalTotalAmount: FinalTotal(total, discount, serviceFee),
	}
}
