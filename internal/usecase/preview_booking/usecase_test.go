package preview_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportafit/booking-service/internal/domain"
	voucherRepo "github.com/sportafit/booking-service/internal/infra/storage/voucher"
	"github.com/sportafit/booking-service/pkg/ptr"
)

var testNow = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

type stubCourts struct{ court *domain.Court }

func (s stubCourts) GetByID(context.Context, int64) (*domain.Court, error) { return s.court, nil }

type stubBookings struct{ holders []*domain.Booking }

func (s stubBookings) GetSlotHolders(context.Context, int64, time.Time, time.Time) ([]*domain.Booking, error) {
	return s.holders, nil
}

type stubVouchers struct {
	voucher *domain.Voucher
	claim   *domain.UserVoucher
}

func (s stubVouchers) GetByCode(context.Context, string) (*domain.Voucher, error) {
	if s.voucher == nil {
		return nil, voucherRepo.ErrVoucherNotFound
	}
	return s.voucher, nil
}

func (s stubVouchers) GetUserVoucher(context.Context, int64, int64) (*domain.UserVoucher, error) {
	if s.claim == nil {
		return nil, voucherRepo.ErrUserVoucherNotFound
	}
	return s.claim, nil
}

type fixedClock struct{}

func (fixedClock) Now() time.Time { return testNow }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newUseCase(holders []*domain.Booking, vouchers stubVouchers) *UseCase {
	court := &domain.Court{
		ID: 3, ArenaID: 1, PricePerHour: 80000, IsActive: true,
		Arena: &domain.Arena{ID: 1, OpenTime: "06:00", CloseTime: "24:00", IsActive: true},
	}
	return NewUseCase(stubCourts{court: court}, stubBookings{holders: holders}, vouchers,
		Settings{ServiceFee: 4000, SlotDurationMinutes: 60}, fixedClock{}, nopLogger{})
}

func request() *Request {
	return &Request{
		UserID:    7,
		CourtID:   3,
		Date:      time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
		StartTime: "22:00",
		EndTime:   "24:00",
	}
}

func TestUseCase_Execute_NoVoucher(t *testing.T) {
	uc := newUseCase(nil, stubVouchers{})

	resp, err := uc.Execute(context.Background(), request())
	require.NoError(t, err)

	assert.Equal(t, 120, resp.DurationMinutes)
	assert.Equal(t, int64(160000), resp.TotalAmount)
	assert.Equal(t, int64(0), resp.DiscountAmount)
	assert.Equal(t, int64(164000), resp.FinalTotalAmount)
	assert.True(t, resp.Available)
	assert.Nil(t, resp.VoucherCode)
}

func TestUseCase_Execute_MatchesQuote(t *testing.T) {
	voucher := &domain.Voucher{
		ID: 1, Code: "FLAT50", DiscountType: domain.DiscountFixed, DiscountValue: 50000,
		ValidFrom: testNow.Add(-time.Hour), ValidUntil: testNow.Add(time.Hour), IsActive: true,
	}
	holders := []*domain.Booking{{Status: domain.StatusConfirmed, StartTime: "23:00", EndTime: "24:00"}}
	uc := newUseCase(holders, stubVouchers{voucher: voucher, claim: &domain.UserVoucher{ID: 2}})

	req := request()
	req.VoucherCode = ptr.Ptr("FLAT50")

	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	expected := domain.NewQuote(80000, 120, voucher, 4000)
	assert.Equal(t, expected.FinalTotalAmount, first.FinalTotalAmount)
	assert.Equal(t, int64(50000), first.DiscountAmount)
	assert.False(t, first.Available)
	require.NotNil(t, first.VoucherCode)
}

func TestUseCase_Execute_VoucherErrors(t *testing.T) {
	req := request()
	req.VoucherCode = ptr.Ptr("NOPE")

	_, err := newUseCase(nil, stubVouchers{}).Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrVoucherNotFound)

	used := &domain.Voucher{
		ID: 1, Code: "NOPE", DiscountType: domain.DiscountFixed, DiscountValue: 1,
		ValidFrom: testNow.Add(-time.Hour), ValidUntil: testNow.Add(time.Hour), IsActive: true,
	}
	_, err = newUseCase(nil, stubVouchers{voucher: used, claim: &domain.UserVoucher{IsUsed: true}}).
		Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrVoucherNotApplicable)
	assert.ErrorContains(t, err, "already used")
}
