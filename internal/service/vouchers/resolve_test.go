package vouchers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportafit/booking-service/internal/domain"
	voucherRepo "github.com/sportafit/booking-service/internal/infra/storage/voucher"
)

func TestResolve(t *testing.T) {
	ctx := context.Background()
	claim := &domain.UserVoucher{ID: 15, UserID: 7, VoucherID: 1}

	t.Run("claimed voucher applies", func(t *testing.T) {
		repo := &mockRepo{}
		repo.On("GetByCode", ctx, "HEMAT20").Return(activeVoucher(), nil)
		repo.On("GetUserVoucher", ctx, int64(7), int64(1)).Return(claim, nil)

		v, uv, err := Resolve(ctx, repo, 7, "  HEMAT20 ", 200000, testNow)
		require.NoError(t, err)

		assert.Equal(t, "HEMAT20", v.Code)
		assert.Equal(t, int64(15), uv.ID)
	})

	tests := []struct {
		name    string
		setup   func(repo *mockRepo)
		price   int64
		wantErr error
		reason  error
	}{
		{
			name: "unknown code",
			setup: func(repo *mockRepo) {
				repo.On("GetByCode", ctx, "HEMAT20").Return(nil, voucherRepo.ErrVoucherNotFound)
			},
			price:   200000,
			wantErr: ErrVoucherNotFound,
		},
		{
			name: "not claimed",
			setup: func(repo *mockRepo) {
				repo.On("GetByCode", ctx, "HEMAT20").Return(activeVoucher(), nil)
				repo.On("GetUserVoucher", ctx, int64(7), int64(1)).Return(nil, voucherRepo.ErrUserVoucherNotFound)
			},
			price:   200000,
			wantErr: ErrNotApplicable,
			reason:  domain.ErrVoucherNotClaimed,
		},
		{
			name: "below minimum purchase",
			setup: func(repo *mockRepo) {
				v := activeVoucher()
				v.MinPurchase = 300000
				repo.On("GetByCode", ctx, "HEMAT20").Return(v, nil)
				repo.On("GetUserVoucher", ctx, int64(7), int64(1)).Return(claim, nil)
			},
			price:   200000,
			wantErr: ErrNotApplicable,
			reason:  domain.ErrVoucherBelowMinimum,
		},
		{
			name: "repository failure",
			setup: func(repo *mockRepo) {
				repo.On("GetByCode", ctx, "HEMAT20").Return(activeVoucher(), nil)
				repo.On("GetUserVoucher", ctx, int64(7), int64(1)).Return(nil, errors.New("connection reset"))
			},
			price:   200000,
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			tt.setup(repo)

			v, uv, err := Resolve(ctx, repo, 7, "HEMAT20", tt.price, testNow)

			assert.ErrorIs(t, err, tt.wantErr)
			if tt.reason != nil {
				assert.ErrorIs(t, err, tt.reason)
			}
			assert.Nil(t, v)
			assert.Nil(t, uv)
		})
	}
}
