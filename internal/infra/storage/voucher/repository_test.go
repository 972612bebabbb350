package voucher

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportafit/booking-service/internal/domain"
	"github.com/sportafit/booking-service/pkg/dbmetrics"
)

var testNow = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewRepository(dbmetrics.Wrap(sqlDB, nil)), mock
}

func TestRepository_GetByCode(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(`FROM vouchers v WHERE v.code = \$1`).
		WithArgs("HEMAT20").
		WillReturnRows(sqlmock.NewRows(voucherColumns).AddRow(
			int64(1), "HEMAT20", "percentage", int64(20), int64(100000), int64(50000),
			0, 0, testNow.Add(-time.Hour), testNow.Add(time.Hour), true,
		))

	v, err := repo.GetByCode(context.Background(), " hemat20 ")
	require.NoError(t, err)

	assert.Equal(t, domain.DiscountPercentage, v.DiscountType)
	require.NotNil(t, v.MaxDiscount)
	assert.Equal(t, int64(50000), *v.MaxDiscount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByCode_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(`FROM vouchers v`).WillReturnRows(sqlmock.NewRows(voucherColumns))

	_, err := repo.GetByCode(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrVoucherNotFound)
}

func TestRepository_Claim_Duplicate(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(`INSERT INTO user_vouchers`).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Claim(context.Background(), 7, 1, testNow)
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
}

func TestRepository_MarkUsed(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec(`UPDATE user_vouchers SET is_used = \$1, used_at = \$2 WHERE id = \$3 AND is_used = \$4`).
		WithArgs(true, testNow, int64(5), false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE vouchers SET used_count = used_count \+ 1 WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkUsed(context.Background(), 5, 1, testNow))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkUsed_AlreadyUsed(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec(`UPDATE user_vouchers`).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.MarkUsed(context.Background(), 5, 1, testNow), ErrAlreadyUsed)
	require.NoError(t, mock.ExpectationsWereMet())
}
