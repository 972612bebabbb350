package voucher

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/sportafit/booking-service/internal/domain"
	"github.com/sportafit/booking-service/pkg/dbmetrics"
	"github.com/sportafit/booking-service/pkg/psqlbuilder"
)

const uniqueViolation = "23505"

var voucherColumns = []string{
	"v.id",
	"v.code",
	"v.discount_type",
	"v.discount_value",
	"v.min_purchase",
	"v.max_discount",
	"v.usage_limit",
	"v.used_count",
	"v.valid_from",
	"v.valid_until",
	"v.is_active",
}

// Repository репозиторий ваучеров и ваучеров пользователей
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByCode получает ваучер по коду (без учёта регистра)
// Внутри транзакции строка блокируется, used_count меняется в той же транзакции
func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(voucherColumns...).
		From("vouchers v").
		Where(squirrel.Eq{"v.code": strings.ToUpper(strings.TrimSpace(code))})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCode - build select query: %w", ErrBuildQuery, err)
	}

	v, err := scanVoucher(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVoucherNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCode - scan voucher: %w", ErrScanRow, err)
	}
	return v, nil
}

// GetUserVoucher получает ваучер, полученный пользователем
func (r *Repository) GetUserVoucher(ctx context.Context, userID, voucherID int64) (*domain.UserVoucher, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "user_id", "voucher_id", "claimed_at", "used_at", "is_used").
		From("user_vouchers").
		Where(squirrel.Eq{"user_id": userID, "voucher_id": voucherID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetUserVoucher - build select query: %w", ErrBuildQuery, err)
	}

	var (
		uv     domain.UserVoucher
		usedAt sql.NullTime
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&uv.ID, &uv.UserID, &uv.VoucherID, &uv.ClaimedAt, &usedAt, &uv.IsUsed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserVoucherNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetUserVoucher - scan: %w", ErrScanRow, err)
	}
	if usedAt.Valid {
		uv.UsedAt = &usedAt.Time
	}
	return &uv, nil
}

// Claim привязывает ваучер к пользователю
func (r *Repository) Claim(ctx context.Context, userID, voucherID int64, now time.Time) (*domain.UserVoucher, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("user_vouchers").
		Columns("user_id", "voucher_id", "claimed_at", "is_used").
		Values(userID, voucherID, now, false).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Claim - build insert query: %w", ErrBuildQuery, err)
	}

	uv := &domain.UserVoucher{UserID: userID, VoucherID: voucherID, ClaimedAt: now}
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&uv.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrAlreadyClaimed
		}
		return nil, fmt.Errorf("%w: Claim - execute insert: %w", ErrExecQuery, err)
	}
	return uv, nil
}

// MarkUsed помечает ваучер пользователя использованным и увеличивает счётчик использований
// Вызывается в транзакции создания бронирования
func (r *Repository) MarkUsed(ctx context.Context, userVoucherID, voucherID int64, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("user_vouchers").
		Set("is_used", true).
		Set("used_at", now).
		Where(squirrel.Eq{"id": userVoucherID, "is_used": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkUsed - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkUsed - execute update: %w", ErrExecQuery, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkUsed - get rows affected: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrAlreadyUsed
	}

	query, args, err = psqlbuilder.Update("vouchers").
		Set("used_count", squirrel.Expr("used_count + 1")).
		Where(squirrel.Eq{"id": voucherID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkUsed - build counter query: %w", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MarkUsed - increment used_count: %w", ErrExecQuery, err)
	}

	return nil
}

// ListByUser ваучеры пользователя вместе с описанием ваучера, новые первыми
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*domain.UserVoucher, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	columns := append([]string{"uv.id", "uv.user_id", "uv.voucher_id", "uv.claimed_at", "uv.used_at", "uv.is_used"}, voucherColumns...)
	query, args, err := psqlbuilder.Select(columns...).
		From("user_vouchers uv").
		Join("vouchers v ON v.id = uv.voucher_id").
		Where(squirrel.Eq{"uv.user_id": userID}).
		OrderBy("uv.claimed_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.UserVoucher, 0)
	for rows.Next() {
		var (
			uv          domain.UserVoucher
			v           domain.Voucher
			usedAt      sql.NullTime
			maxDiscount sql.NullInt64
		)
		err := rows.Scan(
			&uv.ID, &uv.UserID, &uv.VoucherID, &uv.ClaimedAt, &usedAt, &uv.IsUsed,
			&v.ID, &v.Code, &v.DiscountType, &v.DiscountValue, &v.MinPurchase, &maxDiscount,
			&v.UsageLimit, &v.UsedCount, &v.ValidFrom, &v.ValidUntil, &v.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByUser - scan row: %w", ErrScanRow, err)
		}
		if usedAt.Valid {
			uv.UsedAt = &usedAt.Time
		}
		if maxDiscount.Valid {
			v.MaxDiscount = &maxDiscount.Int64
		}
		uv.Voucher = &v
		result = append(result, &uv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByUser - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVoucher(row rowScanner) (*domain.Voucher, error) {
	var (
		v           domain.Voucher
		maxDiscount sql.NullInt64
	)
	err := row.Scan(
		&v.ID, &v.Code, &v.DiscountType, &v.DiscountValue, &v.MinPurchase, &maxDiscount,
		&v.UsageLimit, &v.UsedCount, &v.ValidFrom, &v.ValidUntil, &v.IsActive,
	)
	if err != nil {
		return nil, err
	}
	if maxDiscount.Valid {
		v.MaxDiscount = &maxDiscount.Int64
	}
	return &v, nil
}
