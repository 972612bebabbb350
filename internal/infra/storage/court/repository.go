package court

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/sportafit/booking-service/internal/domain"
	"github.com/sportafit/booking-service/pkg/dbmetrics"
	"github.com/sportafit/booking-service/pkg/psqlbuilder"
)

var courtColumns = []string{
	"c.id",
	"c.arena_id",
	"c.name",
	"c.price_per_hour",
	"c.is_active",
	"a.id",
	"a.name",
	"a.address",
	"a.open_time",
	"a.close_time",
	"a.is_active",
}

// Repository чтение кортов вместе с их ареной
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает корт и арену, к которой он относится
func (r *Repository) GetByID(ctx context.Context, courtID int64) (*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(courtColumns...).
		From("courts c").
		Join("arenas a ON a.id = c.arena_id").
		Where(squirrel.Eq{"c.id": courtID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	var (
		c domain.Court
		a domain.Arena
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID, &c.ArenaID, &c.Name, &c.PricePerHour, &c.IsActive,
		&a.ID, &a.Name, &a.Address, &a.OpenTime, &a.CloseTime, &a.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourtNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan court: %w", ErrScanRow, err)
	}

	c.Arena = &a
	return &c, nil
}
