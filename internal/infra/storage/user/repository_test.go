package user

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportafit/booking-service/internal/domain"
	"github.com/sportafit/booking-service/pkg/dbmetrics"
)

func TestRepository_GetByEmail(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	repo := NewRepository(dbmetrics.Wrap(sqlDB, nil))
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM users WHERE LOWER\(email\) = \$1`).
		WithArgs("budi@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(7), "Budi", "Budi@example.com", "$2a$10$hash", "admin", now, now))

	u, err := repo.GetByEmail(context.Background(), "  BUDI@example.com ")
	require.NoError(t, err)

	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, domain.RoleAdmin, u.Role)
	assert.True(t, u.IsAdmin())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	repo := NewRepository(dbmetrics.Wrap(sqlDB, nil))

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err = repo.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
