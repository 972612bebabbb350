package booking_stats

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sportafit/booking-service/internal/service/bookings"
	"github.com/sportafit/booking-service/internal/service/bookings/models"
)

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Stats(ctx context.Context) (*models.StatsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StatsResponse), args.Error(1)
}

func (m *MockStatsService) ChartData(ctx context.Context, days int) (*models.ChartDataResponse, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChartDataResponse), args.Error(1)
}

func (m *MockStatsService) ArenaStats(ctx context.Context) (*models.ArenaStatsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ArenaStatsResponse), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandler_Stats(t *testing.T) {
	svc := new(MockStatsService)
	svc.On("Stats", mock.Anything).Return(&models.StatsResponse{
		Total:    3,
		ByStatus: map[string]int64{"pending": 1, "confirmed": 2},
		Revenue:  370000,
	}, nil)

	w := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Stats(w, httptest.NewRequest(http.MethodGet, "/api/bookings/admin/stats", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":3,"by_status":{"pending":1,"confirmed":2},"revenue":370000}`, w.Body.String())
}

func TestHandler_ChartData(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		setupMock  func(*MockStatsService)
		wantStatus int
	}{
		{
			name: "default days",
			url:  "/api/bookings/admin/chart-data",
			setupMock: func(m *MockStatsService) {
				m.On("ChartData", mock.Anything, 0).Return(&models.ChartDataResponse{Days: 7}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "explicit days",
			url:  "/api/bookings/admin/chart-data?days=30",
			setupMock: func(m *MockStatsService) {
				m.On("ChartData", mock.Anything, 30).Return(&models.ChartDataResponse{Days: 30}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "not a number",
			url:        "/api/bookings/admin/chart-data?days=week",
			setupMock:  func(m *MockStatsService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "out of range",
			url:  "/api/bookings/admin/chart-data?days=1000",
			setupMock: func(m *MockStatsService) {
				m.On("ChartData", mock.Anything, 1000).Return(nil, bookings.ErrInvalidInput)
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockStatsService)
			tt.setupMock(svc)

			w := httptest.NewRecorder()
			NewHandler(svc, nopLogger{}).ChartData(w, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_ArenaStatsError(t *testing.T) {
	svc := new(MockStatsService)
	svc.On("ArenaStats", mock.Anything).Return(nil, errors.New("boom"))

	w := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).ArenaStats(w, httptest.NewRequest(http.MethodGet, "/api/bookings/admin/arena-stats", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
