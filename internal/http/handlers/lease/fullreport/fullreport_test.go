package fullreport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/qiyoga/qiyoga-backend/internal/models"
	"github.com/qiyoga/qiyoga-backend/internal/services/lease"
)

// MockService реализует интерфейс fullreport.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) FullReport(ctx context.Context, analysisID, userID, email string) (*models.LeaseAnalysis, error) {
	args := m.Called(ctx, analysisID, userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LeaseAnalysis), args.Error(1)
}

func TestFullReportHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		target         string
		setupMock      func(*MockService)
		expectedStatus int
		errorContains  string
	}{
		{
			name:   "владелец получает отчёт",
			target: "/api/lease/full-report?analysis_id=a-1&user_id=u-1",
			setupMock: func(m *MockService) {
				m.On("FullReport", mock.Anything, "a-1", "u-1", "").
					Return(&models.LeaseAnalysis{AnalysisID: "a-1", UserID: "u-1"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "нет analysis_id",
			target:         "/api/lease/full-report?user_id=u-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			errorContains:  "analysis_id is required",
		},
		{
			name:   "отчёт не найден",
			target: "/api/lease/full-report?analysis_id=gone&user_id=u-1",
			setupMock: func(m *MockService) {
				m.On("FullReport", mock.Anything, "gone", "u-1", "").
					Return(nil, lease.ErrAnalysisNotFound)
			},
			expectedStatus: http.StatusNotFound,
			errorContains:  "not found or expired",
		},
		{
			name:   "чужой отчёт",
			target: "/api/lease/full-report?analysis_id=a-1&user_id=u-2&email=free@b.com",
			setupMock: func(m *MockService) {
				m.On("FullReport", mock.Anything, "a-1", "u-2", "free@b.com").
					Return(nil, lease.ErrNotOwner)
			},
			expectedStatus: http.StatusForbidden,
			errorContains:  "requires ownership",
		},
		{
			name:   "ошибка хранилища",
			target: "/api/lease/full-report?analysis_id=a-1&user_id=u-1",
			setupMock: func(m *MockService) {
				m.On("FullReport", mock.Anything, "a-1", "u-1", "").
					Return(nil, errors.New("redis down"))
			},
			expectedStatus: http.StatusInternalServerError,
			errorContains:  "could not load full report",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.errorContains != "" {
				assert.Contains(t, rr.Body.String(), tt.errorContains)
			}
			mockService.AssertExpectations(t)
		})
	}
}
