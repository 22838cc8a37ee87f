package transactionlist

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/qiyoga/qiyoga-backend/internal/models"
)

// MockService реализует интерфейс transactionlist.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ListTransactionsByEmail(ctx context.Context, email string) ([]*models.Transaction, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func TestTransactionListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		email          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "список транзакций",
			email: "a@b.com",
			setupMock: func(m *MockService) {
				m.On("ListTransactionsByEmail", mock.Anything, "a@b.com").
					Return([]*models.Transaction{{
						TransactionID: "txn_1",
						CustomerEmail: "a@b.com",
						Amount:        2999,
						Currency:      "USD",
						Status:        "completed",
						CreatedAt:     createdAt,
					}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"count":1,"transactions":[{"transaction_id":"txn_1","customer_email":"a@b.com","amount":2999,"currency":"USD","status":"completed","created_at":"2025-06-01T12:00:00Z"}]}}`,
		},
		{
			name:  "пустой список",
			email: "nobody@b.com",
			setupMock: func(m *MockService) {
				m.On("ListTransactionsByEmail", mock.Anything, "nobody@b.com").
					Return([]*models.Transaction{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"count":0,"transactions":[]}}`,
		},
		{
			name:  "ошибка хранилища",
			email: "a@b.com",
			setupMock: func(m *MockService) {
				m.On("ListTransactionsByEmail", mock.Anything, "a@b.com").
					Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not list transactions"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			router := chi.NewRouter()
			router.Get("/api/transactions/{email}", handler.ServeHTTP)

			req := httptest.NewRequest(http.MethodGet, "/api/transactions/"+tt.email, nil)
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
