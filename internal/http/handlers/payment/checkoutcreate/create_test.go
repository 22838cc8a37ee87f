package checkoutcreate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/qiyoga/qiyoga-backend/internal/models"
	"github.com/qiyoga/qiyoga-backend/internal/paddle"
	"github.com/qiyoga/qiyoga-backend/internal/services/checkout"
)

// MockService реализует интерфейс checkoutcreate.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) CreateCheckout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CheckoutSession), args.Error(1)
}

func TestCheckoutCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешное создание сессии",
			requestBody: models.CheckoutRequest{Email: "a@b.com", UserID: "u-1"},
			setupMock: func(m *MockService) {
				m.On("CreateCheckout", mock.Anything, models.CheckoutRequest{Email: "a@b.com", UserID: "u-1"}).
					Return(&models.CheckoutSession{
						CheckoutURL:   "https://buy.paddle.com/c/txn_1",
						TransactionID: "txn_1",
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"checkout_url":"https://buy.paddle.com/c/txn_1","transaction_id":"txn_1"}}`,
		},
		{
			name:           "отсутствует почта",
			requestBody:    models.CheckoutRequest{UserID: "u-1"},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field Email is a required field"}`,
		},
		{
			name:           "невалидная почта",
			requestBody:    models.CheckoutRequest{Email: "not-an-email"},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field Email must be a valid email"}`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:        "провайдер не настроен",
			requestBody: models.CheckoutRequest{Email: "a@b.com"},
			setupMock: func(m *MockService) {
				m.On("CreateCheckout", mock.Anything, mock.Anything).
					Return(nil, checkout.ErrNotConfigured)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"payment provider is not configured"}`,
		},
		{
			name:        "провайдер отклонил запрос",
			requestBody: models.CheckoutRequest{Email: "a@b.com"},
			setupMock: func(m *MockService) {
				m.On("CreateCheckout", mock.Anything, mock.Anything).
					Return(nil, &paddle.APIError{Status: 403, Detail: "forbidden"})
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"status":"Error","error":"payment provider error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var body []byte
			var err error
			if s, ok := tt.requestBody.(string); ok {
				body = []byte(s)
			} else {
				body, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/checkout", bytes.NewReader(body))
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
