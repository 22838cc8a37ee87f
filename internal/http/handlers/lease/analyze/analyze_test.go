package analyze

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/qiyoga/qiyoga-backend/internal/models"
	"github.com/qiyoga/qiyoga-backend/internal/services/lease"
)

// MockService реализует интерфейс analyze.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Analyze(ctx context.Context, userID, email string, data []byte) (*lease.AnalyzeResult, error) {
	args := m.Called(ctx, userID, email, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lease.AnalyzeResult), args.Error(1)
}

func multipartBody(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

func TestAnalyzeHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	okResult := &lease.AnalyzeResult{
		AnalysisID:   "a-1",
		KeyInfo:      models.LeaseTerms{Rent: "2500"},
		Clauses:      []models.ClauseAnalysis{{ClauseNumber: 1, RiskLevel: models.RiskSafe}},
		TotalClauses: 8,
		ShownClauses: 1,
		IsPreview:    true,
		PageCount:    2,
	}

	tests := []struct {
		name           string
		filename       string
		content        []byte
		fields         map[string]string
		setupMock      func(*MockService)
		expectedStatus int
		errorContains  string
	}{
		{
			name:     "успешный анализ",
			filename: "lease.pdf",
			content:  []byte("%PDF-1.4 fake"),
			fields:   map[string]string{"user_id": "u-1", "email": "a@b.com"},
			setupMock: func(m *MockService) {
				m.On("Analyze", mock.Anything, "u-1", "a@b.com", []byte("%PDF-1.4 fake")).
					Return(okResult, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:     "пустой user_id генерируется сервером",
			filename: "lease.pdf",
			content:  []byte("%PDF-1.4 fake"),
			fields:   map[string]string{},
			setupMock: func(m *MockService) {
				m.On("Analyze", mock.Anything, mock.MatchedBy(func(userID string) bool {
					return userID != ""
				}), "", []byte("%PDF-1.4 fake")).
					Return(okResult, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "нет файла",
			filename:       "",
			fields:         map[string]string{"user_id": "u-1"},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			errorContains:  "file is required",
		},
		{
			name:           "не PDF",
			filename:       "lease.docx",
			content:        []byte("word doc"),
			fields:         map[string]string{},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			errorContains:  "only PDF files are supported",
		},
		{
			name:     "файл не разбирается как PDF",
			filename: "lease.pdf",
			content:  []byte("garbage"),
			fields:   map[string]string{},
			setupMock: func(m *MockService) {
				m.On("Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(nil, lease.ErrInvalidDocument)
			},
			expectedStatus: http.StatusBadRequest,
			errorContains:  "could not parse PDF document",
		},
		{
			name:     "пустой документ",
			filename: "lease.pdf",
			content:  []byte("%PDF-1.4 empty"),
			fields:   map[string]string{},
			setupMock: func(m *MockService) {
				m.On("Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(nil, lease.ErrEmptyDocument)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			errorContains:  "could not extract text",
		},
		{
			name:     "ошибка сервиса",
			filename: "lease.pdf",
			content:  []byte("%PDF-1.4 fake"),
			fields:   map[string]string{},
			setupMock: func(m *MockService) {
				m.On("Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(nil, errors.New("redis down"))
			},
			expectedStatus: http.StatusInternalServerError,
			errorContains:  "could not analyze document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService, 5*1024*1024)

			body, contentType := multipartBody(t, tt.filename, tt.content, tt.fields)
			req := httptest.NewRequest(http.MethodPost, "/api/lease/analyze", body)
			req.Header.Set("Content-Type", contentType)
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

func TestAnalyzeHandler_FileTooLarge(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockService := new(MockService)

	handler := New(logger, mockService, 64)

	body, contentType := multipartBody(t, "lease.pdf", bytes.Repeat([]byte("a"), 1024), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/lease/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	mockService.AssertNotCalled(t, "Analyze")
}

func TestAnalyzeHandler_WrongContentType(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockService := new(MockService)

	handler := New(logger, mockService, 5*1024*1024)

	// Расширение правильное, но часть формы объявлена как text/plain
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", `form-data; name="file"; filename="lease.pdf"`)
	partHeader.Set("Content-Type", "text/plain")
	part, err := writer.CreatePart(partHeader)
	require.NoError(t, err)
	_, err = part.Write([]byte("plain text, not a pdf"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/lease/analyze", buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "only PDF files are supported")
	mockService.AssertNotCalled(t, "Analyze")
}
