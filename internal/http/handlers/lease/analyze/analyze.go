// Package analyze реализует HTTP-обработчик загрузки договора аренды.
//
// Handler принимает multipart-форму с PDF-файлом, проверяет тип и размер,
// и передаёт содержимое сервису анализа. Пользователи без оплаченного
// доступа получают превью с первыми пунктами.
package analyze

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/qiyoga/qiyoga-backend/internal/http/response"
	"github.com/qiyoga/qiyoga-backend/internal/lib/sl"
	"github.com/qiyoga/qiyoga-backend/internal/services/lease"
)

// Handler управляет HTTP-запросами анализа договора.
type Handler struct {
	log            *slog.Logger // Логгер для записи информации и ошибок
	service        Service
	maxUploadBytes int64
}

// Service описывает интерфейс анализа договора.
type Service interface {
	Analyze(ctx context.Context, userID, email string, data []byte) (*lease.AnalyzeResult, error)
}

// New создает новый Handler с переданными логгером, сервисом и лимитом размера файла.
func New(log *slog.Logger, service Service, maxUploadBytes int64) *Handler {
	return &Handler{
		log:            log,
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

// ServeHTTP godoc
// @Summary Анализ договора аренды
// @Description Принимает PDF-файл договора, возвращает ключевые условия и оценку риска пунктов. Без оплаченного доступа отдаётся превью.
// @Tags Lease
// @Accept  multipart/form-data
// @Produce  json
// @Param file formData file true "PDF-файл договора"
// @Param user_id formData string false "Идентификатор сессии фронтенда"
// @Param email formData string false "Почта для проверки оплаченного доступа"
// @Success 200 {object} response.OKResponse "Результат анализа"
// @Failure 400 {object} response.ErrorResponse "Нет файла или файл не PDF"
// @Failure 413 {object} response.ErrorResponse "Файл слишком большой"
// @Failure 422 {object} response.ErrorResponse "Не удалось извлечь текст"
// @Failure 500 {object} response.ErrorResponse "Ошибка анализа"
// @Router /api/lease/analyze [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lease.analyze"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			log.Error("uploaded file is too large", sl.Err(err))
			render.Status(r, http.StatusRequestEntityTooLarge)
			render.JSON(w, r, response.Error("file is too large"))
			return
		}
		log.Error("failed to parse multipart form", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Error("file field is missing", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("file is required"))
		return
	}
	defer file.Close()

	if !isPDFUpload(header) {
		log.Error("uploaded file is not a PDF",
			slog.String("filename", header.Filename),
			slog.String("content_type", header.Header.Get("Content-Type")))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("only PDF files are supported"))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error("failed to read uploaded file", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read uploaded file"))
		return
	}

	userID := r.FormValue("user_id")
	if userID == "" {
		userID = uuid.NewString()
	}
	email := r.FormValue("email")

	result, err := h.service.Analyze(r.Context(), userID, email, data)
	if err != nil {
		if errors.Is(err, lease.ErrInvalidDocument) {
			log.Error("uploaded file is not a valid PDF")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("could not parse PDF document"))
			return
		}
		if errors.Is(err, lease.ErrEmptyDocument) {
			log.Error("document contains no extractable text")
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("could not extract text from document"))
			return
		}
		log.Error("failed to analyze document", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not analyze document"))
		return
	}

	log.Info("document analyzed",
		slog.String("analysis_id", result.AnalysisID),
		slog.Bool("preview", result.IsPreview))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"analysis": result,
		"user_id":  userID,
	}))
}

// isPDFUpload проверяет загрузку по расширению имени файла и по
// Content-Type части формы, если клиент его прислал.
func isPDFUpload(header *multipart.FileHeader) bool {
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		return false
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/pdf" || mediaType == "application/octet-stream"
}
