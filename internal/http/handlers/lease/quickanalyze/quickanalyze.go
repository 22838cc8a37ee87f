// Package quickanalyze реализует HTTP-обработчик быстрой оценки одного
// пункта договора. Без авторизации и без сохранения результата.
package quickanalyze

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/qiyoga/qiyoga-backend/internal/http/response"
	"github.com/qiyoga/qiyoga-backend/internal/lib/sl"
	"github.com/qiyoga/qiyoga-backend/internal/models"
)

// Request тело запроса быстрой оценки.
type Request struct {
	ClauseText string `json:"clause_text" validate:"required,max=300"` // Текст пункта, не длиннее 300 символов
}

// Handler управляет HTTP-запросами быстрой оценки.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис оценки пунктов
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс оценки одного пункта.
type Service interface {
	QuickAnalyze(clauseText string) models.ClauseAnalysis
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Быстрая оценка пункта договора
// @Description Возвращает уровень риска и рекомендацию для одного пункта. Без авторизации.
// @Tags Lease
// @Accept  json
// @Produce  json
// @Param request body Request true "Текст пункта"
// @Success 200 {object} response.OKResponse "Результат оценки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /api/lease/clause/quick-analyze [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lease.quickanalyze"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	result := h.service.QuickAnalyze(req.ClauseText)

	log.Info("clause analyzed", slog.String("risk_level", result.RiskLevel))
	render.JSON(w, r, response.OKWithData(result))
}
