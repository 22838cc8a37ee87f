// Package explain реализует HTTP-обработчик пояснения пункта договора через
// языковую модель. Без настроенного ключа модели эндпоинт отвечает 503.
package explain

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/qiyoga/qiyoga-backend/internal/http/response"
	"github.com/qiyoga/qiyoga-backend/internal/lib/sl"
)

// Request тело запроса на пояснение пункта.
type Request struct {
	ClauseText string `json:"clause_text" validate:"required"` // Текст пункта договора
}

// Handler управляет HTTP-запросами пояснения пунктов.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Клиент языковой модели
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс клиента языковой модели.
type Service interface {
	Enabled() bool
	ExplainClause(ctx context.Context, clauseText string) (string, error)
}

// New создает новый Handler с переданными логгером и клиентом модели.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Пояснение пункта договора
// @Description Возвращает развёрнутое пояснение пункта на английском и китайском через языковую модель.
// @Tags Lease
// @Accept  json
// @Produce  json
// @Param request body Request true "Текст пункта"
// @Success 200 {object} response.OKResponse "Пояснение"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Ошибка языковой модели"
// @Failure 503 {object} response.ErrorResponse "Языковая модель не настроена"
// @Router /api/lease/clause/explain [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lease.explain"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if !h.service.Enabled() {
		log.Error("llm client is not configured")
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("clause explanation is not available"))
		return
	}

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

	explanation, err := h.service.ExplainClause(r.Context(), req.ClauseText)
	if err != nil {
		log.Error("failed to explain clause", sl.Err(err))
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not explain clause"))
		return
	}

	log.Info("clause explained")
	render.JSON(w, r, response.OKWithData(map[string]string{
		"explanation": explanation,
	}))
}
