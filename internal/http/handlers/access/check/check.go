// Package check реализует HTTP-обработчик чтения состояния доступа.
// Эндпоинт закрыт служебным токеном: он раскрывает почту покупателя.
package check

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/qiyoga/qiyoga-backend/internal/http/response"
	"github.com/qiyoga/qiyoga-backend/internal/lib/sl"
	"github.com/qiyoga/qiyoga-backend/internal/models"
)

// Handler управляет HTTP-запросами состояния доступа.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service
}

// Service описывает интерфейс чтения состояния доступа.
type Service interface {
	AccessInfo(ctx context.Context, email string) (*models.AccessInfo, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Состояние доступа покупателя
// @Description Возвращает флаг доступа, дату окончания и число оставшихся дней. Требует служебный токен.
// @Tags Access
// @Produce  json
// @Param email path string true "Почта покупателя"
// @Success 200 {object} response.OKResponse "Состояние доступа"
// @Failure 400 {object} response.ErrorResponse "Пустая почта"
// @Failure 401 {object} response.ErrorResponse "Нет служебного токена"
// @Failure 500 {object} response.ErrorResponse "Ошибка чтения"
// @Router /api/access/{email} [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.access.check"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email := chi.URLParam(r, "email")
	if email == "" {
		log.Error("email path parameter is empty")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("email is required"))
		return
	}

	info, err := h.service.AccessInfo(r.Context(), email)
	if err != nil {
		log.Error("failed to get access info", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get access info"))
		return
	}

	log.Info("access info read", slog.Bool("has_access", info.HasAccess))
	render.JSON(w, r, response.OKWithData(info))
}
