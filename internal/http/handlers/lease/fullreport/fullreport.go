// Package fullreport реализует HTTP-обработчик выдачи полного отчёта по
// договору. Полный отчёт доступен владельцу анализа либо пользователю с
// действующим оплаченным доступом.
package fullreport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/qiyoga/qiyoga-backend/internal/http/response"
	"github.com/qiyoga/qiyoga-backend/internal/lib/sl"
	"github.com/qiyoga/qiyoga-backend/internal/models"
	"github.com/qiyoga/qiyoga-backend/internal/services/lease"
)

// Handler управляет HTTP-запросами полного отчёта.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service
}

// Service описывает интерфейс выдачи полного отчёта.
type Service interface {
	FullReport(ctx context.Context, analysisID, userID, email string) (*models.LeaseAnalysis, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Полный отчёт по договору
// @Description Возвращает все пункты сохранённого анализа. Доступен владельцу или пользователю с оплаченным доступом.
// @Tags Lease
// @Produce  json
// @Param analysis_id query string true "Идентификатор анализа"
// @Param user_id query string false "Идентификатор сессии фронтенда"
// @Param email query string false "Почта для проверки оплаченного доступа"
// @Success 200 {object} response.OKResponse "Полный отчёт"
// @Failure 400 {object} response.ErrorResponse "Нет analysis_id"
// @Failure 403 {object} response.ErrorResponse "Отчёт принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Отчёт не найден или истёк"
// @Failure 500 {object} response.ErrorResponse "Ошибка чтения"
// @Router /api/lease/full-report [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lease.fullreport"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	analysisID := r.URL.Query().Get("analysis_id")
	if analysisID == "" {
		log.Error("analysis_id query parameter is empty")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("analysis_id is required"))
		return
	}
	userID := r.URL.Query().Get("user_id")
	email := r.URL.Query().Get("email")

	report, err := h.service.FullReport(r.Context(), analysisID, userID, email)
	if err != nil {
		switch {
		case errors.Is(err, lease.ErrAnalysisNotFound):
			log.Error("analysis not found", slog.String("analysis_id", analysisID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("analysis not found or expired"))
		case errors.Is(err, lease.ErrNotOwner):
			log.Error("full report access denied", slog.String("analysis_id", analysisID))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("full report requires ownership or active access"))
		default:
			log.Error("failed to load full report", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not load full report"))
		}
		return
	}

	log.Info("full report served", slog.String("analysis_id", analysisID))
	render.JSON(w, r, response.OKWithData(report))
}
