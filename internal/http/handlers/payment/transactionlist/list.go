// Package transactionlist реализует HTTP-обработчик списка транзакций
// покупателя. Эндпоинт закрыт служебным токеном: он раскрывает почту и
// историю платежей.
package transactionlist

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

// Handler управляет HTTP-запросами списка транзакций.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service
}

// Service описывает интерфейс чтения транзакций.
type Service interface {
	ListTransactionsByEmail(ctx context.Context, email string) ([]*models.Transaction, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список транзакций покупателя
// @Description Возвращает транзакции по почте покупателя, новые первыми. Требует служебный токен.
// @Tags Payments
// @Produce  json
// @Param email path string true "Почта покупателя"
// @Success 200 {object} response.OKResponse "Список транзакций"
// @Failure 400 {object} response.ErrorResponse "Пустая почта"
// @Failure 401 {object} response.ErrorResponse "Нет служебного токена"
// @Failure 500 {object} response.ErrorResponse "Ошибка чтения"
// @Router /api/transactions/{email} [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.transactionlist"
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

	transactions, err := h.service.ListTransactionsByEmail(r.Context(), email)
	if err != nil {
		log.Error("failed to list transactions", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list transactions"))
		return
	}

	log.Info("transactions listed", slog.Int("count", len(transactions)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"transactions": transactions,
		"count":        len(transactions),
	}))
}
