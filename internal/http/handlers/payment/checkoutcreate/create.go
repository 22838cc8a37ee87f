// Package checkoutcreate реализует HTTP-обработчик создания сессии оплаты.
//
// Handler принимает JSON-запрос с почтой покупателя, валидирует его и
// запрашивает у платёжного провайдера транзакцию со ссылкой на оплату.
package checkoutcreate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/qiyoga/qiyoga-backend/internal/http/response"
	"github.com/qiyoga/qiyoga-backend/internal/lib/sl"
	"github.com/qiyoga/qiyoga-backend/internal/models"
	"github.com/qiyoga/qiyoga-backend/internal/paddle"
	"github.com/qiyoga/qiyoga-backend/internal/services/checkout"
)

// Handler управляет HTTP-запросами на создание сессии оплаты.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики создания сессий
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания сессии оплаты.
type Service interface {
	CreateCheckout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error)
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
// @Summary Создать сессию оплаты
// @Description Создает транзакцию у платёжного провайдера и возвращает ссылку на оплату.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.CheckoutRequest true "Почта покупателя и идентификатор сессии"
// @Success 200 {object} response.OKResponse "Сессия создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Провайдер не настроен"
// @Failure 502 {object} response.ErrorResponse "Ошибка платёжного провайдера"
// @Router /api/checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.checkoutcreate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CheckoutRequest
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

	session, err := h.service.CreateCheckout(r.Context(), req)
	if err != nil {
		var apiErr *paddle.APIError
		switch {
		case errors.Is(err, checkout.ErrNotConfigured):
			log.Error("payment provider is not configured")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("payment provider is not configured"))
		case errors.As(err, &apiErr):
			log.Error("payment provider rejected request", sl.Err(err))
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, response.Error("payment provider error"))
		default:
			log.Error("failed to create checkout session", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create checkout session"))
		}
		return
	}

	log.Info("checkout session created", slog.String("transaction_id", session.TransactionID))
	render.JSON(w, r, response.OKWithData(session))
}
