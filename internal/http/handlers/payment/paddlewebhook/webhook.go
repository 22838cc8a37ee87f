// Package paddlewebhook реализует HTTP-обработчик входящих событий платёжного
// провайдера.
//
// Handler читает сырое тело запроса, проверяет подпись из заголовка
// Paddle-Signature и передаёт событие процессору. Формат ответов фиксирован
// контрактом провайдера: 200 с {"received":true} для любого классифицированного
// события, 401 при ошибке подписи, 500 при внутренней ошибке — тогда провайдер
// повторит доставку.
package paddlewebhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/qiyoga/qiyoga-backend/internal/lib/sl"
	"github.com/qiyoga/qiyoga-backend/internal/models"
)

// SignatureHeader имя заголовка с подписью события.
const SignatureHeader = "Paddle-Signature"

// Service описывает интерфейс процессора webhook-событий.
type Service interface {
	ProcessEvent(ctx context.Context, event *models.WebhookEvent) error
}

// Verifier проверяет подпись сырого тела запроса.
type Verifier interface {
	Enabled() bool
	Verify(header string, body []byte) bool
}

// Handler управляет HTTP-запросами провайдера.
type Handler struct {
	log      *slog.Logger // Логгер для записи информации и ошибок
	service  Service
	verifier Verifier
}

// New создает новый Handler с переданными логгером, сервисом и верификатором.
func New(log *slog.Logger, service Service, verifier Verifier) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		verifier: verifier,
	}
}

// ServeHTTP godoc
// @Summary Приём события платёжного провайдера
// @Description Проверяет подпись и обрабатывает событие оплаты. Ответы фиксированы контрактом провайдера.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Success 200 {object} map[string]bool "Событие принято"
// @Failure 400 {object} map[string]string "Невалидное тело запроса"
// @Failure 401 {object} map[string]string "Ошибка проверки подписи"
// @Failure 500 {object} map[string]string "Внутренняя ошибка обработки"
// @Router /webhook/paddle [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.paddlewebhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "Invalid payload"})
		return
	}
	defer r.Body.Close()

	if !h.verifier.Enabled() {
		log.Warn("webhook secret is not configured, accepting unverified delivery")
	}

	signature := r.Header.Get(SignatureHeader)
	if !h.verifier.Verify(signature, body) {
		log.Error("webhook signature verification failed")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, map[string]string{"error": "Invalid signature"})
		return
	}
	log.Info("webhook signature verified")

	var event models.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "Invalid payload"})
		return
	}

	if err := h.service.ProcessEvent(r.Context(), &event); err != nil {
		log.Error("failed to process webhook event", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": "Webhook processing failed"})
		return
	}

	log.Info("webhook processed successfully", slog.String("event", event.EventType))
	render.JSON(w, r, map[string]bool{"received": true})
}
