// Package health реализует служебные эндпоинты работоспособности.
package health

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// Handler отвечает на запросы работоспособности и описания сервиса.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
	}
}

// ServeHTTP godoc
// @Summary Проверка работоспособности
// @Tags Service
// @Produce  json
// @Success 200 {object} map[string]any
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, map[string]any{
		"status":    "ok",
		"message":   "QiYoga Backend is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Root описывает сервис и его основные эндпоинты.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, map[string]any{
		"service": "QiYoga Backend",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":   "/health",
			"webhook":  "/webhook/paddle",
			"checkout": "/api/checkout",
			"lease":    "/api/lease/analyze",
		},
	})
}
