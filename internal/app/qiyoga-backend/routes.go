// Package qiyogabackend предоставляет маршруты для основного приложения.
package qiyogabackend

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/qiyoga/qiyoga-backend/internal/http/handlers/access/check"
	"github.com/qiyoga/qiyoga-backend/internal/http/handlers/health"
	"github.com/qiyoga/qiyoga-backend/internal/http/handlers/lease/analyze"
	"github.com/qiyoga/qiyoga-backend/internal/http/handlers/lease/explain"
	"github.com/qiyoga/qiyoga-backend/internal/http/handlers/lease/fullreport"
	"github.com/qiyoga/qiyoga-backend/internal/http/handlers/lease/quickanalyze"
	"github.com/qiyoga/qiyoga-backend/internal/http/handlers/payment/checkoutcreate"
	"github.com/qiyoga/qiyoga-backend/internal/http/handlers/payment/paddlewebhook"
	"github.com/qiyoga/qiyoga-backend/internal/http/handlers/payment/transactionlist"
	"github.com/qiyoga/qiyoga-backend/internal/http/middlewarectx"
)

// RouteDeps зависимости маршрутов основного приложения.
type RouteDeps struct {
	Webhook      paddlewebhook.Service
	Verifier     paddlewebhook.Verifier
	Checkout     checkoutcreate.Service
	Transactions transactionlist.Service
	Entitlements check.Service
	Lease        interface {
		analyze.Service
		fullreport.Service
		quickanalyze.Service
	}
	LLM        explain.Service
	TokenMaker middlewarectx.TokenParser
	MaxUpload  int64
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps *RouteDeps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	healthHandler := health.New(logger)
	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.ServeHTTP)

	// Webhook endpoint (без аутентификации, подпись проверяется внутри)
	r.Post("/webhook/paddle", paddlewebhook.New(logger, deps.Webhook, deps.Verifier).ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки с общим лимитером
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, rate.NewLimiter(10, 30)))
			r.Post("/checkout", checkoutcreate.New(logger, deps.Checkout).ServeHTTP)
			r.Post("/lease/analyze", analyze.New(logger, deps.Lease, deps.MaxUpload).ServeHTTP)
			r.Get("/lease/full-report", fullreport.New(logger, deps.Lease).ServeHTTP)
			r.Post("/lease/clause/quick-analyze", quickanalyze.New(logger, deps.Lease).ServeHTTP)
			r.Post("/lease/clause/explain", explain.New(logger, deps.LLM).ServeHTTP)
		})

		// Служебные конечные точки: раскрывают почту покупателей
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AdminJWTMiddleware(deps.TokenMaker, logger))
			r.Get("/transactions/{email}", transactionlist.New(logger, deps.Transactions).ServeHTTP)
			r.Get("/access/{email}", check.New(logger, deps.Entitlements).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
