// Package qiyogabackend собирает основное приложение: хранилище, кэш,
// очередь уведомлений, клиентов внешних сервисов и HTTP-сервер.
package qiyogabackend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/qiyoga/qiyoga-backend/internal/cache"
	"github.com/qiyoga/qiyoga-backend/internal/config"
	"github.com/qiyoga/qiyoga-backend/internal/lib/jwt"
	"github.com/qiyoga/qiyoga-backend/internal/lib/paddlesig"
	"github.com/qiyoga/qiyoga-backend/internal/lib/sl"
	"github.com/qiyoga/qiyoga-backend/internal/llm"
	"github.com/qiyoga/qiyoga-backend/internal/migrations"
	"github.com/qiyoga/qiyoga-backend/internal/paddle"
	"github.com/qiyoga/qiyoga-backend/internal/rabbitmq"
	"github.com/qiyoga/qiyoga-backend/internal/services/checkout"
	"github.com/qiyoga/qiyoga-backend/internal/services/entitlement"
	"github.com/qiyoga/qiyoga-backend/internal/services/lease"
	"github.com/qiyoga/qiyoga-backend/internal/services/webhook"
	"github.com/qiyoga/qiyoga-backend/internal/storage/repository"
)

// App основное приложение.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	cache      *cache.Cache
	rabbitConn *amqp.Connection
}

// New создаёт приложение: подключает зависимости, прогоняет миграции и
// регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	scheme, err := paddlesig.ParseScheme(cfg.Paddle.SignatureScheme)
	if err != nil {
		return nil, fmt.Errorf("invalid paddle signature scheme: %w", err)
	}
	verifier := paddlesig.New(cfg.Paddle.WebhookSecret, scheme)
	logger.Info("paddle configuration loaded",
		slog.String("signature_scheme", string(scheme)),
		sl.Secret("webhook_secret", cfg.Paddle.WebhookSecret),
		sl.Secret("api_key", cfg.Paddle.APIKey))
	if !verifier.Enabled() {
		logger.Warn("PADDLE_WEBHOOK_SECRET is not configured, webhook signatures will not be verified")
	}

	// Очередь уведомлений опциональна: без брокера письма не уходят,
	// но приём платежей продолжает работать.
	var rabbitConn *amqp.Connection
	var publisher webhook.Publisher
	if cfg.RabbitConnection.AddressRabbit != "" {
		rabbitConn, err = rabbitmq.Connect(cfg.RabbitConnection.AddressRabbit,
			cfg.RabbitConnection.RetriesRabbit, cfg.RabbitConnection.DelayRabbit)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetNotificationQueues())
		if err != nil {
			return nil, err
		}
		publisher = webhook.NewAMQPPublisher(ch)
	} else {
		logger.Warn("rabbitmq address is not configured, access notifications are disabled")
	}

	entitlementService := entitlement.New(db, logger)
	webhookService := webhook.New(db, entitlementService, publisher, logger)

	paddleClient := paddle.NewClient(cfg.Paddle.APIKey, cfg.Paddle.APIURL)
	checkoutService := checkout.New(paddleClient, cfg.Paddle.PriceID, cfg.FrontendURL, logger)

	leaseService := lease.New(cacheRedis, entitlementService, logger,
		cfg.Lease.AnalysisTTL, cfg.Lease.FreeClauses)
	llmClient := llm.NewClient(cfg.LLM.LLMAPIKey, cfg.LLM.LLMAPIURL, cfg.LLM.LLMModel, cfg.LLM.LLMTimeout)

	tokenMaker := jwt.NewMaker(cfg.AdminToken.AdminSecretKey, cfg.AdminToken.TokenTTL)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &RouteDeps{
		Webhook:      webhookService,
		Verifier:     verifier,
		Checkout:     checkoutService,
		Transactions: db,
		Entitlements: entitlementService,
		Lease:        leaseService,
		LLM:          llmClient,
		TokenMaker:   tokenMaker,
		MaxUpload:    cfg.Lease.MaxUploadBytes,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.TimeoutHTTP,
		WriteTimeout: cfg.HTTPServer.TimeoutHTTP,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		cache:      cacheRedis,
		rabbitConn: rabbitConn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.Close(); closeErr != nil {
			a.logger.Error("failed to close storage", sl.Err(closeErr))
		}
		if a.rabbitConn != nil {
			if closeErr := a.rabbitConn.Close(); closeErr != nil {
				a.logger.Error("failed to close rabbitmq connection", sl.Err(closeErr))
			}
		}
		return err
	}
}
