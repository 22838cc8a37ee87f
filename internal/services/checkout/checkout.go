// Package checkout реализует создание сессий оплаты у платёжного
// провайдера: чистый проброс запроса с подстановкой настроенного тарифа.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/qiyoga/qiyoga-backend/internal/models"
	"github.com/qiyoga/qiyoga-backend/internal/paddle"
)

// ErrNotConfigured возвращается, когда тариф провайдера не настроен.
var ErrNotConfigured = errors.New("paddle price id is not configured")

// ProductName метка продукта в custom_data транзакции.
const ProductName = "TenantLease"

// PaddleClient определяет вызов провайдера для создания транзакции.
type PaddleClient interface {
	CreateTransaction(ctx context.Context, req paddle.CreateTransactionRequest) (*paddle.CreateTransactionResponse, error)
}

// Service создаёт сессии оплаты.
type Service struct {
	client      PaddleClient
	priceID     string
	frontendURL string
	log         *slog.Logger
}

// New создаёт новый Service. После оплаты провайдер возвращает покупателя
// на frontendURL.
func New(client PaddleClient, priceID, frontendURL string, log *slog.Logger) *Service {
	return &Service{
		client:      client,
		priceID:     priceID,
		frontendURL: frontendURL,
		log:         log,
	}
}

// CreateCheckout создаёт сессию оплаты для покупателя. user_id из сессии
// фронтенда прокидывается в custom_data и вернётся в webhook-событии.
func (s *Service) CreateCheckout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error) {
	const op = "checkout.CreateCheckout"

	if s.priceID == "" {
		return nil, ErrNotConfigured
	}

	userID := req.UserID
	if userID == "" {
		userID = "guest"
	}

	resp, err := s.client.CreateTransaction(ctx, paddle.CreateTransactionRequest{
		Items:    []paddle.Item{{PriceID: s.priceID, Quantity: 1}},
		Customer: paddle.Customer{Email: req.Email},
		CustomData: map[string]string{
			"user_id":    userID,
			"user_email": req.Email,
			"product":    ProductName,
		},
		SuccessURL: s.frontendURL + "/payment/success",
		CancelURL:  s.frontendURL + "/payment/cancel",
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("checkout session created",
		slog.String("transaction_id", resp.Data.ID),
		slog.String("email", req.Email))

	return &models.CheckoutSession{
		CheckoutURL:   resp.Data.CheckoutURL,
		TransactionID: resp.Data.ID,
	}, nil
}
