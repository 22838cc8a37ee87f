// Package webhook реализует обработку проверенных webhook-событий
// платёжного провайдера: сохранение транзакции и выдачу доступа покупателю.
//
// Подпись события проверяет HTTP-обработчик до вызова сервиса; сюда
// попадают только доверенные события.
package webhook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qiyoga/qiyoga-backend/internal/lib/sl"
	"github.com/qiyoga/qiyoga-backend/internal/models"
)

// Обрабатываемые типы событий; остальные подтверждаются без обработки,
// чтобы провайдер не повторял доставку.
const (
	EventTransactionCompleted = "transaction.completed"
	EventPaymentSucceeded     = "payment.succeeded"
)

// TransactionRepository определяет сохранение транзакций.
type TransactionRepository interface {
	// UpsertTransaction сохраняет транзакцию идемпотентно по transaction_id.
	UpsertTransaction(ctx context.Context, tx models.Transaction) (int, error)
}

// Entitlements определяет операции доступа, которые ведёт процессор.
type Entitlements interface {
	HasAccess(ctx context.Context, email string) (bool, error)
	GrantAccess(ctx context.Context, email, userID string) (*models.AccessGrantedEvent, error)
}

// Publisher отправляет уведомление о выданном доступе.
type Publisher interface {
	PublishAccessGranted(event models.AccessGrantedEvent) error
}

// Service процессор webhook-событий.
type Service struct {
	repo         TransactionRepository
	entitlements Entitlements
	publisher    Publisher
	log          *slog.Logger
}

// New создаёт новый Service. publisher может быть nil: уведомления тогда
// не отправляются.
func New(repo TransactionRepository, entitlements Entitlements, publisher Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		entitlements: entitlements,
		publisher:    publisher,
		log:          log,
	}
}

// ProcessEvent обрабатывает одно проверенное событие.
//
// Нерелевантные события подтверждаются без сохранения. Для релевантных
// транзакция сохраняется всегда, когда есть её идентификатор; доступ
// выдаётся только при наличии email покупателя и отсутствии действующего
// доступа. Ошибка означает, что событие не обработано надёжно и провайдер
// может повторить доставку: сохранение идемпотентно по transaction_id.
func (s *Service) ProcessEvent(ctx context.Context, event *models.WebhookEvent) error {
	const op = "webhook.ProcessEvent"
	log := s.log.With(
		slog.String("op", op),
		slog.String("event_id", event.EventID),
		slog.String("event_type", event.EventType),
	)

	switch event.EventType {
	case EventTransactionCompleted, EventPaymentSucceeded:
	default:
		log.Info("ignored webhook event")
		return nil
	}

	if event.Data.ID == "" {
		log.Warn("relevant event without transaction id, nothing to persist")
		return nil
	}

	amount, err := normalizeAmount(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	status := event.Data.Status
	if status == "" {
		status = "succeeded"
	}

	tx := models.Transaction{
		TransactionID: event.Data.ID,
		CustomerID:    event.Data.CustomerID,
		CustomerEmail: event.Data.Customer.Email,
		Amount:        amount,
		Currency:      event.Data.Currency,
		CustomData:    event.Data.CustomData,
		Status:        status,
	}
	if _, err := s.repo.UpsertTransaction(ctx, tx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("transaction persisted",
		slog.String("transaction_id", tx.TransactionID),
		slog.Int64("amount", amount),
		slog.String("currency", tx.Currency))

	email := event.Data.Customer.Email
	if email == "" {
		log.Warn("relevant event without customer email, entitlement skipped")
		return nil
	}

	hasAccess, err := s.entitlements.HasAccess(ctx, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if hasAccess {
		log.Info("customer already entitled", slog.String("email", email))
		return nil
	}

	granted, err := s.entitlements.GrantAccess(ctx, email, event.Data.CustomData["user_id"])
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if s.publisher != nil {
		// Уведомление не влияет на результат обработки события.
		if err := s.publisher.PublishAccessGranted(*granted); err != nil {
			log.Error("failed to publish access granted notification", sl.Err(err))
		}
	}
	return nil
}

// normalizeAmount приводит сумму события к минорным единицам валюты ровно
// один раз на границе. Провайдер передаёт сумму либо в data.details.totals.total,
// либо в data.amount, обе уже в минорных единицах; JSON-значение может быть
// как строкой, так и числом.
func normalizeAmount(event *models.WebhookEvent) (int64, error) {
	raw := event.Data.Details.Totals.Total
	if raw == "" {
		raw = event.Data.Amount
	}
	if raw == "" {
		return 0, nil
	}
	amount, err := raw.Int64()
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", raw.String(), err)
	}
	return amount, nil
}
