// Package entitlement реализует бизнес-логику доступа пользователей:
// выдачу 30-дневного окна по email и проверку его действия с ленивым
// истечением при чтении.
package entitlement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/qiyoga/qiyoga-backend/internal/models"
)

// GuestUserID подставляется, когда внешний идентификатор не передан.
const GuestUserID = "guest"

// Repository определяет методы хранилища записей о доступе.
type Repository interface {
	// GetUserByEmail возвращает запись по email, (nil, nil) при отсутствии.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GrantAccess выдаёт доступ атомарным upsert, не сокращая окно.
	GrantAccess(ctx context.Context, email, userID string, grantedAt, expiresAt time.Time) error
	// ExpireAccess сбрасывает флаг доступа, если срок истёк к моменту now.
	ExpireAccess(ctx context.Context, email string, now time.Time) error
	// UpsertAccessLog фиксирует последнюю выдачу на user_id.
	UpsertAccessLog(ctx context.Context, entry models.AccessGrantLogEntry) error
}

// Service реализует проверку и выдачу доступа.
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// New создаёт новый Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// NewWithClock как New, но с подменяемыми часами для тестов.
func NewWithClock(repo Repository, log *slog.Logger, now func() time.Time) *Service {
	return &Service{repo: repo, log: log, now: now}
}

// HasAccess проверяет действие доступа для email. Если срок истёк,
// флаг в хранилище сбрасывается прямо при чтении: фоновой очистки нет.
func (s *Service) HasAccess(ctx context.Context, email string) (bool, error) {
	const op = "entitlement.HasAccess"

	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if u == nil {
		return false, nil
	}
	if !u.HasAccess || u.AccessGrantedAt == nil {
		return false, nil
	}
	if u.AccessExpiresAt != nil && s.now().After(*u.AccessExpiresAt) {
		if err := s.repo.ExpireAccess(ctx, email, s.now()); err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("access expired on read", slog.String("email", email))
		return false, nil
	}
	return true, nil
}

// GrantAccess выдаёт доступ на фиксированное окно и пишет запись в журнал.
// Повторная выдача при действующем доступе никогда не сокращает окно.
// Запись о пользователе создаётся, если её ещё нет.
func (s *Service) GrantAccess(ctx context.Context, email, userID string) (*models.AccessGrantedEvent, error) {
	const op = "entitlement.GrantAccess"

	if userID == "" {
		userID = GuestUserID
	}
	grantedAt := s.now()
	expiresAt := grantedAt.Add(models.AccessWindow)

	if err := s.repo.GrantAccess(ctx, email, userID, grantedAt, expiresAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.UpsertAccessLog(ctx, models.AccessGrantLogEntry{
		UserID:        userID,
		CustomerEmail: email,
		GrantedAt:     grantedAt,
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("access granted",
		slog.String("email", email),
		slog.String("user_id", userID),
		slog.Time("expires_at", expiresAt))

	return &models.AccessGrantedEvent{
		UserID:        userID,
		CustomerEmail: email,
		GrantedAt:     grantedAt,
		ExpiresAt:     expiresAt,
	}, nil
}

// AccessInfo возвращает сводку о доступе для ответа API и ограничения
// полного отчёта.
func (s *Service) AccessInfo(ctx context.Context, email string) (*models.AccessInfo, error) {
	const op = "entitlement.AccessInfo"

	hasAccess, err := s.HasAccess(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	info := &models.AccessInfo{Email: email, HasAccess: hasAccess}
	if !hasAccess {
		return info, nil
	}

	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if u != nil && u.AccessExpiresAt != nil {
		info.ExpiresAt = u.AccessExpiresAt
		info.DaysRemaining = int(u.AccessExpiresAt.Sub(s.now()).Hours() / 24)
	}
	return info, nil
}
