package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/qiyoga/qiyoga-backend/internal/models"
)

// GetUserByEmail возвращает запись о доступе по email.
// Отсутствие записи — не ошибка: возвращается (nil, nil).
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, email, has_access, access_granted_at,
			      access_expires_at, created_at
			  FROM users
			  WHERE email = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, email)

	var userID sql.NullString
	var grantedAt, expiresAt sql.NullTime
	if err := row.Scan(&u.ID, &userID, &u.Email, &u.HasAccess,
		&grantedAt, &expiresAt, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u.UserID = userID.String
	if grantedAt.Valid {
		u.AccessGrantedAt = &grantedAt.Time
	}
	if expiresAt.Valid {
		u.AccessExpiresAt = &expiresAt.Time
	}
	return u, nil
}

// GrantAccess выдаёт доступ по email одним атомарным upsert: запись
// создаётся при отсутствии, окно доступа никогда не сокращается повторной
// выдачей. Сериализация конкурирующих выдач по одному email возложена на
// атомарность upsert на стороне PostgreSQL.
func (s *Storage) GrantAccess(ctx context.Context, email, userID string, grantedAt, expiresAt time.Time) error {
	const op = "storage.GrantAccess"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (user_id, email, has_access, access_granted_at, access_expires_at)
			  VALUES ($1, $2, TRUE, $3, $4)
			  ON CONFLICT (email) DO UPDATE SET
			      user_id = EXCLUDED.user_id,
			      has_access = TRUE,
			      access_granted_at = EXCLUDED.access_granted_at,
			      access_expires_at = GREATEST(COALESCE(users.access_expires_at,
			          EXCLUDED.access_expires_at), EXCLUDED.access_expires_at)`
	if _, err := s.DB.ExecContext(ctx, query, userID, email, grantedAt, expiresAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ExpireAccess сбрасывает флаг доступа, если срок истёк к моменту now.
// Вызывается при чтении: фонового процесса истечения нет.
func (s *Storage) ExpireAccess(ctx context.Context, email string, now time.Time) error {
	const op = "storage.ExpireAccess"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET has_access = FALSE
			  WHERE email = $1
			    AND access_expires_at IS NOT NULL
			    AND access_expires_at < $2`
	if _, err := s.DB.ExecContext(ctx, query, email, now); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpsertAccessLog записывает выдачу доступа в журнал. Журнал хранит только
// последнюю выдачу на каждый user_id — история намеренно не сохраняется.
func (s *Storage) UpsertAccessLog(ctx context.Context, entry models.AccessGrantLogEntry) error {
	const op = "storage.UpsertAccessLog"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO user_access_log (user_id, customer_email, granted_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (user_id) DO UPDATE SET
			      customer_email = EXCLUDED.customer_email,
			      granted_at = EXCLUDED.granted_at`
	if _, err := s.DB.ExecContext(ctx, query,
		entry.UserID, entry.CustomerEmail, entry.GrantedAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetAccessLog возвращает последнюю запись журнала для user_id.
func (s *Storage) GetAccessLog(ctx context.Context, userID string) (*models.AccessGrantLogEntry, error) {
	const op = "storage.GetAccessLog"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, customer_email, granted_at
			  FROM user_access_log
			  WHERE user_id = $1`
	var entry models.AccessGrantLogEntry
	err := s.DB.QueryRowContext(ctx, query, userID).Scan(
		&entry.ID, &entry.UserID, &entry.CustomerEmail, &entry.GrantedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &entry, nil
}
