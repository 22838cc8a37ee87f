package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/qiyoga/qiyoga-backend/internal/models"
)

// UpsertTransaction сохраняет транзакцию. Ключ идемпотентности —
// transaction_id: повторное сохранение заменяет строку, последний статус
// побеждает. Возвращает внутренний ID строки.
func (s *Storage) UpsertTransaction(ctx context.Context, tx models.Transaction) (int, error) {
	const op = "storage.UpsertTransaction"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	customData, err := json.Marshal(tx.CustomData)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO transactions (transaction_id, customer_id, customer_email,
			      amount, currency, custom_data, status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
			  ON CONFLICT (transaction_id) DO UPDATE SET
			      customer_id = EXCLUDED.customer_id,
			      customer_email = EXCLUDED.customer_email,
			      amount = EXCLUDED.amount,
			      currency = EXCLUDED.currency,
			      custom_data = EXCLUDED.custom_data,
			      status = EXCLUDED.status,
			      updated_at = NOW()
			  RETURNING id`
	var newID int
	err = s.DB.QueryRowContext(ctx, query,
		tx.TransactionID, tx.CustomerID, tx.CustomerEmail, tx.Amount,
		tx.Currency, customData, tx.Status).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetTransaction возвращает транзакцию по её внешнему идентификатору.
func (s *Storage) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	const op = "storage.GetTransaction"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, transaction_id, customer_id, customer_email, amount,
			      currency, custom_data, status, created_at
			  FROM transactions
			  WHERE transaction_id = $1`
	row := s.DB.QueryRowContext(ctx, query, transactionID)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tx, nil
}

// ListTransactionsByEmail возвращает транзакции покупателя, новые первыми.
func (s *Storage) ListTransactionsByEmail(ctx context.Context, email string) ([]*models.Transaction, error) {
	const op = "storage.ListTransactionsByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, transaction_id, customer_id, customer_email, amount,
			      currency, custom_data, status, created_at
			  FROM transactions
			  WHERE customer_email = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, tx)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var tx models.Transaction
	var customerID, customerEmail sql.NullString
	var customData []byte
	if err := row.Scan(&tx.ID, &tx.TransactionID, &customerID, &customerEmail,
		&tx.Amount, &tx.Currency, &customData, &tx.Status, &tx.CreatedAt); err != nil {
		return nil, err
	}
	tx.CustomerID = customerID.String
	tx.CustomerEmail = customerEmail.String
	if len(customData) > 0 {
		if err := json.Unmarshal(customData, &tx.CustomData); err != nil {
			return nil, err
		}
	}
	return &tx, nil
}
