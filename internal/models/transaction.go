package models

import (
	"encoding/json"
	"time"
)

// Transaction запись о событии оплаты, независимая от записи о доступе.
// TransactionID уникален и служит ключом идемпотентности: повторное
// сохранение с тем же ID заменяет строку, а не дублирует её.
type Transaction struct {
	ID            int               `json:"-"`
	TransactionID string            `json:"transaction_id"`
	CustomerID    string            `json:"customer_id,omitempty"`
	CustomerEmail string            `json:"customer_email,omitempty"`
	Amount        int64             `json:"amount"` // минорные единицы валюты (центы)
	Currency      string            `json:"currency"`
	CustomData    map[string]string `json:"custom_data,omitempty"`
	Status        string            `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
}

// WebhookEvent входящее событие платёжного провайдера.
// Сумма может приходить либо в data.amount, либо в data.details.totals.total —
// обе в минорных единицах, нормализация выполняется один раз в процессоре.
type WebhookEvent struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Data      struct {
		ID         string      `json:"id"`
		CustomerID string      `json:"customer_id"`
		Status     string      `json:"status"`
		Amount     json.Number `json:"amount"`
		Currency   string      `json:"currency"`
		Customer   struct {
			Email string `json:"email"`
		} `json:"customer"`
		CustomData map[string]string `json:"custom_data"`
		Details    struct {
			Totals struct {
				Total json.Number `json:"total"`
			} `json:"totals"`
		} `json:"details"`
		CreatedAt string `json:"created_at"`
	} `json:"data"`
}
