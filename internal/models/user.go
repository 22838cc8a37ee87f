// Package models содержит доменные структуры приложения: запись о доступе
// пользователя, транзакции платёжного провайдера и результаты анализа договора.
package models

import "time"

// User представляет запись о доступе, ключом служит email покупателя.
// HasAccess == true подразумевает, что AccessGrantedAt установлен и срок
// AccessExpiresAt ещё не прошёл на момент последней проверки.
type User struct {
	ID              int        // Внутренний ID записи
	UserID          string     // Внешний идентификатор пользователя, может быть "guest"
	Email           string     // Электронная почта, уникальный ключ
	HasAccess       bool       // Действует ли доступ
	AccessGrantedAt *time.Time // Когда доступ выдан
	AccessExpiresAt *time.Time // Когда доступ истекает (выдача + 30 дней)
	CreatedAt       time.Time
}

// AccessWindow длительность оплаченного доступа.
const AccessWindow = 30 * 24 * time.Hour

// AccessGrantLogEntry запись журнала выдачи доступа.
// Журнал хранит только последнюю выдачу на каждый user_id.
type AccessGrantLogEntry struct {
	ID            int
	UserID        string
	CustomerEmail string
	GrantedAt     time.Time
}

// AccessInfo сводка о текущем доступе для ответа API и ограничения
// полного отчёта по договору.
type AccessInfo struct {
	Email         string     `json:"email"`
	HasAccess     bool       `json:"has_access"`
	ExpiresAt     *time.Time `json:"access_expires_at,omitempty"`
	DaysRemaining int        `json:"days_remaining"`
}

// AccessGrantedEvent сообщение в RabbitMQ о выданном доступе.
type AccessGrantedEvent struct {
	UserID        string    `json:"user_id"`
	CustomerEmail string    `json:"customer_email"`
	GrantedAt     time.Time `json:"granted_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}
