package models

// CheckoutRequest тело запроса на создание сессии оплаты.
type CheckoutRequest struct {
	Email  string `json:"email" validate:"required,email"` // Почта покупателя
	UserID string `json:"user_id"`                         // Идентификатор из сессии фронтенда, опционален
}

// CheckoutSession результат создания сессии у платёжного провайдера.
type CheckoutSession struct {
	CheckoutURL   string `json:"checkout_url"`
	TransactionID string `json:"transaction_id"`
}
