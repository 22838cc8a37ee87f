package paddle

// CreateTransactionRequest запрос на создание платёжной транзакции.
type CreateTransactionRequest struct {
	Items      []Item            `json:"items"`
	Customer   Customer          `json:"customer"`
	CustomData map[string]string `json:"custom_data,omitempty"`
	SuccessURL string            `json:"success_url,omitempty"`
	CancelURL  string            `json:"cancel_url,omitempty"`
}

// Item позиция в транзакции.
type Item struct {
	PriceID  string `json:"price_id"`
	Quantity int    `json:"quantity"`
}

// Customer покупатель.
type Customer struct {
	Email string `json:"email"`
}

// CreateTransactionResponse ответ провайдера на создание транзакции.
type CreateTransactionResponse struct {
	Data struct {
		ID          string `json:"id"`
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}
