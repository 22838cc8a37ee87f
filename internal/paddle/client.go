// Package paddle содержит HTTP-клиент платёжного провайдера Paddle.
// Клиент используется только для создания сессий оплаты; webhook-события
// приходят отдельным входящим запросом.
package paddle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент Paddle API с bearer-авторизацией.
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент Paddle.
func NewClient(apiKey, apiURL string) *Client {
	return &Client{
		apiKey:     apiKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// CreateTransaction создаёт платёжную транзакцию (сессию оплаты) и
// возвращает ответ провайдера с checkout-ссылкой.
func (c *Client) CreateTransaction(ctx context.Context, reqParams CreateTransactionRequest) (*CreateTransactionResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/transactions", reqParams)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{Status: resp.StatusCode, Detail: string(detail)}
	}

	var txResp CreateTransactionResponse
	if err := json.NewDecoder(resp.Body).Decode(&txResp); err != nil {
		return nil, err
	}
	return &txResp, nil
}

// APIError ошибка Paddle API с HTTP-статусом и телом ответа.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("paddle api: unexpected status %d: %s", e.Status, e.Detail)
}
