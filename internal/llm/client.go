// Package llm содержит клиент completion-API для пояснения условий
// договора аренды на двух языках (английский и китайский).
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const systemPrompt = "You are a tenant rights assistant. Explain the given lease clause " +
	"in plain language, first in English, then in Chinese (中文). Mention concrete risks " +
	"for the tenant and one practical suggestion. Keep the answer under 200 words per language."

// Client клиент chat-completions API.
type Client struct {
	apiKey     string
	apiURL     string
	model      string
	httpClient *http.Client
}

// NewClient создаёт клиент. Пустой apiKey допустим: Enabled вернёт false,
// и обработчик ответит, что функция не настроена.
func NewClient(apiKey, apiURL, model string, timeout time.Duration) *Client {
	return &Client{
		apiKey:     apiKey,
		apiURL:     apiURL,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Enabled сообщает, настроен ли ключ API.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// ExplainClause возвращает двуязычное пояснение условия договора.
func (c *Client) ExplainClause(ctx context.Context, clauseText string) (string, error) {
	const op = "llm.ExplainClause"

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: clauseText},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%s: empty response", op)
	}
	return chatResp.Choices[0].Message.Content, nil
}
