// Package ollama generates answers with the native Ollama chat endpoint.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"factrag/internal/domain"
)

// DefaultModel is the chat model pulled by the setup instructions.
const DefaultModel = "hf.co/bartowski/Llama-3.2-1B-Instruct-GGUF"

var _ domain.ChatModel = (*Client)(nil)

// Client calls POST {BaseURL}/api/chat with streaming disabled.
type Client struct {
	baseURL string
	model   string
	client  *http.Client
}

// Config configures the Ollama chat client.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
	Stream   bool      `json:"stream"`
	Options  struct {
		Temperature float64 `json:"temperature"`
	} `json:"options"`
}

// NewClient creates a chat client, filling in local defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &Client{baseURL: cfg.BaseURL, model: cfg.Model, client: &http.Client{Timeout: cfg.Timeout}}
}

func (c *Client) Name() string { return "ollama" }

// Chat sends the instruction as the system message and returns the reply text.
func (c *Client) Chat(ctx context.Context, instruction, userMessage string, temperature float64) (string, error) {
	out, err := c.chat(ctx, instruction, userMessage, temperature)
	if err != nil {
		return "", fmt.Errorf("%w: ollama: %w", domain.ErrChatUnavailable, err)
	}
	return out, nil
}

func (c *Client) chat(ctx context.Context, instruction, userMessage string, temperature float64) (string, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: instruction},
			{Role: "user", Content: userMessage},
		},
	}
	body.Options.Temperature = temperature
	data, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("chat request failed: %s: %s", resp.Status, bytes.TrimSpace(msg))
	}
	var out struct {
		Message message `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Message.Content == "" {
		return "", errors.New("empty chat response")
	}
	return out.Message.Content, nil
}
