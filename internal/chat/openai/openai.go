// Package openai generates answers through an OpenAI-compatible chat
// completions API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"factrag/internal/domain"
)

var _ domain.ChatModel = (*Client)(nil)

// Client wraps a go-openai client for a single model.
type Client struct {
	client *goopenai.Client
	model  string
}

// Config configures the chat client. APIKeyEnv may be empty for local servers.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	var key string
	if cfg.APIKeyEnv != "" {
		key = os.Getenv(cfg.APIKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
		}
	}
	if cfg.Model == "" {
		cfg.Model = goopenai.GPT4oMini
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Minute
	}
	oc := goopenai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &Client{client: goopenai.NewClientWithConfig(oc), model: cfg.Model}, nil
}

func (c *Client) Name() string { return "openai" }

// Chat sends the instruction as the system message and returns the first choice.
func (c *Client) Chat(ctx context.Context, instruction, userMessage string, temperature float64) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: instruction},
			{Role: goopenai.ChatMessageRoleUser, Content: userMessage},
		},
		Temperature: wireTemperature(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("%w: openai: %w", domain.ErrChatUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai: %w", domain.ErrChatUnavailable, errors.New("no choices returned"))
	}
	return resp.Choices[0].Message.Content, nil
}

// wireTemperature keeps an explicit 0 on the wire. The request field is
// omitempty, and an omitted temperature means the server default of 1.
func wireTemperature(t float64) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}
