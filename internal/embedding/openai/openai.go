// Package openai embeds text through any OpenAI-compatible embeddings API,
// including Ollama's /v1 endpoint.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"factrag/internal/domain"
)

var _ domain.Embedder = (*Client)(nil)

// Client is an OpenAI-compatible embeddings client implementing domain.Embedder.
type Client struct {
	client *goopenai.Client
	model  string
}

// Config configures the OpenAI-compatible embeddings client.
// APIKeyEnv names the environment variable holding the key; when it is
// empty no key is sent, which is what local servers expect.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// NewClient creates a new embeddings client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	var key string
	if cfg.APIKeyEnv != "" {
		key = os.Getenv(cfg.APIKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
		}
	}
	if cfg.Model == "" {
		cfg.Model = string(goopenai.SmallEmbedding3)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	oc := goopenai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &Client{client: goopenai.NewClientWithConfig(oc), model: cfg.Model}, nil
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return "openai" }

// Embed returns an embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := c.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Model: goopenai.EmbeddingModel(c.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: openai: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: openai: %w", domain.ErrEmbeddingUnavailable, errors.New("no embedding returned"))
	}
	v32 := resp.Data[0].Embedding
	v := make([]float64, len(v32))
	for i, x := range v32 {
		v[i] = float64(x)
	}
	return v, nil
}
