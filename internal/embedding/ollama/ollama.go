// Package ollama embeds text with the native Ollama embeddings endpoint.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"factrag/internal/domain"
)

// DefaultModel is the embedding model pulled by the setup instructions.
const DefaultModel = "hf.co/CompendiumLabs/bge-base-en-v1.5-gguf"

var _ domain.Embedder = (*Client)(nil)

// Client calls POST {BaseURL}/api/embeddings. Transient failures (transport
// errors, 429 and 5xx) are retried with exponential backoff; the retrieval
// core itself never retries.
type Client struct {
	baseURL    string
	model      string
	client     *http.Client
	maxRetries int
	log        *slog.Logger
	wait       func(context.Context, time.Duration) error
}

// Config configures the Ollama embeddings client.
type Config struct {
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	Logger     *slog.Logger
}

// NewClient creates a new embeddings client using the provided configuration.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		client:     &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		log:        cfg.Logger,
		wait:       sleep,
	}
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return "ollama" }

// Embed returns an embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	v, err := c.embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama: %w", domain.ErrEmbeddingUnavailable, err)
	}
	return v, nil
}

func (c *Client) embed(ctx context.Context, text string) ([]float64, error) {
	type reqBody struct {
		Model  string `json:"model"`
		Prompt string `json:"prompt"`
	}
	data, err := json.Marshal(reqBody{Model: c.model, Prompt: text})
	if err != nil {
		return nil, err
	}
	url := c.baseURL + "/api/embeddings"

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.log.Warn("retrying embedding request", "attempt", attempt, "err", lastErr)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			if attempt < c.maxRetries {
				if err := c.wait(ctx, retryDelay(attempt)); err != nil {
					return nil, err
				}
			}
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("embeddings request failed: %s", resp.Status)
			delay := retryDelay(attempt)
			if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
				delay = time.Duration(secs) * time.Second
			}
			if attempt < c.maxRetries {
				if err := c.wait(ctx, delay); err != nil {
					return nil, err
				}
			}
			continue
		}

		payload, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("embeddings request failed: %s", resp.Status)
		}
		var out struct {
			Embedding []float64 `json:"embedding"`
		}
		if err := json.Unmarshal(payload, &out); err != nil {
			return nil, err
		}
		if len(out.Embedding) == 0 {
			return nil, errors.New("no embedding returned")
		}
		return out.Embedding, nil
	}
	return nil, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

const (
	baseRetryDelay = 200 * time.Millisecond
	maxRetryDelay  = 5 * time.Second
	// 200ms<<5 already exceeds the cap; larger shifts would overflow.
	maxBackoffShift = 5
)

func retryDelay(attempt int) time.Duration {
	attempt = max(0, min(attempt, maxBackoffShift))
	return min(baseRetryDelay<<attempt, maxRetryDelay)
}
