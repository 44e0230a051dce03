// Package embedding selects the configured embedding provider.
package embedding

import (
	"fmt"
	"log/slog"
	"time"

	"factrag/internal/config"
	"factrag/internal/domain"
	"factrag/internal/embedding/ollama"
	"factrag/internal/embedding/openai"
	"factrag/internal/embedding/tfidf"
)

// New builds the embedder named by cfg.Type.
func New(cfg config.EmbedderConfig, log *slog.Logger) (domain.Embedder, error) {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	switch cfg.Type {
	case "ollama", "":
		return ollama.NewClient(ollama.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Timeout:    timeout,
			MaxRetries: cfg.Retries(),
			Logger:     log,
		}), nil
	case "openai":
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.BaseURL,
			APIKeyEnv: cfg.APIKeyEnv,
			Model:     cfg.Model,
			Timeout:   timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder init failed: %w", err)
		}
		return client, nil
	case "tfidf":
		return tfidf.NewEmbedder(), nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
}
