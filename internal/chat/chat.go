// Package chat selects the configured chat provider.
package chat

import (
	"fmt"
	"time"

	"factrag/internal/chat/ollama"
	"factrag/internal/chat/openai"
	"factrag/internal/config"
	"factrag/internal/domain"
)

// New builds the chat model named by cfg.Type.
func New(cfg config.ChatConfig) (domain.ChatModel, error) {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	switch cfg.Type {
	case "ollama", "":
		return ollama.NewClient(ollama.Config{BaseURL: cfg.BaseURL, Model: cfg.Model, Timeout: timeout}), nil
	case "openai":
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.BaseURL,
			APIKeyEnv: cfg.APIKeyEnv,
			Model:     cfg.Model,
			Timeout:   timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("openai chat init failed: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown chat model: %s", cfg.Type)
	}
}
