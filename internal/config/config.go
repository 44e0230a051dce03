package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	defaultOllamaURL      = "http://localhost:11434"
	defaultEmbeddingModel = "hf.co/CompendiumLabs/bge-base-en-v1.5-gguf"
	defaultChatModel      = "hf.co/bartowski/Llama-3.2-1B-Instruct-GGUF"
	defaultTemperature    = 0.1
	defaultMaxRetries     = 3
)

// EmbedderConfig selects and configures the text embedder implementation.
// MaxRetries is a pointer so an explicit 0 disables retries.
type EmbedderConfig struct {
	Type        string `yaml:"type"`
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env,omitempty"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxRetries  *int   `yaml:"max_retries,omitempty"`
}

// ChatConfig selects and configures the chat model.
// Temperature is a pointer so an explicit 0 survives defaulting.
type ChatConfig struct {
	Type        string   `yaml:"type"`
	BaseURL     string   `yaml:"base_url"`
	APIKeyEnv   string   `yaml:"api_key_env,omitempty"`
	Model       string   `yaml:"model"`
	TimeoutSecs int      `yaml:"timeout_secs"`
	Temperature *float64 `yaml:"temperature,omitempty"`
}

// RetrievalConfig controls how many facts ground each answer.
type RetrievalConfig struct {
	TopN int `yaml:"top_n"`
}

// IngestConfig controls corpus embedding. Concurrency 1 embeds sequentially.
type IngestConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// CorpusConfig points at the flat fact file, one fact per line.
type CorpusConfig struct {
	Path string `yaml:"path"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Chat      ChatConfig      `yaml:"chat"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Log       LogConfig       `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/rag/config.yaml.
// If neither exists, it writes defaults to ~/.config/rag/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := Default()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects settings no component can run with.
func (c *AppConfig) Validate() error {
	switch c.Embedder.Type {
	case "ollama", "openai", "tfidf":
	default:
		return fmt.Errorf("unknown embedder: %q", c.Embedder.Type)
	}
	switch c.Chat.Type {
	case "ollama", "openai":
	default:
		return fmt.Errorf("unknown chat model: %q", c.Chat.Type)
	}
	if c.Embedder.MaxRetries != nil && *c.Embedder.MaxRetries < 0 {
		return fmt.Errorf("embedder.max_retries must not be negative, got %d", *c.Embedder.MaxRetries)
	}
	if c.Retrieval.TopN <= 0 {
		return fmt.Errorf("retrieval.top_n must be positive, got %d", c.Retrieval.TopN)
	}
	if c.Ingest.Concurrency <= 0 {
		return fmt.Errorf("ingest.concurrency must be positive, got %d", c.Ingest.Concurrency)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "rag", "config.yaml"), nil
}

// Default returns the configuration used when no file is present.
func Default() *AppConfig {
	cfg := &AppConfig{
		Embedder:  EmbedderConfig{Type: "ollama"},
		Chat:      ChatConfig{Type: "ollama"},
		Retrieval: RetrievalConfig{TopN: 3},
		Ingest:    IngestConfig{Concurrency: 1},
		Corpus:    CorpusConfig{Path: "cat-facts.txt"},
		Log:       LogConfig{Level: "info", Format: "text"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "ollama"
	}
	if cfg.Chat.Type == "" {
		cfg.Chat.Type = "ollama"
	}
	switch cfg.Embedder.Type {
	case "ollama":
		if cfg.Embedder.BaseURL == "" {
			cfg.Embedder.BaseURL = defaultOllamaURL
		}
		if cfg.Embedder.Model == "" {
			cfg.Embedder.Model = defaultEmbeddingModel
		}
		if cfg.Embedder.MaxRetries == nil {
			cfg.Embedder.MaxRetries = Int(defaultMaxRetries)
		}
	case "openai":
		if cfg.Embedder.BaseURL == "" {
			cfg.Embedder.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.APIKeyEnv == "" && cfg.Embedder.BaseURL == "https://api.openai.com/v1" {
			cfg.Embedder.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.Model == "" {
			cfg.Embedder.Model = "text-embedding-3-small"
		}
	}
	if cfg.Embedder.TimeoutSecs == 0 {
		cfg.Embedder.TimeoutSecs = 30
	}
	switch cfg.Chat.Type {
	case "ollama":
		if cfg.Chat.BaseURL == "" {
			cfg.Chat.BaseURL = defaultOllamaURL
		}
		if cfg.Chat.Model == "" {
			cfg.Chat.Model = defaultChatModel
		}
	case "openai":
		if cfg.Chat.BaseURL == "" {
			cfg.Chat.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Chat.APIKeyEnv == "" && cfg.Chat.BaseURL == "https://api.openai.com/v1" {
			cfg.Chat.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Chat.Model == "" {
			cfg.Chat.Model = "gpt-4o-mini"
		}
	}
	if cfg.Chat.Temperature == nil {
		cfg.Chat.Temperature = Float64(defaultTemperature)
	}
	if cfg.Chat.TimeoutSecs == 0 {
		cfg.Chat.TimeoutSecs = 120
	}
	if cfg.Retrieval.TopN == 0 {
		cfg.Retrieval.TopN = 3
	}
	if cfg.Ingest.Concurrency == 0 {
		cfg.Ingest.Concurrency = 1
	}
	if cfg.Corpus.Path == "" {
		cfg.Corpus.Path = "cat-facts.txt"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// Int returns a pointer to v, for optional config fields.
func Int(v int) *int { return &v }

// Float64 returns a pointer to v, for optional config fields.
func Float64(v float64) *float64 { return &v }

// ChatTemperature is the configured sampling temperature, or the default.
func (c ChatConfig) ChatTemperature() float64 {
	if c.Temperature == nil {
		return defaultTemperature
	}
	return *c.Temperature
}

// Retries is the configured retry count, or the default.
func (c EmbedderConfig) Retries() int {
	if c.MaxRetries == nil {
		return defaultMaxRetries
	}
	return *c.MaxRetries
}
