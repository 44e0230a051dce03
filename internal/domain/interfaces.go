package domain

import "context"

// Record is a single corpus fact together with its embedding.
// Records are immutable once created.
type Record struct {
	Text      string
	Embedding []float64
}

// ScoredMatch is a retrieved fact with its cosine similarity to the query.
type ScoredMatch struct {
	Text  string
	Score float64
}

// Embedder converts free text into a numeric vector representation.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Preparer is implemented by embedders that must see the corpus before
// they can embed anything (for example TF-IDF).
type Preparer interface {
	Prepare(corpus []string) error
}

// ChatModel generates an answer from a system instruction and a user message.
type ChatModel interface {
	Name() string
	Chat(ctx context.Context, instruction, message string, temperature float64) (string, error)
}
