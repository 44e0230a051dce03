package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"factrag/internal/domain"
	"factrag/internal/prompt"
	"factrag/internal/retriever"
	"factrag/internal/vectorstore"
	"factrag/internal/vectorstore/memory"
)

// Config tunes a Pipeline.
type Config struct {
	TopN        int
	Temperature float64
	// Concurrency bounds in-flight embedding calls during ingestion.
	// Values below 2 embed sequentially.
	Concurrency int
}

// Answer is the outcome of one query.
type Answer struct {
	Matches []domain.ScoredMatch
	Text    string
}

// Pipeline wires corpus ingestion and grounded question answering.
// Ingest must complete before queries are served; the store is never
// mutated afterwards.
type Pipeline struct {
	embedder domain.Embedder
	chat     domain.ChatModel
	cfg      Config
	log      *slog.Logger

	mu    sync.Mutex
	state State
	store vectorstore.Store
}

// New creates an idle pipeline.
func New(embedder domain.Embedder, chat domain.ChatModel, cfg Config, log *slog.Logger) *Pipeline {
	if cfg.TopN <= 0 {
		cfg.TopN = 3
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{embedder: embedder, chat: chat, cfg: cfg, log: log, state: Idle}
}

// State reports the current lifecycle state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Store returns the ingested store, or nil unless ingestion succeeded.
func (p *Pipeline) Store() vectorstore.Store {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// Ingest embeds every non-blank line and builds a fresh store. Any failure
// aborts the whole ingestion: the pipeline moves to Failed and exposes no
// store.
func (p *Pipeline) Ingest(ctx context.Context, lines []string) error {
	p.mu.Lock()
	p.state = Ingesting
	p.store = nil
	p.mu.Unlock()

	start := time.Now()
	store, err := p.ingest(ctx, facts(lines))
	if err != nil {
		p.setState(Failed)
		p.log.Error("ingestion failed", "err", err)
		return err
	}

	p.mu.Lock()
	p.store = store
	p.state = Ready
	p.mu.Unlock()
	p.log.Info("ingestion complete",
		"records", store.Len(),
		"dimension", store.Dimension(),
		"embedder", p.embedder.Name(),
		"elapsed", time.Since(start))
	return nil
}

func facts(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (p *Pipeline) ingest(ctx context.Context, lines []string) (*memory.Storage, error) {
	if prep, ok := p.embedder.(domain.Preparer); ok {
		if err := prep.Prepare(lines); err != nil {
			return nil, domain.WrapEmbedding(err)
		}
	}
	vecs, err := p.embedAll(ctx, lines)
	if err != nil {
		return nil, err
	}
	store := memory.NewStorage()
	for i, line := range lines {
		if err := store.Append(line, vecs[i]); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return store, nil
}

// embedAll returns one vector per line, indexed by position so the store
// keeps corpus order regardless of completion order.
func (p *Pipeline) embedAll(ctx context.Context, lines []string) ([][]float64, error) {
	vecs := make([][]float64, len(lines))
	if p.cfg.Concurrency < 2 {
		for i, line := range lines {
			v, err := p.embedder.Embed(ctx, line)
			if err != nil {
				return nil, fmt.Errorf("embed line %d: %w", i+1, domain.WrapEmbedding(err))
			}
			vecs[i] = v
			p.log.Debug("embedded line", "line", i+1, "total", len(lines))
		}
		return vecs, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)
	for i, line := range lines {
		g.Go(func() error {
			v, err := p.embedder.Embed(gctx, line)
			if err != nil {
				return fmt.Errorf("embed line %d: %w", i+1, domain.WrapEmbedding(err))
			}
			vecs[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vecs, nil
}

// Retrieve validates the query and returns the ranked matches.
func (p *Pipeline) Retrieve(ctx context.Context, query string) ([]domain.ScoredMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidQuery
	}
	p.mu.Lock()
	store := p.store
	if store == nil {
		p.mu.Unlock()
		return nil, domain.ErrNotReady
	}
	p.state = Querying
	p.mu.Unlock()

	matches, err := retriever.Retrieve(ctx, query, p.cfg.TopN, p.embedder, store)
	if err != nil {
		p.setState(Failed)
		p.log.Error("retrieval failed", "err", err)
		return nil, err
	}
	p.log.Debug("retrieved", "top_n", p.cfg.TopN, "matches", len(matches))
	return matches, nil
}

// Generate asks the chat model to answer query grounded on matches.
func (p *Pipeline) Generate(ctx context.Context, query string, matches []domain.ScoredMatch) (string, error) {
	instruction := prompt.BuildInstruction(matches)
	text, err := p.chat.Chat(ctx, instruction, strings.TrimSpace(query), p.cfg.Temperature)
	if err != nil {
		p.setState(Failed)
		p.log.Error("chat failed", "model", p.chat.Name(), "err", err)
		return "", domain.WrapChat(err)
	}
	p.setState(Answered)
	return text, nil
}

// Query runs retrieval and generation for one question.
func (p *Pipeline) Query(ctx context.Context, query string) (*Answer, error) {
	matches, err := p.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}
	text, err := p.Generate(ctx, query, matches)
	if err != nil {
		return nil, err
	}
	return &Answer{Matches: matches, Text: text}, nil
}
