// Package retriever ranks stored facts against a query by cosine similarity.
package retriever

import (
	"context"
	"errors"
	"sort"

	"factrag/internal/domain"
	"factrag/internal/vectorstore"
)

// ErrInvalidTopN is returned when topN is not positive.
var ErrInvalidTopN = errors.New("topN must be positive")

// Retrieve embeds query once and returns the topN most similar records,
// highest score first. Records with equal scores keep insertion order.
// An empty store yields an empty result.
func Retrieve(ctx context.Context, query string, topN int, emb domain.Embedder, store vectorstore.Store) ([]domain.ScoredMatch, error) {
	if topN <= 0 {
		return nil, ErrInvalidTopN
	}
	vec, err := emb.Embed(ctx, query)
	if err != nil {
		return nil, domain.WrapEmbedding(err)
	}
	return Rank(vec, topN, store.All())
}

// Rank scores every record against vec and keeps the best topN.
func Rank(vec []float64, topN int, records []domain.Record) ([]domain.ScoredMatch, error) {
	if topN <= 0 {
		return nil, ErrInvalidTopN
	}
	matches := make([]domain.ScoredMatch, 0, len(records))
	for _, r := range records {
		if len(r.Embedding) != len(vec) {
			return nil, &domain.DimensionMismatchError{Expected: len(r.Embedding), Actual: len(vec)}
		}
		score, err := vectorstore.Cosine(vec, r.Embedding)
		if err != nil {
			return nil, err
		}
		matches = append(matches, domain.ScoredMatch{Text: r.Text, Score: score})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if topN < len(matches) {
		matches = matches[:topN]
	}
	return matches, nil
}
