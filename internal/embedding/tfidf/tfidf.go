// Package tfidf provides an offline embedder fitted on the corpus itself.
package tfidf

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"factrag/internal/domain"
)

var (
	_ domain.Embedder = (*Embedder)(nil)
	_ domain.Preparer = (*Embedder)(nil)
)

var (
	errNotPrepared = errors.New("tfidf embedder not prepared")
	errNoTerms     = errors.New("tfidf: corpus has no indexable terms")

	termPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)
)

// model is a fitted vocabulary. It is immutable once built.
type model struct {
	index  map[string]int
	weight []float64
}

// Embedder weights query and fact terms by how rare they are across the
// facts it was prepared on. Text with no known terms embeds to the zero
// vector.
type Embedder struct {
	mu    sync.RWMutex
	model *model
	stop  map[string]struct{}
}

// NewEmbedder creates an unprepared TF-IDF embedder.
func NewEmbedder() *Embedder {
	return &Embedder{stop: stopwords()}
}

func (e *Embedder) Name() string { return "tfidf" }

// Prepare fits the vocabulary on facts. Calling it again replaces the
// vocabulary, so vectors from an earlier fit are no longer comparable.
// An empty fact list yields an empty vocabulary and zero-length vectors.
func (e *Embedder) Prepare(facts []string) error {
	m, err := e.fit(facts)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.model = m
	e.mu.Unlock()
	return nil
}

func (e *Embedder) fit(facts []string) (*model, error) {
	docFreq := make(map[string]int)
	for _, fact := range facts {
		for term := range e.distinctTerms(fact) {
			docFreq[term]++
		}
	}
	if len(facts) > 0 && len(docFreq) == 0 {
		return nil, errNoTerms
	}

	terms := make([]string, 0, len(docFreq))
	for term := range docFreq {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	m := &model{index: make(map[string]int, len(terms)), weight: make([]float64, len(terms))}
	n := float64(len(facts))
	for i, term := range terms {
		m.index[term] = i
		m.weight[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
	return m, nil
}

// Dimension is the vocabulary size of the current fit.
func (e *Embedder) Dimension() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.model == nil {
		return 0
	}
	return len(e.model.weight)
}

// Embed returns the unit-length TF-IDF vector of text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.mu.RLock()
	m := e.model
	e.mu.RUnlock()
	if m == nil {
		return nil, errNotPrepared
	}

	vec := make([]float64, len(m.weight))
	counts := make(map[int]int)
	known := 0
	for _, term := range e.terms(text) {
		if i, ok := m.index[term]; ok {
			counts[i]++
			known++
		}
	}
	if known == 0 {
		return vec, nil
	}
	var sumSq float64
	for i, c := range counts {
		vec[i] = float64(c) / float64(known) * m.weight[i]
		sumSq += vec[i] * vec[i]
	}
	if norm := math.Sqrt(sumSq); norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

func (e *Embedder) terms(text string) []string {
	all := termPattern.FindAllString(strings.ToLower(text), -1)
	kept := all[:0]
	for _, t := range all {
		if _, skip := e.stop[t]; !skip {
			kept = append(kept, t)
		}
	}
	return kept
}

func (e *Embedder) distinctTerms(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range e.terms(text) {
		set[t] = struct{}{}
	}
	return set
}

func stopwords() map[string]struct{} {
	const list = "a an the and or but if then else for to of in on at by with as " +
		"is are was were be been being it this that these those from up down " +
		"over under again further than so such into about between through " +
		"during before after above below out off own same too very can will " +
		"just don should now do does did how what much many have has"
	words := strings.Fields(list)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
