package service

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factrag/internal/domain"
	"factrag/internal/embedding/tfidf"
	"factrag/internal/logging"
)

type stubEmbedder struct {
	vecs   map[string][]float64
	failOn string
	delay  map[string]time.Duration
	calls  atomic.Int32
}

func (s *stubEmbedder) Name() string { return "stub" }

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	s.calls.Add(1)
	if d := s.delay[text]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if text == s.failOn {
		return nil, errors.New("model not loaded")
	}
	v, ok := s.vecs[text]
	if !ok {
		return []float64{1, 1}, nil
	}
	return v, nil
}

type stubChat struct {
	reply       string
	err         error
	instruction string
	message     string
	temperature float64
	calls       int
}

func (s *stubChat) Name() string { return "stub" }

func (s *stubChat) Chat(_ context.Context, instruction, message string, temperature float64) (string, error) {
	s.calls++
	s.instruction, s.message, s.temperature = instruction, message, temperature
	return s.reply, s.err
}

const (
	sleepFact = "Cats sleep 12-16 hours a day."
	clawFact  = "Cats have retractable claws."
	question  = "How much do cats sleep?"
)

func catEmbedder() *stubEmbedder {
	return &stubEmbedder{vecs: map[string][]float64{
		question:  {1, 0, 0},
		sleepFact: {0.9, math.Sqrt(0.19), 0},
		clawFact:  {0.3, 0, math.Sqrt(0.91)},
	}}
}

func TestPipelineQuery(t *testing.T) {
	chat := &stubChat{reply: "Cats sleep 12 to 16 hours a day."}
	p := New(catEmbedder(), chat, Config{TopN: 1, Temperature: 0.1}, logging.Nop())
	assert.Equal(t, Idle, p.State())

	require.NoError(t, p.Ingest(context.Background(), []string{sleepFact, "   ", clawFact, ""}))
	assert.Equal(t, Ready, p.State())
	require.Equal(t, 2, p.Store().Len())
	assert.Equal(t, 3, p.Store().Dimension())

	ans, err := p.Query(context.Background(), "  "+question+"\n")
	require.NoError(t, err)
	assert.Equal(t, Answered, p.State())
	require.Len(t, ans.Matches, 1)
	assert.Equal(t, sleepFact, ans.Matches[0].Text)
	assert.InDelta(t, 0.9, ans.Matches[0].Score, 1e-9)
	assert.Equal(t, chat.reply, ans.Text)

	assert.Equal(t, question, chat.message)
	assert.Equal(t, 0.1, chat.temperature)
	assert.Contains(t, chat.instruction, " - "+sleepFact)
	assert.NotContains(t, chat.instruction, clawFact)
}

func TestPipelineIngestAbort(t *testing.T) {
	emb := &stubEmbedder{failOn: "line two"}
	p := New(emb, &stubChat{}, Config{}, logging.Nop())

	err := p.Ingest(context.Background(), []string{"line one", "line two", "line three"})
	require.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, Failed, p.State())
	assert.Nil(t, p.Store())
	assert.EqualValues(t, 2, emb.calls.Load(), "ingestion must stop at the failing line")

	_, err = p.Query(context.Background(), "anything")
	require.ErrorIs(t, err, domain.ErrNotReady)
}

func TestPipelineIngestDimensionMismatch(t *testing.T) {
	emb := &stubEmbedder{vecs: map[string][]float64{"a": {1, 0}, "b": {1, 0, 0}}}
	p := New(emb, &stubChat{}, Config{}, logging.Nop())

	err := p.Ingest(context.Background(), []string{"a", "b"})
	require.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Equal(t, Failed, p.State())
	assert.Nil(t, p.Store())
}

func TestPipelineReingestFailureHidesOldStore(t *testing.T) {
	emb := &stubEmbedder{failOn: "bad"}
	p := New(emb, &stubChat{}, Config{}, logging.Nop())
	require.NoError(t, p.Ingest(context.Background(), []string{"good"}))
	require.NotNil(t, p.Store())

	require.Error(t, p.Ingest(context.Background(), []string{"good", "bad"}))
	assert.Nil(t, p.Store())
}

func TestPipelineInvalidQuery(t *testing.T) {
	emb := catEmbedder()
	chat := &stubChat{}
	p := New(emb, chat, Config{}, logging.Nop())
	require.NoError(t, p.Ingest(context.Background(), []string{sleepFact}))
	before := emb.calls.Load()

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := p.Query(context.Background(), q)
		require.ErrorIs(t, err, domain.ErrInvalidQuery)
	}
	assert.Equal(t, before, emb.calls.Load(), "no embedding call for invalid queries")
	assert.Zero(t, chat.calls)
	assert.Equal(t, Ready, p.State())
}

func TestPipelineChatFailure(t *testing.T) {
	cause := errors.New("503 Service Unavailable")
	p := New(catEmbedder(), &stubChat{err: cause}, Config{}, logging.Nop())
	require.NoError(t, p.Ingest(context.Background(), []string{sleepFact, clawFact}))

	ans, err := p.Query(context.Background(), question)
	assert.Nil(t, ans)
	require.ErrorIs(t, err, domain.ErrChatUnavailable)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, Failed, p.State())
}

func TestPipelineRetrievalFailure(t *testing.T) {
	emb := catEmbedder()
	p := New(emb, &stubChat{}, Config{}, logging.Nop())
	require.NoError(t, p.Ingest(context.Background(), []string{sleepFact}))
	emb.failOn = question

	_, err := p.Retrieve(context.Background(), question)
	require.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Equal(t, Failed, p.State())
}

func TestPipelineEmptyCorpus(t *testing.T) {
	chat := &stubChat{reply: "I don't know."}
	p := New(catEmbedder(), chat, Config{}, logging.Nop())
	require.NoError(t, p.Ingest(context.Background(), nil))
	assert.Equal(t, Ready, p.State())

	ans, err := p.Query(context.Background(), question)
	require.NoError(t, err)
	assert.Empty(t, ans.Matches)
	assert.True(t, len(chat.instruction) > 0)
}

func TestPipelineParallelIngestKeepsOrder(t *testing.T) {
	lines := []string{"l0", "l1", "l2", "l3", "l4", "l5"}
	emb := &stubEmbedder{
		vecs: map[string][]float64{},
		// earlier lines finish last
		delay: map[string]time.Duration{"l0": 30 * time.Millisecond, "l1": 20 * time.Millisecond, "l2": 10 * time.Millisecond},
	}
	for i, l := range lines {
		emb.vecs[l] = []float64{float64(i), 1}
	}
	p := New(emb, &stubChat{}, Config{Concurrency: 4}, logging.Nop())
	require.NoError(t, p.Ingest(context.Background(), lines))

	all := p.Store().All()
	require.Len(t, all, len(lines))
	for i, r := range all {
		assert.Equal(t, lines[i], r.Text)
		assert.Equal(t, float64(i), r.Embedding[0])
	}
}

func TestPipelineParallelIngestAbort(t *testing.T) {
	emb := &stubEmbedder{failOn: "l3"}
	p := New(emb, &stubChat{}, Config{Concurrency: 3}, logging.Nop())

	err := p.Ingest(context.Background(), []string{"l0", "l1", "l2", "l3", "l4"})
	require.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Equal(t, Failed, p.State())
	assert.Nil(t, p.Store())
}

func TestPipelineIngestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	emb := &stubEmbedder{delay: map[string]time.Duration{"a": time.Second}}
	p := New(emb, &stubChat{}, Config{}, logging.Nop())

	err := p.Ingest(ctx, []string{"a"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Failed, p.State())
}

func TestPipelineWithTFIDF(t *testing.T) {
	chat := &stubChat{reply: "About 12-16 hours."}
	p := New(tfidf.NewEmbedder(), chat, Config{TopN: 1}, logging.Nop())
	require.NoError(t, p.Ingest(context.Background(), []string{
		clawFact,
		sleepFact,
		"A group of cats is called a clowder.",
	}))

	ans, err := p.Query(context.Background(), question)
	require.NoError(t, err)
	require.Len(t, ans.Matches, 1)
	assert.Equal(t, sleepFact, ans.Matches[0].Text)
}

func TestPipelineEmptyCorpusTFIDF(t *testing.T) {
	chat := &stubChat{reply: "I don't know."}
	p := New(tfidf.NewEmbedder(), chat, Config{TopN: 3}, logging.Nop())
	require.NoError(t, p.Ingest(context.Background(), []string{"", "   "}))
	assert.Equal(t, Ready, p.State())
	assert.Zero(t, p.Store().Len())

	ans, err := p.Query(context.Background(), question)
	require.NoError(t, err)
	assert.Empty(t, ans.Matches)
	assert.Equal(t, "I don't know.", ans.Text)
	assert.Equal(t, Answered, p.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "unknown", State(42).String())
}
