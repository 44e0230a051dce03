package tfidf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedRequiresPrepare(t *testing.T) {
	_, err := NewEmbedder().Embed(context.Background(), "cats")
	require.Error(t, err)
}

func TestPrepareEmptyCorpus(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare(nil))
	assert.Zero(t, e.Dimension())

	v, err := e.Embed(context.Background(), "how long do cats sleep")
	require.NoError(t, err)
	assert.NotNil(t, v)
	assert.Empty(t, v)
}

func TestPrepareStopwordsOnly(t *testing.T) {
	e := NewEmbedder()
	require.ErrorIs(t, e.Prepare([]string{"the a an"}), errNoTerms)
	_, err := e.Embed(context.Background(), "cats")
	require.ErrorIs(t, err, errNotPrepared)
}

func TestPrepareReplacesVocabulary(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare([]string{"cats sleep", "cats purr"}))
	assert.Equal(t, 3, e.Dimension())

	require.NoError(t, e.Prepare([]string{"dogs bark"}))
	assert.Equal(t, 2, e.Dimension())
	v, err := e.Embed(context.Background(), "cats sleep")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, v)

	require.Error(t, e.Prepare([]string{"of the"}))
	assert.Equal(t, 2, e.Dimension(), "failed prepare keeps the previous fit")
}

func TestEmbedNormalizedAndStable(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare([]string{"Cats sleep 16 hours.", "Dogs bark loudly."}))
	assert.Greater(t, e.Dimension(), 0)

	v1, err := e.Embed(context.Background(), "cats sleep")
	require.NoError(t, err)
	v2, err := e.Embed(context.Background(), "Cats SLEEP")
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
	assert.Len(t, v1, e.Dimension())

	var norm float64
	for _, x := range v1 {
		norm += x * x
	}
	assert.InDelta(t, 1.0, norm, 1e-9)
}

func TestEmbedUnknownTermsIsZeroVector(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare([]string{"cats sleep"}))
	v, err := e.Embed(context.Background(), "quantum chromodynamics")
	require.NoError(t, err)
	for _, x := range v {
		assert.Zero(t, x)
	}
}
