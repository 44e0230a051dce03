package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factrag/internal/config"
	"factrag/internal/logging"
)

func TestNew(t *testing.T) {
	for _, typ := range []string{"", "ollama", "openai", "tfidf"} {
		emb, err := New(config.EmbedderConfig{Type: typ, TimeoutSecs: 1}, logging.Nop())
		require.NoError(t, err, typ)
		if typ == "" {
			typ = "ollama"
		}
		assert.Equal(t, typ, emb.Name())
	}

	_, err := New(config.EmbedderConfig{Type: "word2vec"}, logging.Nop())
	require.Error(t, err)
}
