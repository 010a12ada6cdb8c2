package ollama

import (
	"testing"

	"github.com/poiesic/docrag/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	cfg := ai.NewConfig(ai.WithBackend(ai.BackendOllama))

	provider, err := NewProvider(cfg)
	require.NoError(t, err)
	defer provider.Close()

	assert.NotNil(t, provider.Embedder())
	assert.NotNil(t, provider.Generator())
	assert.Equal(t, cfg.EmbeddingModel, provider.EmbeddingModel())
	assert.Equal(t, "http://localhost:11434", cfg.GenerationHost)
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	_, err := NewProvider(ai.NewConfig(ai.WithBackend(ai.BackendOllama), ai.WithEmbeddingModel("")))
	assert.Error(t, err)
}
