package reembed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/docrag/ai/mock"
	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastBackoff = Backoff{Attempts: 3, BaseDelay: time.Millisecond}

func TestBatchProcessor_Process(t *testing.T) {
	ctx := context.Background()
	index := setupTestIndex(t, 3)
	entries := allEntries(t, index)

	processor := NewBatchProcessor(index, unnormalizedEmbedder(), fastBackoff)
	require.NoError(t, processor.Process(ctx, entries))

	updated := allEntries(t, index)
	require.Len(t, updated, 3)
	for n, entry := range updated {
		assert.Equal(t, entries[n].ID, entry.ID)
		assert.Equal(t, entries[n].Content, entry.Content)
		assert.InDeltaSlice(t, []float32{1.0 / 3, 2.0 / 3, 2.0 / 3}, entry.Vector, 1e-6)
	}
}

func TestBatchProcessor_EmptyBatch(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	processor := NewBatchProcessor(setupTestIndex(t, 0), embedder, fastBackoff)

	require.NoError(t, processor.Process(context.Background(), nil))
	assert.Zero(t, embedder.CallCount())
}

func TestBatchProcessor_Retry(t *testing.T) {
	ctx := context.Background()
	index := setupTestIndex(t, 2)

	embedder := unnormalizedEmbedder()
	succeed := embedder.EmbedTextsFunc
	calls := 0
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("temporarily unavailable")
		}
		return succeed(ctx, texts)
	}

	processor := NewBatchProcessor(index, embedder, fastBackoff)
	require.NoError(t, processor.Process(ctx, allEntries(t, index)))
	assert.Equal(t, 3, calls)
}

func TestBatchProcessor_EmbeddingError(t *testing.T) {
	ctx := context.Background()
	index := setupTestIndex(t, 2)
	before := allEntries(t, index)

	embedder := mock.NewMockEmbedder()
	boom := errors.New("model missing")
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, boom
	}

	processor := NewBatchProcessor(index, embedder, fastBackoff)
	err := processor.Process(ctx, allEntries(t, index))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, embedder.CallCount(), "all attempts used")
	assert.Equal(t, before, allEntries(t, index), "entries untouched")
}

func TestBatchProcessor_CountMismatch(t *testing.T) {
	index := setupTestIndex(t, 2)
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1}}, nil
	}

	processor := NewBatchProcessor(index, embedder, fastBackoff)
	err := processor.Process(context.Background(), allEntries(t, index))
	assert.ErrorIs(t, err, ErrEmbeddingCount)
}

func TestBatchProcessor_UnknownEntry(t *testing.T) {
	index := setupTestIndex(t, 0)
	processor := NewBatchProcessor(index, unnormalizedEmbedder(), fastBackoff)

	err := processor.Process(context.Background(), []*core.IndexEntry{{ID: "ghost", Content: "boo"}})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
