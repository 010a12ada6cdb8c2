package reembed

import (
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/docrag/ai/mock"
	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/storage"
	"github.com/poiesic/docrag/storage/badger"
	"github.com/stretchr/testify/require"
)

// setupTestIndex returns an index holding n chunks embedded with "model-a".
func setupTestIndex(t *testing.T, n int) storage.Index {
	t.Helper()
	index, backend, err := badger.NewMemoryIndex(mock.NewMockEmbedder(), "model-a")
	require.NoError(t, err)
	t.Cleanup(func() {
		index.Close()
		backend.Close()
	})

	if n == 0 {
		return index
	}
	chunks := make([]core.Chunk, n)
	for i := range chunks {
		chunks[i] = core.Chunk{
			Content:  fmt.Sprintf("entry %d", i),
			Metadata: core.ChunkMetadata{Source: "doc.pdf", Page: 0, ID: fmt.Sprintf("doc.pdf:0:%02d", i)},
		}
	}
	require.NoError(t, index.Add(context.Background(), chunks))
	return index
}

// unnormalizedEmbedder returns {1, 2, 2} (magnitude 3) for every text.
func unnormalizedEmbedder() *mock.MockEmbedder {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{1, 2, 2}
		}
		return out, nil
	}
	return embedder
}

func allEntries(t *testing.T, store storage.EntryStore) []*core.IndexEntry {
	t.Helper()
	var entries []*core.IndexEntry
	err := store.ForEachBatch(context.Background(), 1000, func(batch []*core.IndexEntry) error {
		entries = append(entries, batch...)
		return nil
	})
	require.NoError(t, err)
	return entries
}

func chunksFor(contents ...string) []core.Chunk {
	chunks := make([]core.Chunk, len(contents))
	for i, content := range contents {
		chunks[i] = core.Chunk{
			Content:  content,
			Metadata: core.ChunkMetadata{Source: "doc.pdf", Page: 0, ID: fmt.Sprintf("doc.pdf:0:%d", i)},
		}
	}
	return chunks
}
