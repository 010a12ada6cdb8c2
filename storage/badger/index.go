// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docrag/ai"
	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/storage"
)

// Index implements storage.Index on top of BadgerDB.
// Vectors are stored alongside content and searched by brute force.
type Index struct {
	backend  *Backend
	embedder ai.Embedder
	modelMu  sync.RWMutex
	model    string
	closed   atomic.Bool
	logger   *slog.Logger
}

var _ storage.Index = (*Index)(nil)

// NewIndex creates an index over backend that embeds with embedder.
// model names the embedding model; when non-empty it is recorded on first
// write and checked on every later write and query.
func NewIndex(backend *Backend, embedder ai.Embedder, model string) (storage.Index, error) {
	return newIndex(backend, embedder, model)
}

func newIndex(backend *Backend, embedder ai.Embedder, model string) (*Index, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	if embedder == nil {
		return nil, storage.ErrEmbedderRequired
	}
	return &Index{
		backend:  backend,
		embedder: embedder,
		model:    model,
		logger:   slog.Default().With("component", "badger-index"),
	}, nil
}

func (i *Index) checkOpen() error {
	if i.closed.Load() || i.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return nil
}

// IDs returns every stored chunk id using a key-only scan.
func (i *Index) IDs(ctx context.Context) (map[string]struct{}, error) {
	if err := i.checkOpen(); err != nil {
		return nil, err
	}

	ids := make(map[string]struct{})
	err := i.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			ids[idFromEntryKey(iter.Item().Key())] = struct{}{}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Count returns the number of stored entries.
func (i *Index) Count(ctx context.Context) (int, error) {
	ids, err := i.IDs(ctx)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Add embeds chunks and writes them in one transaction. A batch larger
// than the transaction limit fails with badger.ErrTxnTooBig.
func (i *Index) Add(ctx context.Context, chunks []core.Chunk) error {
	if err := i.checkOpen(); err != nil {
		return err
	}
	if len(chunks) == 0 {
		return nil
	}
	for _, chunk := range chunks {
		if chunk.Metadata.ID == "" {
			return storage.ErrMissingID
		}
	}

	stored, err := i.EmbeddingModel(ctx)
	if err != nil {
		return err
	}
	if err := i.matchModel(stored); err != nil {
		return err
	}
	model := i.currentModel()

	texts := make([]string, len(chunks))
	for n, chunk := range chunks {
		texts[n] = chunk.Content
	}
	vectors, err := i.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: expected %d, got %d", storage.ErrEmbeddingCount, len(chunks), len(vectors))
	}

	entries := make([]*core.IndexEntry, len(chunks))
	for n, chunk := range chunks {
		entries[n] = &core.IndexEntry{
			ID:      chunk.Metadata.ID,
			Content: chunk.Content,
			Source:  chunk.Metadata.Source,
			Page:    chunk.Metadata.Page,
			Vector:  vectors[n],
		}
	}

	err = i.backend.WithTx(func(tx *badger.Txn) error {
		if err := putEntries(tx, entries); err != nil {
			return err
		}
		if stored == "" && model != "" {
			if err := tx.Set([]byte(embeddingModelKey), []byte(model)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	i.logger.Debug("added entries", "count", len(entries))
	return nil
}

func putEntries(tx *badger.Txn, entries []*core.IndexEntry) error {
	for _, entry := range entries {
		value, err := storage.MarshalEntry(entry)
		if err != nil {
			return err
		}
		if err := tx.Set(makeEntryKey(entry.ID), value); err != nil {
			return err
		}
	}
	return nil
}

// matchModel fails when both the index and this handle name a model and
// the names differ.
func (i *Index) matchModel(stored string) error {
	model := i.currentModel()
	if stored == "" || model == "" || stored == model {
		return nil
	}
	return fmt.Errorf("%w: index built with %q, embedder is %q", storage.ErrEmbeddingMismatch, stored, model)
}

func (i *Index) currentModel() string {
	i.modelMu.RLock()
	defer i.modelMu.RUnlock()
	return i.model
}

// Persist flushes pending writes to disk.
func (i *Index) Persist(ctx context.Context) error {
	if err := i.checkOpen(); err != nil {
		return err
	}
	return i.backend.Sync()
}

// Reset deletes every entry and the recorded embedding model.
func (i *Index) Reset(ctx context.Context) error {
	if err := i.checkOpen(); err != nil {
		return err
	}
	i.logger.Info("dropping all index entries")
	return i.backend.DropAll()
}

// Query returns the k entries most similar to text, best first.
func (i *Index) Query(ctx context.Context, text string, k int) ([]core.SearchResult, error) {
	if err := i.checkOpen(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", storage.ErrInvalidQuery)
	}

	stored, err := i.EmbeddingModel(ctx)
	if err != nil {
		return nil, err
	}
	if err := i.matchModel(stored); err != nil {
		return nil, err
	}

	vector, err := i.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	return i.findSimilar(vector, k)
}

// findSimilar scans every entry and keeps the k best by cosine similarity.
func (i *Index) findSimilar(vector []float32, limit int) ([]core.SearchResult, error) {
	var results []core.SearchResult

	err := i.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entry *core.IndexEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalEntry(val)
				return err
			})
			if err != nil {
				return err
			}

			results = append(results, core.SearchResult{
				Chunk: entry.Chunk(),
				Score: cosineSimilarity(vector, entry.Vector),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending, then id ascending
	slices.SortFunc(results, func(a, b core.SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return strings.Compare(a.Chunk.Metadata.ID, b.Chunk.Metadata.ID)
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// cosineSimilarity returns the cosine of the angle between a and b over
// their common length. A zero vector scores 0.
func cosineSimilarity(a, b []float32) float32 {
	var dot, normA, normB float64
	minLen := min(len(a), len(b))
	for n := 0; n < minLen; n++ {
		dot += float64(a[n]) * float64(b[n])
		normA += float64(a[n]) * float64(a[n])
		normB += float64(b[n]) * float64(b[n])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// ForEachBatch loads every entry in id order and hands them to fn in batches.
func (i *Index) ForEachBatch(ctx context.Context, batchSize int, fn func([]*core.IndexEntry) error) error {
	if err := i.checkOpen(); err != nil {
		return err
	}
	if batchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive", storage.ErrInvalidQuery)
	}

	var entries []*core.IndexEntry
	err := i.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				entry, err := storage.UnmarshalEntry(val)
				if err != nil {
					return err
				}
				entries = append(entries, entry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return err
	}

	for start := 0; start < len(entries); start += batchSize {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		end := min(start+batchSize, len(entries))
		if err := fn(entries[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// UpdateEntries overwrites existing entries. Unknown ids return storage.ErrNotFound
// and nothing is written.
func (i *Index) UpdateEntries(ctx context.Context, entries []*core.IndexEntry) error {
	if err := i.checkOpen(); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	return i.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			if _, err := tx.Get(makeEntryKey(entry.ID)); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("%w: %s", storage.ErrNotFound, entry.ID)
				}
				return err
			}
		}
		if err := putEntries(tx, entries); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Close marks the index closed. The backend is closed by its owner.
func (i *Index) Close() error {
	i.closed.Store(true)
	return nil
}
