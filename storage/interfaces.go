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


package storage

import (
	"context"

	"github.com/poiesic/docrag/core"
)

// IDReader exposes the id-only projection of an index.
type IDReader interface {
	// IDs returns the set of every chunk id currently stored.
	// Only keys are read; vectors and content are not fetched.
	IDs(ctx context.Context) (map[string]struct{}, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)
}

// Writer adds chunks to an index.
type Writer interface {
	// Add embeds the chunks with the index's own embedder and writes them
	// in a single batch. Either every chunk is written or none is.
	// Chunks must carry ids. An existing id is overwritten.
	// The batch size is bounded by the backend's transaction limit; the
	// badger index allows about 15% of its memtable (roughly 10 MB of
	// entries with default options, some tens of thousands of chunks) and
	// fails larger batches with badger.ErrTxnTooBig, writing nothing.
	Add(ctx context.Context, chunks []core.Chunk) error

	// Persist durably flushes pending writes.
	Persist(ctx context.Context) error

	// Reset removes every entry and the recorded embedding model.
	Reset(ctx context.Context) error
}

// VectorSearcher answers nearest-neighbour queries.
type VectorSearcher interface {
	// Query embeds text with the index's own embedder and returns up to k
	// entries ordered best-first by cosine similarity. Ties are broken by
	// id in ascending order. There is no minimum score.
	Query(ctx context.Context, text string, k int) ([]core.SearchResult, error)
}

// EntryStore gives bulk access to stored entries for maintenance tasks
// such as re-embedding.
type EntryStore interface {
	// ForEachBatch calls fn with entries in id order, batchSize at a time.
	// Iteration stops at the first error returned by fn.
	ForEachBatch(ctx context.Context, batchSize int, fn func([]*core.IndexEntry) error) error

	// UpdateEntries overwrites the given entries as stored.
	UpdateEntries(ctx context.Context, entries []*core.IndexEntry) error

	// EmbeddingModel returns the model recorded on first write, or "" if
	// the index is empty.
	EmbeddingModel(ctx context.Context) (string, error)

	// SetEmbeddingModel records model as the embedding space of the index.
	SetEmbeddingModel(ctx context.Context, model string) error
}

// Index is the persistent vector index shared by ingestion and querying.
// Implementations must be safe for concurrent readers. Concurrent writers
// from separate processes are not coordinated.
type Index interface {
	IDReader
	Writer
	VectorSearcher
	EntryStore

	// Close releases resources held by the index.
	Close() error
}
