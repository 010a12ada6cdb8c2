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


package reembed

import (
	"context"
	"fmt"

	"github.com/poiesic/docrag/ai"
	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/storage"
)

// BatchProcessor re-embeds batches of index entries and writes them back.
type BatchProcessor struct {
	store    storage.EntryStore
	embedder ai.Embedder
	backoff  Backoff
}

// NewBatchProcessor creates a processor that retries embedding calls on
// the given schedule.
func NewBatchProcessor(store storage.EntryStore, embedder ai.Embedder, backoff Backoff) *BatchProcessor {
	return &BatchProcessor{
		store:    store,
		embedder: embedder,
		backoff:  backoff,
	}
}

// Process embeds the content of each entry, normalizes the vectors and
// updates the entries in place in the store. Ids, content and provenance
// are left untouched.
func (bp *BatchProcessor) Process(ctx context.Context, entries []*core.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	texts := make([]string, len(entries))
	for n, entry := range entries {
		texts[n] = entry.Content
	}

	var vectors [][]float32
	err := bp.backoff.Retry(ctx, func(ctx context.Context) error {
		var err error
		vectors, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	})
	if err != nil {
		return fmt.Errorf("embedding %d entries: %w", len(entries), err)
	}
	if len(vectors) != len(entries) {
		return fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCount, len(entries), len(vectors))
	}

	for n, entry := range entries {
		entry.Vector = NormalizeVector(vectors[n])
	}

	if err := bp.store.UpdateEntries(ctx, entries); err != nil {
		return fmt.Errorf("updating entries: %w", err)
	}
	return nil
}
