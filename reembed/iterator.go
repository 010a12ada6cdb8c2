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

	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/storage"
)

// DefaultBatchSize is the default number of entries handed to each callback.
const DefaultBatchSize = 100

// EntryIterator walks every entry of an index in fixed-size batches.
type EntryIterator struct {
	store     storage.EntryStore
	batchSize int
}

// NewEntryIterator creates an iterator. A batchSize below 1 selects DefaultBatchSize.
func NewEntryIterator(store storage.EntryStore, batchSize int) *EntryIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &EntryIterator{
		store:     store,
		batchSize: batchSize,
	}
}

// BatchSize returns the number of entries per batch.
func (it *EntryIterator) BatchSize() int {
	return it.batchSize
}

// ForEach calls fn with consecutive batches of entries in id order,
// stopping at the first error.
func (it *EntryIterator) ForEach(ctx context.Context, fn func([]*core.IndexEntry) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return it.store.ForEachBatch(ctx, it.batchSize, fn)
}
