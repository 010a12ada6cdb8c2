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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/storage"
)

// WriteResult counts the outcome of an incremental write.
type WriteResult struct {
	// Added is the number of chunks written to the index.
	Added int
	// Skipped is the number of chunks whose id was already present.
	Skipped int
}

// AddNew writes the chunks whose ids are not already in the index and
// skips the rest. The index embeds the new chunks as part of the write.
//
// A failed write is returned as *core.IndexWriteError; nothing from the
// batch is persisted in that case and Added is zero.
func AddNew(ctx context.Context, index storage.Index, chunks []core.Chunk) (WriteResult, error) {
	return addNew(ctx, index, chunks, slog.Default())
}

func addNew(ctx context.Context, index storage.Index, chunks []core.Chunk, logger *slog.Logger) (WriteResult, error) {
	var result WriteResult
	if index == nil {
		return result, ErrIndexRequired
	}

	for n := range chunks {
		if chunks[n].Metadata.ID == "" {
			return result, &core.ConfigError{Field: fmt.Sprintf("chunks[%d].id", n), Err: core.ErrMissingMetadata}
		}
	}

	existing, err := index.IDs(ctx)
	if err != nil {
		return result, fmt.Errorf("reading existing ids: %w", err)
	}
	logger.Info("existing documents in index", "count", len(existing))

	fresh := make([]core.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		if _, ok := existing[chunk.Metadata.ID]; ok {
			result.Skipped++
			continue
		}
		// Mark as seen so a repeated id within the batch is written once.
		existing[chunk.Metadata.ID] = struct{}{}
		fresh = append(fresh, chunk)
	}

	if len(fresh) == 0 {
		logger.Info("no new documents to add")
		return result, nil
	}

	logger.Info("adding new documents", "count", len(fresh))
	if err := index.Add(ctx, fresh); err != nil {
		logger.Error("index write failed", "attempted", len(fresh), "err", err)
		return result, &core.IndexWriteError{Attempted: len(fresh), Err: err}
	}
	if err := index.Persist(ctx); err != nil {
		logger.Error("index persist failed", "attempted", len(fresh), "err", err)
		return result, &core.IndexWriteError{Attempted: len(fresh), Err: err}
	}

	result.Added = len(fresh)
	return result, nil
}

// ResetIndex deletes every entry in the index.
func ResetIndex(ctx context.Context, index storage.Writer) error {
	if index == nil {
		return ErrIndexRequired
	}
	slog.Default().Info("clearing index")
	return index.Reset(ctx)
}
