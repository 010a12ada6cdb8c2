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
	"io"
	"time"

	"github.com/poiesic/docrag/ai"
	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of entries embedded per call
	BatchSize int

	// ReportInterval is how often to report progress (number of entries)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per batch
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	if c == nil {
		return defaults
	}
	out := *c
	if out.BatchSize <= 0 {
		out.BatchSize = defaults.BatchSize
	}
	if out.ReportInterval <= 0 {
		out.ReportInterval = defaults.ReportInterval
	}
	if out.MaxRetries <= 0 {
		out.MaxRetries = defaults.MaxRetries
	}
	if out.RetryDelay < 0 {
		out.RetryDelay = defaults.RetryDelay
	}
	return &out
}

// Reembedder rebuilds every vector in an index with a given embedder.
type Reembedder struct {
	index     storage.Index
	model     string
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *EntryIterator
}

// NewReembedder creates a new reembedder. model is recorded as the index's
// embedding model once every entry has been rebuilt. Progress is written
// to progress, typically os.Stderr.
func NewReembedder(index storage.Index, embedder ai.Embedder, model string, config *Config, progress io.Writer) (*Reembedder, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if progress == nil {
		progress = io.Discard
	}
	config = config.withDefaults()

	backoff := Backoff{Attempts: config.MaxRetries, BaseDelay: config.RetryDelay}

	return &Reembedder{
		index:     index,
		model:     model,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(index, embedder, backoff),
		iterator:  NewEntryIterator(index, config.BatchSize),
	}, nil
}

// Run re-embeds every entry in the index. If any batch fails the error is
// returned, batches already written keep their new vectors, and the
// recorded model is left unchanged so the run can be repeated.
func (r *Reembedder) Run(ctx context.Context) error {
	total, err := r.index.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count entries: %w", err)
	}

	if total == 0 {
		fmt.Fprintf(r.progress, "No entries found in index (0 entries)\n")
		return r.recordModel(ctx)
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d entries (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval, "entries")
	tracker.Start()

	err = r.iterator.ForEach(ctx, func(batch []*core.IndexEntry) error {
		if err := r.processor.Process(ctx, batch); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		tracker.Add(len(batch))
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()
	if err := r.recordModel(ctx); err != nil {
		return err
	}

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d entries in %v (%.1f entries/sec)\n",
		tracker.Current(), elapsed.Round(time.Millisecond), float64(tracker.Current())/max(elapsed.Seconds(), 1e-9))

	return nil
}

func (r *Reembedder) recordModel(ctx context.Context) error {
	if r.model == "" {
		return nil
	}
	if err := r.index.SetEmbeddingModel(ctx, r.model); err != nil {
		return fmt.Errorf("failed to record embedding model: %w", err)
	}
	return nil
}
