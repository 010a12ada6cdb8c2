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
	"log/slog"

	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/storage"
)

// DocumentLoader produces the page documents to ingest.
type DocumentLoader interface {
	Load(ctx context.Context) ([]core.Document, error)
}

// Splitter breaks documents into chunks, preserving document order.
type Splitter interface {
	Split(documents []core.Document) ([]core.Chunk, error)
}

// Pipeline orchestrates loading, splitting, identifying and writing chunks.
type Pipeline struct {
	loader   DocumentLoader
	splitter Splitter
	index    storage.Index
	idMode   core.IDMode
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithIDMode selects how chunk ids are derived.
// Default is core.IDModePositional.
func WithIDMode(mode core.IDMode) Option {
	return func(p *Pipeline) error {
		switch mode {
		case "":
			mode = core.IDModePositional
		case core.IDModePositional, core.IDModeContent:
		default:
			return &core.ConfigError{Field: "id_mode", Err: core.ErrUnknownIDMode}
		}
		p.idMode = mode
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(loader DocumentLoader, splitter Splitter, index storage.Index, opts ...Option) (*Pipeline, error) {
	if loader == nil {
		return nil, ErrLoaderRequired
	}
	if splitter == nil {
		return nil, ErrSplitterRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}

	p := &Pipeline{
		loader:   loader,
		splitter: splitter,
		index:    index,
		idMode:   core.IDModePositional,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// RunOptions holds optional parameters for a run.
type RunOptions struct {
	// Reset clears the index before writing, so every chunk is added again.
	Reset bool
}

// RunResult summarizes a completed run.
type RunResult struct {
	Documents int
	Chunks    int
	WriteResult
}

// Run executes the pipeline once. Loading, splitting and id assignment all
// happen before the index is touched, so a configuration or load failure
// leaves the index as it was even when opts.Reset is set.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	docs, err := p.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	p.logger.Info("loaded documents", "count", len(docs))

	chunks, err := p.splitter.Split(docs)
	if err != nil {
		return nil, err
	}
	p.logger.Info("split documents", "chunks", len(chunks))

	chunks, err = core.AssignIDsWithMode(chunks, p.idMode)
	if err != nil {
		return nil, err
	}

	if opts.Reset {
		p.logger.Info("clearing index")
		if err := p.index.Reset(ctx); err != nil {
			return nil, err
		}
	}

	written, err := addNew(ctx, p.index, chunks, p.logger)
	result := &RunResult{
		Documents:   len(docs),
		Chunks:      len(chunks),
		WriteResult: written,
	}
	if err != nil {
		return result, err
	}

	p.logger.Info("ingestion complete",
		"documents", result.Documents,
		"chunks", result.Chunks,
		"added", result.Added,
		"skipped", result.Skipped)
	return result, nil
}
