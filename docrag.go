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


package docrag

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/docrag/ai"
	"github.com/poiesic/docrag/ai/ollama"
	"github.com/poiesic/docrag/ai/openai"
	"github.com/poiesic/docrag/chunker"
	"github.com/poiesic/docrag/config"
	"github.com/poiesic/docrag/ingestion"
	"github.com/poiesic/docrag/loader"
	"github.com/poiesic/docrag/reembed"
	"github.com/poiesic/docrag/search"
	"github.com/poiesic/docrag/storage"
	"github.com/poiesic/docrag/storage/badger"
)

// Database ties a persistent index to the AI services that fill and query it.
type Database struct {
	backend  *badger.Backend
	index    storage.Index
	provider ai.AIProvider
	config   *config.Config
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	provider ai.AIProvider
	inMemory bool
	reset    bool
	logger   *slog.Logger
}

// WithProvider uses provider instead of building one from the AI config.
// The Database takes ownership and closes it.
func WithProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithInMemory keeps the index in memory and ignores IndexPath.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithReset deletes the store directory before opening it. Open refuses to
// delete anything while the configured data directory is missing.
func WithReset() DatabaseOption {
	return func(o *databaseOptions) {
		o.reset = true
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

// NewProvider builds the AI provider selected by cfg.Backend.
func NewProvider(cfg *ai.Config) (ai.AIProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case ai.BackendOllama:
		return ollama.NewProvider(cfg)
	case ai.BackendOpenAI:
		return openai.NewProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown ai backend %q", cfg.Backend)
	}
}

// Open validates cfg and opens the index it describes. A nil cfg uses
// config.Default().
func Open(cfg *config.Config, opts ...DatabaseOption) (*Database, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &databaseOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	provider := options.provider
	if provider == nil {
		var err error
		provider, err = NewProvider(&cfg.AI)
		if err != nil {
			return nil, err
		}
	}

	if options.reset && !options.inMemory {
		// The store is only removed once there is input to rebuild it from.
		if _, err := loader.NewPDFDirectory(cfg.DataPath).Files(); err != nil {
			provider.Close()
			return nil, err
		}
		options.logger.Info("removing index store", "path", cfg.IndexPath)
		if err := badger.DestroyStore(cfg.IndexPath); err != nil {
			provider.Close()
			return nil, err
		}
	}

	backend, err := badger.OpenBackend(cfg.IndexPath, options.inMemory)
	if err != nil {
		provider.Close()
		return nil, err
	}

	index, err := badger.NewIndex(backend, provider.Embedder(), provider.EmbeddingModel())
	if err != nil {
		backend.Close()
		provider.Close()
		return nil, err
	}

	return &Database{
		backend:  backend,
		index:    index,
		provider: provider,
		config:   cfg,
		logger:   options.logger,
	}, nil
}

// Close releases the provider, the index and the store, in that order.
func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.index.Close(); err != nil {
		db.logger.Error("error closing index", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Index returns the underlying index.
func (db *Database) Index() storage.Index {
	return db.index
}

// Provider returns the AI provider.
func (db *Database) Provider() ai.AIProvider {
	return db.provider
}

// Config returns the validated configuration.
func (db *Database) Config() *config.Config {
	return db.config
}

// NewIngestionPipeline builds a pipeline that reads PDFs from the
// configured data directory. Options are applied after the configured
// id mode and logger.
func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	splitter, err := chunker.New(db.config.Chunking.Size, db.config.Chunking.Overlap)
	if err != nil {
		return nil, err
	}
	src := loader.NewPDFDirectory(db.config.DataPath, loader.WithLogger(db.logger))

	opts = append([]ingestion.Option{
		ingestion.WithIDMode(db.config.IDMode),
		ingestion.WithLogger(db.logger),
	}, opts...)
	return ingestion.NewPipeline(src, splitter, db.index, opts...)
}

// NewQueryService builds a query service using the configured k.
// Options are applied after the configured k and logger.
func (db *Database) NewQueryService(opts ...search.Option) (*search.QueryService, error) {
	opts = append([]search.Option{
		search.WithK(db.config.Retrieval.K),
		search.WithLogger(db.logger),
	}, opts...)
	return search.NewQueryService(db.index, db.provider.Generator(), opts...)
}

// NewReembedder builds a reembedder that rebuilds every vector with the
// provider's embedder and records its model name.
func (db *Database) NewReembedder(cfg *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(db.index, db.provider.Embedder(), db.provider.EmbeddingModel(), cfg, progress)
}
