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


// Package config loads docrag settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/poiesic/docrag/ai"
	"github.com/poiesic/docrag/chunker"
	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/search"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultDataPath is the directory scanned for PDF files.
	DefaultDataPath = "data"

	// DefaultIndexPath is the directory holding the persistent index.
	DefaultIndexPath = "db"
)

// ChunkingConfig controls how pages are split.
type ChunkingConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// RetrievalConfig controls how much context a query retrieves.
type RetrievalConfig struct {
	K int `yaml:"k"`
}

// Config is the root configuration.
type Config struct {
	DataPath  string          `yaml:"data_path"`
	IndexPath string          `yaml:"index_path"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	IDMode    core.IDMode     `yaml:"id_mode"`
	AI        ai.Config       `yaml:"ai"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataPath:  DefaultDataPath,
		IndexPath: DefaultIndexPath,
		Chunking: ChunkingConfig{
			Size:    chunker.DefaultMaxSize,
			Overlap: chunker.DefaultOverlap,
		},
		Retrieval: RetrievalConfig{K: search.DefaultK},
		IDMode:    core.IDModePositional,
		AI:        *ai.DefaultConfig(),
	}
}

// Load reads a config from path and applies environment overrides. An
// empty path, or a file that does not exist, yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, &core.ConfigError{Field: path, Err: err}
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(cfg)
	return cfg, nil
}

// Save writes the config to path, creating directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate reports the first invalid setting as a *core.ConfigError.
func (c *Config) Validate() error {
	if c.DataPath == "" {
		return &core.ConfigError{Field: "data_path", Err: errors.New("required")}
	}
	if c.IndexPath == "" {
		return &core.ConfigError{Field: "index_path", Err: errors.New("required")}
	}
	if c.Chunking.Size <= 0 {
		return &core.ConfigError{Field: "chunking.size", Err: chunker.ErrInvalidMaxSize}
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return &core.ConfigError{
			Field: "chunking.overlap",
			Err:   fmt.Errorf("%w: overlap=%d size=%d", chunker.ErrInvalidOverlap, c.Chunking.Overlap, c.Chunking.Size),
		}
	}
	if c.Retrieval.K <= 0 {
		return &core.ConfigError{Field: "retrieval.k", Err: errors.New("must be positive")}
	}
	switch c.IDMode {
	case "", core.IDModePositional, core.IDModeContent:
	default:
		return &core.ConfigError{Field: "id_mode", Err: fmt.Errorf("%w %q", core.ErrUnknownIDMode, c.IDMode)}
	}
	if err := c.AI.Validate(); err != nil {
		return &core.ConfigError{Field: "ai", Err: err}
	}
	return nil
}

func applyConfigDefaults(cfg *Config) {
	if cfg.DataPath == "" {
		cfg.DataPath = DefaultDataPath
	}
	if cfg.IndexPath == "" {
		cfg.IndexPath = DefaultIndexPath
	}
	if cfg.Chunking.Size == 0 {
		cfg.Chunking.Size = chunker.DefaultMaxSize
	}
	if cfg.Retrieval.K == 0 {
		cfg.Retrieval.K = search.DefaultK
	}
	if cfg.IDMode == "" {
		cfg.IDMode = core.IDModePositional
	}
	cfg.AI.Normalize()
}

// applyEnv overrides settings from DOCRAG_* environment variables.
func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"DOCRAG_DATA_PATH":        &cfg.DataPath,
		"DOCRAG_INDEX_PATH":       &cfg.IndexPath,
		"DOCRAG_AI_BACKEND":       &cfg.AI.Backend,
		"DOCRAG_EMBEDDING_HOST":   &cfg.AI.EmbeddingHost,
		"DOCRAG_GENERATION_HOST":  &cfg.AI.GenerationHost,
		"DOCRAG_EMBEDDING_MODEL":  &cfg.AI.EmbeddingModel,
		"DOCRAG_GENERATION_MODEL": &cfg.AI.GenerationModel,
		"DOCRAG_API_KEY":          &cfg.AI.APIKey,
	}
	for name, field := range strs {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}

	if v := os.Getenv("DOCRAG_HOST"); v != "" {
		cfg.AI.EmbeddingHost = v
		cfg.AI.GenerationHost = v
	}
	if v := os.Getenv("DOCRAG_ID_MODE"); v != "" {
		cfg.IDMode = core.IDMode(v)
	}

	ints := map[string]*int{
		"DOCRAG_CHUNK_SIZE":    &cfg.Chunking.Size,
		"DOCRAG_CHUNK_OVERLAP": &cfg.Chunking.Overlap,
		"DOCRAG_K":             &cfg.Retrieval.K,
	}
	for name, field := range ints {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return &core.ConfigError{Field: name, Err: err}
		}
		*field = n
	}

	if v := os.Getenv("DOCRAG_TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return &core.ConfigError{Field: "DOCRAG_TEMPERATURE", Err: err}
		}
		cfg.AI.Temperature = t
	}
	return nil
}
