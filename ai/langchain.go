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


package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/docrag/core"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
)

// LangchainEmbedder adapts a langchaingo embedder to Embedder. Both backends
// build one around their own client.
type LangchainEmbedder struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

// NewLangchainEmbedder wraps embedder. component names the backend in logs.
func NewLangchainEmbedder(embedder embeddings.Embedder, component string) *LangchainEmbedder {
	return &LangchainEmbedder{
		embedder: embedder,
		logger:   slog.Default().With("component", component),
	}
}

// EmbedText embeds a single text.
func (e *LangchainEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))

	vector, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, err
	}
	return vector, nil
}

// EmbedTexts embeds texts in one batch. A backend answering with a different
// number of vectors is an error, since callers pair vectors with inputs by
// position.
func (e *LangchainEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding backend returned %d vectors for %d texts", len(vectors), len(texts))
	}
	return vectors, nil
}

// LangchainGenerator adapts a langchaingo model to Generator.
type LangchainGenerator struct {
	model       llms.Model
	temperature float64
	logger      *slog.Logger
}

// NewLangchainGenerator wraps model. component names the backend in logs.
func NewLangchainGenerator(model llms.Model, temperature float64, component string) *LangchainGenerator {
	return &LangchainGenerator{
		model:       model,
		temperature: temperature,
		logger:      slog.Default().With("component", component),
	}
}

// Generate sends prompt as a single human message and returns the first
// choice. Failures come back as *core.GenerationError and are not retried.
func (g *LangchainGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("generating completion", "prompt_length", len(prompt))

	response, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt, llms.WithTemperature(g.temperature))
	if err != nil {
		g.logger.Error("failed to generate completion", "err", err)
		return "", &core.GenerationError{Err: err}
	}
	return response, nil
}
