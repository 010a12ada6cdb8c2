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


package search

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/docrag/ai"
	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/storage"
)

// Answer is the outcome of a query.
type Answer struct {
	// Response is the generated text.
	Response string
	// Prompt is the exact prompt sent to the generator.
	Prompt string
	// Results are the retrieved chunks, best first.
	Results []core.SearchResult
}

// QueryService answers questions by retrieving context from an index and
// passing it to a generator.
type QueryService struct {
	index     storage.VectorSearcher
	generator ai.Generator
	k         int
	logger    *slog.Logger
}

// Option configures a QueryService.
type Option func(*QueryService) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *QueryService) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithK sets how many chunks are retrieved per query.
// Values below 1 select DefaultK.
func WithK(k int) Option {
	return func(s *QueryService) error {
		if k <= 0 {
			k = DefaultK
		}
		s.k = k
		return nil
	}
}

// NewQueryService creates a new query service.
func NewQueryService(index storage.VectorSearcher, generator ai.Generator, opts ...Option) (*QueryService, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	s := &QueryService{
		index:     index,
		generator: generator,
		k:         DefaultK,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// K returns the number of chunks retrieved per query.
func (s *QueryService) K() int {
	return s.k
}

// Query retrieves context for queryText and generates an answer.
func (s *QueryService) Query(ctx context.Context, queryText string) (*Answer, error) {
	return s.QueryWithMonitor(ctx, queryText, nil)
}

// QueryWithMonitor is Query with a monitor that receives callbacks at each
// step. Index and embedding errors are returned unchanged; generator
// failures are returned as *core.GenerationError. Generation is attempted
// exactly once.
func (s *QueryService) QueryWithMonitor(ctx context.Context, queryText string, monitor QueryMonitor) (*Answer, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(queryText)

	results, err := Retrieve(ctx, s.index, queryText, s.k)
	if err != nil {
		s.logger.Error("error retrieving context", "err", err)
		return nil, err
	}
	monitor.AfterRetrieval(results)

	prompt := Assemble(results, queryText)
	monitor.AfterAssembly(prompt)

	response, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("error generating response", "err", err)
		var genErr *core.GenerationError
		if !errors.As(err, &genErr) {
			err = &core.GenerationError{Err: err}
		}
		return nil, err
	}

	answer := &Answer{
		Response: response,
		Prompt:   prompt,
		Results:  results,
	}
	monitor.Finish(answer)

	return answer, nil
}
