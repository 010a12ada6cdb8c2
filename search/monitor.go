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
	"log/slog"

	"github.com/poiesic/docrag/core"
)

// QueryMonitor provides hooks to observe the query process.
// Implement this interface to track intermediate steps and results.
type QueryMonitor interface {
	Start(query string)
	AfterRetrieval(results []core.SearchResult)
	AfterAssembly(prompt string)
	Finish(answer *Answer)
}

// noopMonitor is a no-op implementation of QueryMonitor
type noopMonitor struct{}

var _ QueryMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                      {}
func (n *noopMonitor) AfterRetrieval(_ []core.SearchResult) {}
func (n *noopMonitor) AfterAssembly(_ string)               {}
func (n *noopMonitor) Finish(_ *Answer)                     {}

// LogMonitor reports each query step to a logger at debug level.
type LogMonitor struct {
	logger *slog.Logger
}

var _ QueryMonitor = (*LogMonitor)(nil)

// NewLogMonitor creates a LogMonitor. A nil logger uses slog.Default().
func NewLogMonitor(logger *slog.Logger) *LogMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMonitor{logger: logger}
}

func (m *LogMonitor) Start(query string) {
	m.logger.Debug("query started", "query", query)
}

func (m *LogMonitor) AfterRetrieval(results []core.SearchResult) {
	for rank, result := range results {
		m.logger.Debug("retrieved chunk", "rank", rank+1, "id", result.Chunk.Metadata.ID, "score", result.Score)
	}
}

func (m *LogMonitor) AfterAssembly(prompt string) {
	m.logger.Debug("prompt assembled", "length", len(prompt))
}

func (m *LogMonitor) Finish(answer *Answer) {
	m.logger.Debug("query finished", "sources", SourceIDs(answer.Results))
}
