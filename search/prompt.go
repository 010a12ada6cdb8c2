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
	"strings"

	"github.com/poiesic/docrag/core"
)

// ContextDelimiter separates chunk contents in the assembled context.
const ContextDelimiter = "\n\n---\n\n"

// PromptTemplate has two slots: the joined context, then the question.
const PromptTemplate = `
Answer the question based only on the following context:

{context}

---

Answer the question based on the above context: {question}
`

// Assemble builds the generation prompt from retrieval results. Contents
// are joined in the order given; nothing is deduplicated, reordered or
// truncated. No results give an empty context section.
func Assemble(results []core.SearchResult, queryText string) string {
	contents := make([]string, len(results))
	for n, result := range results {
		contents[n] = result.Chunk.Content
	}

	r := strings.NewReplacer(
		"{context}", strings.Join(contents, ContextDelimiter),
		"{question}", queryText,
	)
	return r.Replace(PromptTemplate)
}

// FormatSources renders the id and content of each result, in order.
func FormatSources(results []core.SearchResult) string {
	blocks := make([]string, len(results))
	for n, result := range results {
		blocks[n] = "ID: " + result.Chunk.Metadata.ID + "\n\nContent:\n" + result.Chunk.Content
	}
	return strings.Join(blocks, "\n\n")
}

// SourceIDs returns the chunk ids of results, in order.
func SourceIDs(results []core.SearchResult) []string {
	ids := make([]string, len(results))
	for n, result := range results {
		ids[n] = result.Chunk.Metadata.ID
	}
	return ids
}
