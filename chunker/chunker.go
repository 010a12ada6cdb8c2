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


package chunker

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/poiesic/docrag/core"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	// DefaultMaxSize is the default maximum chunk length in characters.
	DefaultMaxSize = 800

	// DefaultOverlap is the default number of characters shared by consecutive chunks.
	DefaultOverlap = 80
)

// Separators are tried in order; the empty separator falls back to hard character cuts.
var Separators = []string{"\n\n", "\n", " ", ""}

var (
	ErrInvalidMaxSize = errors.New("max size must be positive")
	ErrInvalidOverlap = errors.New("overlap must be non-negative and smaller than max size")
)

// Chunker splits documents into bounded, overlapping text windows.
type Chunker struct {
	maxSize  int
	overlap  int
	splitter textsplitter.RecursiveCharacter
}

// New returns a Chunker producing chunks of at most maxSize characters with
// overlap characters repeated between neighbours.
func New(maxSize, overlap int) (*Chunker, error) {
	if maxSize <= 0 {
		return nil, &core.ConfigError{Field: "chunking.size", Err: ErrInvalidMaxSize}
	}
	if overlap < 0 || overlap >= maxSize {
		return nil, &core.ConfigError{
			Field: "chunking.overlap",
			Err:   fmt.Errorf("%w: overlap=%d size=%d", ErrInvalidOverlap, overlap, maxSize),
		}
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(maxSize),
		textsplitter.WithChunkOverlap(overlap),
		textsplitter.WithSeparators(Separators),
		textsplitter.WithLenFunc(utf8.RuneCountInString),
	)

	return &Chunker{
		maxSize:  maxSize,
		overlap:  overlap,
		splitter: splitter,
	}, nil
}

// NewDefault returns a Chunker using DefaultMaxSize and DefaultOverlap.
func NewDefault() *Chunker {
	c, _ := New(DefaultMaxSize, DefaultOverlap)
	return c
}

// MaxSize returns the configured maximum chunk length.
func (c *Chunker) MaxSize() int {
	return c.maxSize
}

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split breaks each document into chunks, preserving document order and the
// order of chunks within a document. Every chunk inherits its document's
// source and page. Documents without text yield no chunks.
func (c *Chunker) Split(documents []core.Document) ([]core.Chunk, error) {
	var chunks []core.Chunk

	for n := range documents {
		doc := &documents[n]
		if err := core.ValidateDocument(doc); err != nil {
			return nil, &core.ConfigError{Field: fmt.Sprintf("documents[%d]", n), Err: err}
		}
		if doc.Content == "" {
			continue
		}

		parts, err := c.splitter.SplitText(doc.Content)
		if err != nil {
			return nil, fmt.Errorf("splitting %s page %d: %w", doc.Source, doc.Page, err)
		}

		for _, part := range c.bound(parts) {
			chunks = append(chunks, core.Chunk{
				Content: part,
				Metadata: core.ChunkMetadata{
					Source: doc.Source,
					Page:   doc.Page,
				},
			})
		}
	}

	return chunks, nil
}

// bound drops empty parts and cuts any part longer than maxSize. The merge
// step can exceed the limit by a separator's length when it joins a large
// remainder with the next split. A cut lands on the last whitespace inside
// the window when there is one, and the continuation restarts up to overlap
// characters earlier, on a word boundary where possible.
func (c *Chunker) bound(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if utf8.RuneCountInString(part) <= c.maxSize {
			if part != "" {
				out = append(out, part)
			}
			continue
		}

		runes := []rune(part)
		for len(runes) > c.maxSize {
			cut := c.maxSize
			for i := c.maxSize; i > c.overlap; i-- {
				if unicode.IsSpace(runes[i]) {
					cut = i
					break
				}
			}
			if head := strings.TrimRightFunc(string(runes[:cut]), unicode.IsSpace); head != "" {
				out = append(out, head)
			}

			start := cut - c.overlap
			for j := start; j < cut; j++ {
				if unicode.IsSpace(runes[j]) {
					start = j + 1
					break
				}
			}
			runes = []rune(strings.TrimLeftFunc(string(runes[start:]), unicode.IsSpace))
		}
		if len(runes) > 0 {
			out = append(out, string(runes))
		}
	}
	return out
}
