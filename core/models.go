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


package core

import (
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// Document is a single page of a source file as produced by a loader.
type Document struct {
	Source  string // Path of the source file
	Page    int    // Zero-based page index
	Content string // Raw extracted text
}

// ChunkMetadata carries provenance for a chunk.
type ChunkMetadata struct {
	Source string
	Page   int
	ID     string // Populated by AssignIDs or AssignContentIDs
}

// Chunk is a bounded window of a Document's content.
type Chunk struct {
	Content  string
	Metadata ChunkMetadata
}

// IndexEntry is a chunk as persisted in the vector index.
type IndexEntry struct {
	ID      string
	Content string
	Source  string
	Page    int
	Vector  []float32
}

// Chunk converts the entry back into a Chunk.
func (e *IndexEntry) Chunk() Chunk {
	return Chunk{
		Content: e.Content,
		Metadata: ChunkMetadata{
			Source: e.Source,
			Page:   e.Page,
			ID:     e.ID,
		},
	}
}

// SearchResult pairs a retrieved chunk with its similarity score.
// Higher scores are better matches.
type SearchResult struct {
	Chunk Chunk
	Score float32
}

// IDMode selects how chunk identifiers are derived.
type IDMode string

const (
	// IDModePositional derives ids from (source, page, position). This is the default.
	IDModePositional IDMode = "positional"
	// IDModeContent derives ids from (source, page, content hash).
	IDModeContent IDMode = "content"
)

// ContentDigest returns a 64-bit BLAKE2b digest of text as 16 hex characters.
func ContentDigest(text string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
