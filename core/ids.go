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
	"fmt"
	"strconv"
)

// PageID returns the "{source}:{page}" prefix shared by all chunks of a page.
func PageID(source string, page int) string {
	return source + ":" + strconv.Itoa(page)
}

// AssignIDs populates Metadata.ID for every chunk with "{source}:{page}:{index}",
// where index is the chunk's zero-based position within its page.
//
// The input must already be grouped by (source, page) in processing order.
// The sequence is never re-sorted: reordering changes the assigned ids.
// The index restarts at zero whenever the page differs from the previous chunk's.
//
// A chunk without a source is a configuration error since it means the
// loader upstream is broken. The input slice is not modified.
func AssignIDs(chunks []Chunk) ([]Chunk, error) {
	out := make([]Chunk, len(chunks))
	lastPageID := ""
	currentIndex := 0

	for i, chunk := range chunks {
		if chunk.Metadata.Source == "" {
			return nil, &ConfigError{
				Field: fmt.Sprintf("chunks[%d].source", i),
				Err:   ErrMissingMetadata,
			}
		}

		pageID := PageID(chunk.Metadata.Source, chunk.Metadata.Page)
		if i > 0 && pageID == lastPageID {
			currentIndex++
		} else {
			currentIndex = 0
		}
		lastPageID = pageID

		chunk.Metadata.ID = pageID + ":" + strconv.Itoa(currentIndex)
		out[i] = chunk
	}

	return out, nil
}

// AssignContentIDs populates Metadata.ID with "{source}:{page}:{digest}", where
// digest is ContentDigest of the chunk's content. Edited content yields a new
// id and is therefore re-embedded by incremental indexing. Identical chunks
// on the same page share an id.
func AssignContentIDs(chunks []Chunk) ([]Chunk, error) {
	out := make([]Chunk, len(chunks))
	for i, chunk := range chunks {
		if chunk.Metadata.Source == "" {
			return nil, &ConfigError{
				Field: fmt.Sprintf("chunks[%d].source", i),
				Err:   ErrMissingMetadata,
			}
		}
		chunk.Metadata.ID = PageID(chunk.Metadata.Source, chunk.Metadata.Page) + ":" + ContentDigest(chunk.Content)
		out[i] = chunk
	}
	return out, nil
}

// AssignIDsWithMode dispatches to the identifier selected by mode.
// An empty mode means IDModePositional.
func AssignIDsWithMode(chunks []Chunk, mode IDMode) ([]Chunk, error) {
	switch mode {
	case "", IDModePositional:
		return AssignIDs(chunks)
	case IDModeContent:
		return AssignContentIDs(chunks)
	default:
		return nil, &ConfigError{Field: "id_mode", Err: fmt.Errorf("%w %q", ErrUnknownIDMode, mode)}
	}
}
