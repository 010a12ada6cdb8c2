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

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Source must not be empty
//   - Page must not be negative
//
// Content may be empty; blank pages simply yield no chunks.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}
	if doc.Source == "" {
		return fmt.Errorf("%w: %w: source", ErrInvalidDocument, ErrMissingMetadata)
	}
	if doc.Page < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrNegativePage)
	}
	return nil
}

// ValidateChunk validates a Chunk before identification or indexing.
//
// Validation rules:
//   - Content must not be empty
//   - Metadata.Source must not be empty
//   - Metadata.Page must not be negative
//
// NOT validated:
//   - Metadata.ID (populated by AssignIDs)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}
	if chunk.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}
	if chunk.Metadata.Source == "" {
		return fmt.Errorf("%w: %w: source", ErrInvalidChunk, ErrMissingMetadata)
	}
	if chunk.Metadata.Page < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativePage)
	}
	return nil
}
