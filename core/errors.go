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
	"errors"
	"fmt"
)

// Domain validation errors
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrMissingMetadata indicates required provenance metadata is absent.
	ErrMissingMetadata = errors.New("missing chunk metadata")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrNegativePage indicates a page index below zero.
	ErrNegativePage = errors.New("page cannot be negative")

	// ErrUnknownIDMode indicates an id mode other than positional or content.
	ErrUnknownIDMode = errors.New("unknown id mode")
)

// Encoding errors
var (
	// ErrVectorLength indicates an encoded vector claims more values than
	// the buffer holds.
	ErrVectorLength = errors.New("invalid vector length")
)

// ConfigError reports a fatal configuration problem detected before any
// index mutation takes place.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration error: %v", e.Err)
	}
	return fmt.Sprintf("configuration error: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// LoadError reports a document that could not be read or extracted.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// IndexWriteError reports a failed batch write. No chunk of the batch
// was persisted.
type IndexWriteError struct {
	Attempted int
	Err       error
}

func (e *IndexWriteError) Error() string {
	return fmt.Sprintf("failed to write %d chunks to index: %v", e.Attempted, e.Err)
}

func (e *IndexWriteError) Unwrap() error { return e.Err }

// GenerationError reports a failed call to the generation backend.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
