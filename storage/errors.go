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


package storage

import "errors"

var (
	// ErrNotFound indicates that the requested record was not found.
	ErrNotFound = errors.New("record not found")

	// ErrStorageClosed indicates that the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrInvalidQuery indicates invalid query parameters.
	ErrInvalidQuery = errors.New("invalid query parameters")

	// ErrSerializationFailed indicates a serialization/deserialization failure.
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrMissingID indicates a chunk was written without an id.
	ErrMissingID = errors.New("chunk has no id")

	// ErrEmbeddingMismatch indicates the embedder in use differs from the
	// one the index was built with.
	ErrEmbeddingMismatch = errors.New("embedding model does not match index")

	// ErrEmbeddingCount indicates the embedder returned a different number
	// of vectors than texts submitted.
	ErrEmbeddingCount = errors.New("embedding count mismatch")

	// ErrEmbedderRequired is returned when an index is created without an embedder.
	ErrEmbedderRequired = errors.New("embedder required")
)
